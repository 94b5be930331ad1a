package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/product-service/internal/auth"
	"github.com/spec-kit/product-service/internal/config"
	"github.com/spec-kit/product-service/internal/domain"
	"github.com/spec-kit/product-service/internal/events"
	"github.com/spec-kit/product-service/internal/repository"
	apperrors "github.com/spec-kit/product-service/pkg/util"
)

// TokenService coordinates token minting. Issuance is stateless: no token
// record is stored anywhere, so the only way to retire a credential early is
// to wait out its expiry.
type TokenService struct {
	principals repository.PrincipalRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
}

// NewTokenService builds the service.
func NewTokenService(cfg config.Config, principals repository.PrincipalRepository, dispatcher events.Dispatcher) *TokenService {
	return &TokenService{
		principals: principals,
		tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes, cfg.Auth.MaxTokenTTLMinutes),
		dispatcher: dispatcher,
	}
}

// MintResult describes a freshly issued token.
type MintResult struct {
	Token     string
	Subject   string
	Role      domain.Role
	ExpiresAt time.Time
}

// Mint authorizes the named actor and issues a token for the target.
// Used by the offline admin entry point, where the actor is identified by
// the invoking operator rather than by a bearer token; only administrators
// may mint through this path.
func (s *TokenService) Mint(ctx context.Context, actorUsername, target string, ttl time.Duration) (*MintResult, error) {
	actor, err := s.principals.GetByUsername(ctx, actorUsername)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("actor is not a known principal")
		}
		return nil, err
	}
	if !actor.Active || !actor.IsAdmin() {
		return nil, apperrors.NewUnauthorized("administrative rights required to mint tokens")
	}
	return s.MintAs(ctx, actor, target, ttl)
}

// MintAs issues a token for the target on behalf of an already-loaded actor.
// Admins may mint for any principal; everyone else only for themselves.
func (s *TokenService) MintAs(ctx context.Context, actor *domain.Principal, target string, ttl time.Duration) (*MintResult, error) {
	if actor == nil || !actor.Active {
		return nil, apperrors.NewUnauthorized("actor is not an active principal")
	}
	if !actor.IsAdmin() && actor.Username != target {
		return nil, apperrors.NewUnauthorized("tokens may only be minted for your own account")
	}

	principal, err := s.principals.GetByUsername(ctx, target)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnknownPrincipal(target)
		}
		return nil, err
	}
	if !principal.Active {
		return nil, apperrors.NewUnknownPrincipal(target)
	}

	token, expiresAt, err := s.tokens.Issue(principal.Username, principal.Role, ttl)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, actor.Username, events.EventTokenIssued, events.TokenIssuedPayload{
		Subject:   principal.Username,
		Role:      string(principal.Role),
		ExpiresAt: expiresAt,
	})

	return &MintResult{
		Token:     token,
		Subject:   principal.Username,
		Role:      principal.Role,
		ExpiresAt: expiresAt,
	}, nil
}

// TokenManager exposes the underlying manager for middleware usage.
func (s *TokenService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *TokenService) publish(ctx context.Context, actor string, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
