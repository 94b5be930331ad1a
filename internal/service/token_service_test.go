package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/product-service/internal/config"
	"github.com/spec-kit/product-service/internal/domain"
	"github.com/spec-kit/product-service/internal/events"
	apperrors "github.com/spec-kit/product-service/pkg/util"
)

type fakePrincipalRepo struct {
	byUsername map[string]*domain.Principal
}

func newFakePrincipalRepo(principals ...*domain.Principal) *fakePrincipalRepo {
	repo := &fakePrincipalRepo{byUsername: make(map[string]*domain.Principal)}
	for _, p := range principals {
		repo.byUsername[p.Username] = p
	}
	return repo
}

func (r *fakePrincipalRepo) Create(_ context.Context, principal *domain.Principal) error {
	r.byUsername[principal.Username] = principal
	return nil
}

func (r *fakePrincipalRepo) Update(_ context.Context, principal *domain.Principal) error {
	r.byUsername[principal.Username] = principal
	return nil
}

func (r *fakePrincipalRepo) GetByUsername(_ context.Context, username string) (*domain.Principal, error) {
	if p, ok := r.byUsername[username]; ok {
		return p, nil
	}
	return nil, pgx.ErrNoRows
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 15,
			MaxTokenTTLMinutes:    60,
		},
	}
}

func testPrincipals() (*domain.Principal, *domain.Principal, *domain.Principal) {
	admin := &domain.Principal{ID: "1", Username: "admin", Role: domain.RoleAdmin, Active: true}
	alice := &domain.Principal{ID: "2", Username: "alice", Role: domain.RolePrivileged, Active: true}
	bob := &domain.Principal{ID: "3", Username: "bob", Role: domain.RoleNonAdmin, Active: true}
	return admin, alice, bob
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	return domainErr.Code
}

func TestMintAsAdminForAnyPrincipal(t *testing.T) {
	admin, alice, bob := testPrincipals()
	svc := NewTokenService(testConfig(), newFakePrincipalRepo(admin, alice, bob), nil)

	result, err := svc.Mint(context.Background(), "admin", "bob", 0)
	require.NoError(t, err)
	assert.Equal(t, "bob", result.Subject)
	assert.Equal(t, domain.RoleNonAdmin, result.Role)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	claims, err := svc.TokenManager().Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Subject)
	assert.Equal(t, domain.RoleNonAdmin, claims.Role)
}

func TestMintWithoutAdminRights(t *testing.T) {
	admin, alice, bob := testPrincipals()
	svc := NewTokenService(testConfig(), newFakePrincipalRepo(admin, alice, bob), nil)

	result, err := svc.Mint(context.Background(), "bob", "alice", 0)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, "UNAUTHORIZED", domainCode(t, err))
}

func TestMintUnknownActor(t *testing.T) {
	admin, alice, bob := testPrincipals()
	svc := NewTokenService(testConfig(), newFakePrincipalRepo(admin, alice, bob), nil)

	_, err := svc.Mint(context.Background(), "mallory", "alice", 0)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", domainCode(t, err))
}

func TestMintUnknownTarget(t *testing.T) {
	admin, alice, bob := testPrincipals()
	svc := NewTokenService(testConfig(), newFakePrincipalRepo(admin, alice, bob), nil)

	_, err := svc.Mint(context.Background(), "admin", "mallory", 0)
	require.Error(t, err)
	assert.Equal(t, "UNKNOWN_PRINCIPAL", domainCode(t, err))
}

func TestMintInactiveTarget(t *testing.T) {
	admin, alice, bob := testPrincipals()
	bob.Active = false
	svc := NewTokenService(testConfig(), newFakePrincipalRepo(admin, alice, bob), nil)

	_, err := svc.Mint(context.Background(), "admin", "bob", 0)
	require.Error(t, err)
	assert.Equal(t, "UNKNOWN_PRINCIPAL", domainCode(t, err))
}

func TestMintAsSelfReissue(t *testing.T) {
	admin, alice, bob := testPrincipals()
	svc := NewTokenService(testConfig(), newFakePrincipalRepo(admin, alice, bob), nil)

	result, err := svc.MintAs(context.Background(), bob, "bob", 0)
	require.NoError(t, err)
	assert.Equal(t, "bob", result.Subject)
}

func TestMintAsCrossPrincipalDenied(t *testing.T) {
	admin, alice, bob := testPrincipals()
	svc := NewTokenService(testConfig(), newFakePrincipalRepo(admin, alice, bob), nil)

	_, err := svc.MintAs(context.Background(), alice, "bob", 0)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", domainCode(t, err))
}

func TestMintPublishesAuditEvent(t *testing.T) {
	admin, alice, bob := testPrincipals()
	dispatcher := events.NewInMemoryDispatcher()

	var captured []events.Event
	dispatcher.Subscribe(events.EventTokenIssued, func(_ context.Context, event events.Event) error {
		captured = append(captured, event)
		return nil
	})

	svc := NewTokenService(testConfig(), newFakePrincipalRepo(admin, alice, bob), dispatcher)

	_, err := svc.Mint(context.Background(), "admin", "alice", 0)
	require.NoError(t, err)

	require.Len(t, captured, 1)
	assert.Equal(t, events.EventTokenIssued, captured[0].Type)
	assert.Equal(t, "admin", captured[0].Actor)

	payload, ok := captured[0].Payload.(events.TokenIssuedPayload)
	require.True(t, ok)
	assert.Equal(t, "alice", payload.Subject)
}
