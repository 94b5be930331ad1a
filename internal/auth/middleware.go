package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/product-service/internal/domain"
	"github.com/spec-kit/product-service/internal/repository"
	apperrors "github.com/spec-kit/product-service/pkg/util"
)

const principalKey = "auth_principal"

// Middleware verifies bearer tokens and loads the calling principal.
type Middleware struct {
	tokens     *TokenManager
	principals repository.PrincipalRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, principals repository.PrincipalRepository) *Middleware {
	return &Middleware{tokens: tokens, principals: principals}
}

// Handle enforces authentication for protected routes. All verification
// failures come back as the same UNAUTHENTICATED error so the response does
// not reveal whether the signature, the expiry or the subject was at fault.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthenticated()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthenticated()
	}

	claims, err := m.tokens.Verify(parts[1])
	if err != nil {
		return apperrors.NewUnauthenticated()
	}

	principal, err := m.principals.GetByUsername(c.UserContext(), claims.Subject)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthenticated()
		}
		return apperrors.MapError(err)
	}
	if !principal.Active {
		return apperrors.NewUnauthenticated()
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated principal.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok
}
