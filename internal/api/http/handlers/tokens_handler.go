package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/product-service/internal/api/dto"
	"github.com/spec-kit/product-service/internal/auth"
	"github.com/spec-kit/product-service/internal/service"
	apperrors "github.com/spec-kit/product-service/pkg/util"
)

// TokensHandler exposes the reissue endpoint. New credentials always require
// an existing valid token; first tokens come from the offline admin tool.
type TokensHandler struct {
	tokens *service.TokenService
}

// NewTokensHandler constructs handler.
func NewTokensHandler(tokenService *service.TokenService) *TokensHandler {
	return &TokensHandler{tokens: tokenService}
}

// Create handles POST /token.
func (h *TokensHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated()
	}

	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" {
		return apperrors.NewValidationError("username required", nil)
	}

	ttl := time.Duration(req.ExpiresMinutes) * time.Minute
	result, err := h.tokens.MintAs(c.UserContext(), principal, req.Username, ttl)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.TokenResponse{
			AccessToken: result.Token,
			TokenType:   "bearer",
			Role:        string(result.Role),
			ExpiresAt:   result.ExpiresAt,
		},
	})
}
