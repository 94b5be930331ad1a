package dto

import "time"

// TokenRequest payload for POST /token.
type TokenRequest struct {
	Username       string `json:"username"`
	ExpiresMinutes int    `json:"expires_minutes,omitempty"`
}

// TokenResponse carries a freshly minted credential.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Role        string    `json:"role"`
	ExpiresAt   time.Time `json:"expires_at"`
}
