package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/product-service/internal/domain"
)

const (
	defaultTTL = 15 * time.Minute
	maxTTL     = 24 * time.Hour
)

// TokenManager issues and verifies signed bearer tokens. Issuance is a pure
// function of the secret, the subject and the clock; nothing is persisted,
// so a token cannot be revoked before its expiry.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	maxTTL time.Duration
}

// NewTokenManager builds a manager with the given default lifetime.
func NewTokenManager(secret string, ttlMinutes, maxTTLMinutes int) *TokenManager {
	ttl := time.Duration(ttlMinutes) * time.Minute
	if ttl <= 0 {
		ttl = defaultTTL
	}
	lifetimeCap := time.Duration(maxTTLMinutes) * time.Minute
	if lifetimeCap <= 0 || lifetimeCap > maxTTL {
		lifetimeCap = maxTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, maxTTL: lifetimeCap}
}

// Claims describes the JWT payload.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issue builds and signs a token for the subject. A zero ttl uses the
// configured default; lifetimes above the cap are clamped. The jti claim
// carries a fresh UUID so two tokens minted for the same subject are
// distinct strings.
func (tm *TokenManager) Issue(subject string, role domain.Role, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("empty subject")
	}
	if ttl <= 0 {
		ttl = tm.ttl
	}
	if ttl > tm.maxTTL {
		ttl = tm.maxTTL
	}

	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify checks signature integrity and expiry and returns the claims.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, errors.New("token missing subject")
	}
	return claims, nil
}
