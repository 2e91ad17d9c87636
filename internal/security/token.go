package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is what the storefront can learn from the bearer token on its
// own. The signature is never checked here; the backend stays authoritative.
type TokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ReadClaims decodes a JWT without verifying it. Opaque tokens return an
// error and should be treated as "unknown", not "invalid".
func ReadClaims(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token claims: %w", err)
	}
	return claims, nil
}

// Expired reports whether token carries an exp claim that is already past.
// Tokens without a readable exp are never considered expired.
func Expired(token string, now time.Time) bool {
	claims, err := ReadClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.Time.After(now)
}
