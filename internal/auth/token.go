// Package auth provides client-side inspection of the opaque bearer
// credential. The access token happens to be a JWT, so its claims can be
// decoded locally for display and logging. The decode is unverified: nothing
// here establishes trust, the backend remains the only validator.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenInfo holds the unverified claims decoded from an access token
type TokenInfo struct {
	Subject   string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Inspect decodes a token's claims without verifying its signature.
// The result is suitable for logging and status display only.
func Inspect(tokenString string) (*TokenInfo, error) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	info := &TokenInfo{}

	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if username, ok := claims["username"].(string); ok {
		info.Username = username
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}

	return info, nil
}

// Expired reports whether the token's exp claim lies in the past.
// Tokens without an exp claim are never reported as expired.
func (t *TokenInfo) Expired(now time.Time) bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return t.ExpiresAt.Before(now)
}
