package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what can be read out of a session token without verifying it.
// The client has no signing key; this is display information only, never an
// authorization decision.
type TokenInfo struct {
	Subject   string
	ExpiresAt *time.Time
	IssuedAt  *time.Time
}

// InspectToken decodes the token's claims without signature verification.
// Returns an error when the token is not a JWT.
func InspectToken(token string) (*TokenInfo, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	info := &TokenInfo{}

	if sub, err := parsed.Claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = &exp.Time
	}
	if iat, err := parsed.Claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = &iat.Time
	}

	return info, nil
}

// Expired reports whether the token carries an expiry in the past. A token
// without an exp claim is never considered expired here; the server decides.
func (t *TokenInfo) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(now)
}
