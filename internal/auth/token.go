// Package auth carries the caller's backend token through request contexts and
// inspects it before it is forwarded.
//
// The dashboard never verifies signatures: the backend owns the signing key
// and is the only authority on whether a token is valid. Inspect only reads
// the claims so obviously expired tokens can be rejected without a round trip.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pkordes/fleet-dashboard/internal/domain"
)

type contextKey string

const tokenKey contextKey = "backend_token"

// WithToken returns a copy of ctx carrying the raw bearer token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext returns the bearer token stored by WithToken, or "".
func TokenFromContext(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey).(string)
	return tok
}

// Owner identifies the caller behind ctx for resources held on their behalf,
// such as list views. It is the hex SHA-256 of the bearer token, or "" when
// the request carries none. The subject claim is not used: signatures are
// not checked here, so any token could claim any subject.
func Owner(ctx context.Context) string {
	tok := TokenFromContext(ctx)
	if tok == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(sum[:])
}

// Claims is the subset of backend token claims the dashboard looks at.
type Claims struct {
	Subject   string
	ExpiresAt *time.Time
}

// Inspect decodes token without verifying its signature and rejects it if it
// is malformed or already expired at now. Tokens without an exp claim pass.
func Inspect(token string, now time.Time) (Claims, error) {
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &rc); err != nil {
		return Claims{}, fmt.Errorf("%w: malformed token: %v", domain.ErrUnauthorized, err)
	}

	c := Claims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		exp := rc.ExpiresAt.Time
		c.ExpiresAt = &exp
		if !now.Before(exp) {
			return c, fmt.Errorf("%w: token expired at %s", domain.ErrUnauthorized, exp.UTC().Format(time.RFC3339))
		}
	}
	return c, nil
}
