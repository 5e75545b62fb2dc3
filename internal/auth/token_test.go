package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/fleet-dashboard/internal/auth"
	"github.com/pkordes/fleet-dashboard/internal/domain"
)

// signed returns an HS256 token. The dashboard never checks the signature,
// so any key works.
func signed(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

func TestTokenContextRoundTrip(t *testing.T) {
	ctx := auth.WithToken(context.Background(), "abc")

	assert.Equal(t, "abc", auth.TokenFromContext(ctx))
	assert.Empty(t, auth.TokenFromContext(context.Background()))
}

func TestInspect_Valid(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tok := signed(t, jwt.RegisteredClaims{
		Subject:   "driver-7",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})

	c, err := auth.Inspect(tok, now)

	require.NoError(t, err)
	assert.Equal(t, "driver-7", c.Subject)
	require.NotNil(t, c.ExpiresAt)
	assert.True(t, c.ExpiresAt.Equal(now.Add(time.Hour)))
}

func TestInspect_Expired(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tok := signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))})

	_, err := auth.Inspect(tok, now)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.ErrorContains(t, err, "expired")
}

func TestInspect_NoExpiry(t *testing.T) {
	tok := signed(t, jwt.RegisteredClaims{Subject: "admin"})

	c, err := auth.Inspect(tok, time.Now())

	require.NoError(t, err)
	assert.Nil(t, c.ExpiresAt)
}

func TestInspect_Malformed(t *testing.T) {
	_, err := auth.Inspect("not-a-jwt", time.Now())

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestOwner(t *testing.T) {
	alice := auth.WithToken(context.Background(), "alice.token.sig")
	bob := auth.WithToken(context.Background(), "bob.token.sig")

	assert.Empty(t, auth.Owner(context.Background()))
	assert.Len(t, auth.Owner(alice), 64)
	assert.Equal(t, auth.Owner(alice), auth.Owner(auth.WithToken(context.Background(), "alice.token.sig")))
	assert.NotEqual(t, auth.Owner(alice), auth.Owner(bob))
	assert.NotContains(t, auth.Owner(alice), "alice", "the raw token is never kept")
}
