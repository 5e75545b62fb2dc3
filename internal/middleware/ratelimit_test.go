package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/fleet-dashboard/internal/middleware"
)

func requestFrom(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/views", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// TestRateLimiter_rejectsAfterBurst verifies that a client gets its burst and
// is then told to back off with 429 and a Retry-After header.
func TestRateLimiter_rejectsAfterBurst(t *testing.T) {
	h := middleware.NewRateLimiter(2, time.Minute, nil).Handler(trivialHandler)

	require.Equal(t, http.StatusOK, requestFrom(h, "192.0.2.1:1111").Code)
	require.Equal(t, http.StatusOK, requestFrom(h, "192.0.2.1:2222").Code)

	rec := requestFrom(h, "192.0.2.1:3333")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"rate_limited"`)
}

// TestRateLimiter_clientsAreIndependent verifies that one client's bucket
// does not throttle another.
func TestRateLimiter_clientsAreIndependent(t *testing.T) {
	h := middleware.NewRateLimiter(1, time.Minute, nil).Handler(trivialHandler)

	require.Equal(t, http.StatusOK, requestFrom(h, "192.0.2.1:1111").Code)
	require.Equal(t, http.StatusTooManyRequests, requestFrom(h, "192.0.2.1:1111").Code)

	assert.Equal(t, http.StatusOK, requestFrom(h, "198.51.100.7:1111").Code)
}

func TestRateLimiter_disabled(t *testing.T) {
	h := middleware.NewRateLimiter(0, time.Minute, nil).Handler(trivialHandler)

	for i := 0; i < 50; i++ {
		require.Equal(t, http.StatusOK, requestFrom(h, "192.0.2.1:1111").Code)
	}
}
