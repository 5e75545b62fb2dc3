package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pkordes/fleet-dashboard/internal/auth"
)

// TokenCookie is the cookie the browser keeps the backend token in.
const TokenCookie = "token"

// NewTokenHandler returns a middleware that moves the caller's backend token
// into the request context for the repo client to forward.
//
// The token is read from "Authorization: Bearer ..." or, failing that, the
// token cookie. Requests without a token pass through; the backend decides
// whether they may proceed. A malformed or expired token is rejected with 401
// without calling the backend.
func NewTokenHandler(log *slog.Logger, now func() time.Time) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearerToken(r)
			if tok == "" {
				next.ServeHTTP(w, r)
				return
			}
			if _, err := auth.Inspect(tok, now()); err != nil {
				log.InfoContext(r.Context(), "rejected token", "error", err)
				writeError(w, http.StatusUnauthorized, "unauthorized", "Your session has expired. Please sign in again.")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithToken(r.Context(), tok)))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}
