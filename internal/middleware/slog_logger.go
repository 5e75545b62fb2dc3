package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewSlogLogger returns a middleware that writes one structured line per
// request: method, path, matched route pattern, status, response size,
// duration and the request ID set by chi's RequestID middleware. Requests on
// a list view also carry its view_id.
//
// 5xx responses are logged at error level and 4xx at warn, so a dashboard
// whose backend is down shows up without turning on debug logging.
//
// Wire it after chimiddleware.RequestID so the request ID is available.
func NewSlogLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				// Nothing was written; net/http answers 200.
				status = http.StatusOK
			}
			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.String("request_id", chimiddleware.GetReqID(r.Context())),
			}
			// The router fills the route context in place, so after next has
			// run it holds the matched pattern and URL params.
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					attrs = append(attrs, slog.String("route", p))
				}
				if id := rctx.URLParam("viewID"); id != "" {
					attrs = append(attrs, slog.String("view_id", id))
				}
			}

			log.LogAttrs(r.Context(), levelFor(status), "request", attrs...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
