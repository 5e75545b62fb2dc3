package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per client IP. Buckets idle for
// longer than the idle window are forgotten on the next sweep.
type RateLimiter struct {
	limit rate.Limit
	burst int
	idle  time.Duration
	log   *slog.Logger
	now   func() time.Time

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows each client requests per window, with bursts up to
// requests. A non-positive requests or window disables limiting.
func NewRateLimiter(requests int, window time.Duration, log *slog.Logger) *RateLimiter {
	if log == nil {
		log = slog.Default()
	}
	rl := &RateLimiter{
		limit:   rate.Inf,
		burst:   requests,
		idle:    3 * window,
		log:     log,
		now:     time.Now,
		clients: make(map[string]*client),
	}
	if requests > 0 && window > 0 {
		rl.limit = rate.Every(window / time.Duration(requests))
	}
	return rl
}

// Handler returns the middleware. It should run after chi's RealIP so
// RemoteAddr is the client, not the proxy.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	if rl.limit == rate.Inf {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		res := rl.limiter(ip).ReserveN(rl.now(), 1)
		if delay := res.DelayFrom(rl.now()); delay > 0 {
			res.CancelAt(rl.now())
			rl.log.WarnContext(r.Context(), "rate limit exceeded", "client_ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > rl.idle {
		for k, c := range rl.clients {
			if now.Sub(c.lastSeen) > rl.idle {
				delete(rl.clients, k)
			}
		}
		rl.lastSweep = now
	}

	c, ok := rl.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

// clientIP strips the port from RemoteAddr when there is one.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
