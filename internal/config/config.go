// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the dashboard server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// BackendURL is the base URL of the fleet backend REST API. Required.
	BackendURL string

	// BackendTimeout bounds each backend HTTP call. Defaults to 15s.
	BackendTimeout time.Duration

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// PageLimit is the page size list views request. Defaults to 10.
	PageLimit int

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// RateLimitRequests and RateLimitWindow give each client IP that many
	// requests per window. Zero requests disables the limiter.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or the
// first variable that does not parse.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	var missing []string

	cfg.BackendURL = os.Getenv("BACKEND_URL")
	if cfg.BackendURL == "" {
		missing = append(missing, "BACKEND_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	if u, err := url.Parse(cfg.BackendURL); err != nil || !u.IsAbs() {
		return Config{}, fmt.Errorf("BACKEND_URL must be an absolute URL, got %q", cfg.BackendURL)
	}

	var err error
	if cfg.BackendTimeout, err = getDuration("BACKEND_TIMEOUT", 15*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.PageLimit, err = getInt("PAGE_LIMIT", 10); err != nil {
		return Config{}, err
	}
	if cfg.PageLimit < 1 || cfg.PageLimit > 100 {
		return Config{}, fmt.Errorf("PAGE_LIMIT must be between 1 and 100, got %d", cfg.PageLimit)
	}
	maxBody, err := getInt("MAX_BODY_BYTES", 1<<20)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxBodyBytes = int64(maxBody)
	if cfg.RateLimitRequests, err = getInt("RATE_LIMIT_REQUESTS", 120); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitWindow, err = getDuration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as 15s, got %q", key, v)
	}
	return d, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
