package config_test

import (
	"testing"
	"time"

	"github.com/pkordes/fleet-dashboard/internal/config"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so host settings cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BACKEND_URL", "PORT", "LOG_LEVEL", "CORS_ORIGINS", "BACKEND_TIMEOUT",
		"PAGE_LIMIT", "MAX_BODY_BYTES", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW",
	} {
		t.Setenv(k, "")
	}
}

// TestLoad_defaults verifies that optional env vars fall back to their defaults
// when only the required BACKEND_URL is provided.
func TestLoad_defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_URL", "http://localhost:3000")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "http://localhost:3000", cfg.BackendURL)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	require.Equal(t, 15*time.Second, cfg.BackendTimeout)
	require.Equal(t, 10, cfg.PageLimit)
	require.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	require.Equal(t, 120, cfg.RateLimitRequests)
	require.Equal(t, time.Minute, cfg.RateLimitWindow)
}

// TestLoad_overrides verifies that all values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_URL", "https://fleet.example.com/")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("PAGE_LIMIT", "25")
	t.Setenv("MAX_BODY_BYTES", "2048")
	t.Setenv("RATE_LIMIT_REQUESTS", "0")
	t.Setenv("RATE_LIMIT_WINDOW", "10s")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "https://fleet.example.com/", cfg.BackendURL)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, 3*time.Second, cfg.BackendTimeout)
	require.Equal(t, 25, cfg.PageLimit)
	require.Equal(t, int64(2048), cfg.MaxBodyBytes)
	require.Zero(t, cfg.RateLimitRequests)
	require.Equal(t, 10*time.Second, cfg.RateLimitWindow)
}

// TestLoad_missingRequired verifies that an error is returned when BACKEND_URL
// is not set, and that the error message names the missing variable.
func TestLoad_missingRequired(t *testing.T) {
	clearEnv(t)

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "BACKEND_URL")
}

func TestLoad_invalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"BACKEND_URL", "/api/v1"},
		{"BACKEND_TIMEOUT", "soon"},
		{"BACKEND_TIMEOUT", "-1s"},
		{"PAGE_LIMIT", "ten"},
		{"PAGE_LIMIT", "500"},
		{"MAX_BODY_BYTES", "1MB"},
		{"RATE_LIMIT_WINDOW", "0"},
	}
	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("BACKEND_URL", "http://localhost:3000")
			t.Setenv(tc.key, tc.value)

			_, err := config.Load()

			require.ErrorContains(t, err, tc.key)
		})
	}
}
