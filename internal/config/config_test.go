package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/ski-weather/internal/config"
)

var allVars = []string{
	"PORT", "DATABASE_URL", "LOG_LEVEL", "CORS_ORIGINS", "GEOCODING_URL", "FORECAST_URL",
	"UPSTREAM_TIMEOUT", "REQUEST_TIMEOUT", "UPSTREAM_RPS", "UPSTREAM_BURST",
	"BREAKER_MAX_FAILURES", "UNITS", "HOUR_POLICY",
}

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test. Empty counts as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allVars {
		t.Setenv(k, "")
	}
}

// TestLoad_defaults verifies that every variable falls back to its default
// and that an empty DATABASE_URL is accepted.
func TestLoad_defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.DatabaseURL)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	require.Equal(t, "https://geocoding-api.open-meteo.com", cfg.GeocodingURL)
	require.Equal(t, "https://api.open-meteo.com", cfg.ForecastURL)
	require.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, 20*time.Second, cfg.RequestTimeout)
	require.Equal(t, 5.0, cfg.UpstreamRPS)
	require.Equal(t, 10, cfg.UpstreamBurst)
	require.Equal(t, uint32(5), cfg.BreakerMaxFailures)
	require.Equal(t, "imperial", cfg.Units)
	require.Equal(t, "next-target", cfg.HourPolicy)
}

// TestLoad_overrides verifies that all values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/ski")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("GEOCODING_URL", "http://geo.internal/")
	t.Setenv("FORECAST_URL", "http://wx.internal")
	t.Setenv("UPSTREAM_TIMEOUT", "2s")
	t.Setenv("REQUEST_TIMEOUT", "1m")
	t.Setenv("UPSTREAM_RPS", "0.5")
	t.Setenv("UPSTREAM_BURST", "1")
	t.Setenv("BREAKER_MAX_FAILURES", "3")
	t.Setenv("UNITS", "metric")
	t.Setenv("HOUR_POLICY", "current-hour")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "postgres://user:pass@db:5432/ski", cfg.DatabaseURL)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, "http://geo.internal", cfg.GeocodingURL, "trailing slash trimmed")
	require.Equal(t, "http://wx.internal", cfg.ForecastURL)
	require.Equal(t, 2*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, time.Minute, cfg.RequestTimeout)
	require.Equal(t, 0.5, cfg.UpstreamRPS)
	require.Equal(t, 1, cfg.UpstreamBurst)
	require.Equal(t, uint32(3), cfg.BreakerMaxFailures)
	require.Equal(t, "metric", cfg.Units)
	require.Equal(t, "current-hour", cfg.HourPolicy)
}

// TestLoad_invalid verifies that a malformed or out-of-range value is an
// error naming the offending variable.
func TestLoad_invalid(t *testing.T) {
	cases := map[string]string{
		"PORT":                 "http",
		"LOG_LEVEL":            "verbose",
		"CORS_ORIGINS":         "not a url",
		"FORECAST_URL":         "::",
		"UPSTREAM_TIMEOUT":     "ten seconds",
		"REQUEST_TIMEOUT":      "-1s",
		"UPSTREAM_RPS":         "fast",
		"UPSTREAM_BURST":       "-2",
		"BREAKER_MAX_FAILURES": "0",
		"UNITS":                "kelvin",
		"HOUR_POLICY":          "noon",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := config.Load()

			require.Error(t, err)
			require.ErrorContains(t, err, key)
		})
	}
}
