// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `env:"PORT" validate:"required,numeric"`

	// DatabaseURL is the Postgres connection string for the resort cache.
	// Empty disables the cache; search and forecast still work.
	DatabaseURL string `env:"DATABASE_URL"`

	// LogLevel controls the minimum log level. Defaults to "info".
	LogLevel string `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `env:"CORS_ORIGINS" validate:"min=1,dive,url"`

	// GeocodingURL and ForecastURL are the Open-Meteo base URLs.
	GeocodingURL string `env:"GEOCODING_URL" validate:"required,url"`
	ForecastURL  string `env:"FORECAST_URL" validate:"required,url"`

	// UpstreamTimeout bounds each outbound call.
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" validate:"gt=0"`

	// RequestTimeout bounds a whole inbound request.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" validate:"gt=0"`

	// UpstreamRPS and UpstreamBurst size the token bucket shared by both upstreams.
	UpstreamRPS   float64 `env:"UPSTREAM_RPS" validate:"gt=0"`
	UpstreamBurst int     `env:"UPSTREAM_BURST" validate:"gte=1"`

	// BreakerMaxFailures is the consecutive upstream failures that open the breaker.
	BreakerMaxFailures uint32 `env:"BREAKER_MAX_FAILURES" validate:"gte=1"`

	// Units is "imperial" or "metric".
	Units string `env:"UNITS" validate:"oneof=imperial metric"`

	// HourPolicy picks the forecast hour: next-target, current-hour or fixed-index.
	HourPolicy string `env:"HOUR_POLICY" validate:"oneof=next-target current-hour fixed-index"`
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is loaded first when present; real
// environment variables take precedence over it.
// Returns an error naming every variable that is malformed or out of range.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config.Load: .env: %w", err)
	}

	var p parser
	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		GeocodingURL:       strings.TrimRight(getEnv("GEOCODING_URL", "https://geocoding-api.open-meteo.com"), "/"),
		ForecastURL:        strings.TrimRight(getEnv("FORECAST_URL", "https://api.open-meteo.com"), "/"),
		UpstreamTimeout:    p.duration("UPSTREAM_TIMEOUT", 10*time.Second),
		RequestTimeout:     p.duration("REQUEST_TIMEOUT", 20*time.Second),
		UpstreamRPS:        p.float("UPSTREAM_RPS", 5),
		UpstreamBurst:      p.int("UPSTREAM_BURST", 10),
		BreakerMaxFailures: uint32(p.int("BREAKER_MAX_FAILURES", 5)),
		Units:              strings.ToLower(getEnv("UNITS", "imperial")),
		HourPolicy:         strings.ToLower(getEnv("HOUR_POLICY", "next-target")),
	}

	bad := p.bad
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Config{}, fmt.Errorf("config.Load: %w", err)
		}
		for _, fe := range verrs {
			bad = append(bad, envName(fe.StructField()))
		}
	}

	if len(bad) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(dedupe(bad), ", "))
	}
	return cfg, nil
}

var (
	validate   = validator.New()
	configType = reflect.TypeOf(Config{})
)

// envName maps a Config field name to the variable it is read from.
func envName(field string) string {
	// Slice element errors report e.g. "CORSOrigins[0]".
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	if f, ok := configType.FieldByName(field); ok {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
	}
	return field
}

// parser collects the names of variables that fail to parse.
type parser struct {
	bad []string
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.bad = append(p.bad, key)
	}
	return d
}

func (p *parser) float(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.bad = append(p.bad, key)
	}
	return f
}

func (p *parser) int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		p.bad = append(p.bad, key)
		return 0
	}
	return n
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
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

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
