// Package openmeteo is the HTTP client for the two Open-Meteo services the API
// proxies: geocoding (resort search) and the hourly forecast.
// Both share one rate limiter. Each host has its own circuit breaker. There are
// no retries.
package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/pkordes/ski-weather/internal/domain"
)

const (
	// DefaultGeocodingURL is the public geocoding host.
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com"
	// DefaultForecastURL is the public forecast host.
	DefaultForecastURL = "https://api.open-meteo.com"

	userAgent = "ski-weather/1.0"
)

// Config holds the client settings. Zero values fall back to the defaults
// noted on each field.
type Config struct {
	GeocodingURL string        // DefaultGeocodingURL
	ForecastURL  string        // DefaultForecastURL
	Timeout      time.Duration // 10s, per outbound call
	RPS          float64       // 5 requests/second
	Burst        int           // 10
	MaxFailures  uint32        // 5 consecutive failures open the breaker
	Units        domain.UnitSystem
}

// Client calls the Open-Meteo APIs.
type Client struct {
	httpClient   *http.Client
	geocodingURL string
	forecastURL  string
	units        domain.UnitSystem
	limiter      *rate.Limiter
	logger       *slog.Logger

	// Each host has its own breaker so a geocoding outage leaves forecasts up.
	geoBreaker      *gobreaker.CircuitBreaker
	forecastBreaker *gobreaker.CircuitBreaker
}

// NewClient constructs a Client from cfg.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.GeocodingURL == "" {
		cfg.GeocodingURL = DefaultGeocodingURL
	}
	if cfg.ForecastURL == "" {
		cfg.ForecastURL = DefaultForecastURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Units == "" {
		cfg.Units = domain.Imperial
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "openmeteo")

	newBreaker := func(name string) *gobreaker.CircuitBreaker {
		return gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= cfg.MaxFailures
			},
			// A caller that hung up says nothing about upstream health.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			},
		})
	}

	return &Client{
		httpClient:      &http.Client{Timeout: cfg.Timeout},
		geocodingURL:    cfg.GeocodingURL,
		forecastURL:     cfg.ForecastURL,
		units:           cfg.Units,
		limiter:         rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		logger:          logger,
		geoBreaker:      newBreaker("openmeteo-geocoding"),
		forecastBreaker: newBreaker("openmeteo-forecast"),
	}
}

// Units returns the unit system requested from the forecast service.
func (c *Client) Units() domain.UnitSystem {
	return c.units
}

// getJSON performs one GET against endpoint through breaker and decodes the JSON body into dest.
// Transport failures, non-2xx answers and an open breaker wrap
// domain.ErrUpstreamUnavailable; an undecodable body wraps domain.ErrDataShape.
func (c *Client) getJSON(ctx context.Context, breaker *gobreaker.CircuitBreaker, endpoint string, params url.Values, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limit wait: %w", domain.ErrUpstreamUnavailable, err)
	}

	reqURL := endpoint + "?" + params.Encode()
	start := time.Now()

	var decodeErr error
	_, err := breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("executing request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%s returned status %d", endpoint, resp.StatusCode)
		}

		// The upstream answered; a bad body is a shape problem, not an outage.
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			decodeErr = err
		}
		return nil, nil
	})

	c.logger.DebugContext(ctx, "upstream call",
		"endpoint", endpoint,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err,
	)

	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: decoding response: %w", domain.ErrDataShape, decodeErr)
	}
	return nil
}
