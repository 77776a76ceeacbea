// Package handler implements the HTTP handlers for the ski weather API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, resort.go, weather.go) but share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/ski-weather/internal/domain"
	"github.com/pkordes/ski-weather/spec"
)

// ResortServicer defines the resort operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the upstream or the database.
type ResortServicer interface {
	Search(ctx context.Context, query string) ([]domain.Resort, error)
	SearchCached(ctx context.Context, query string) ([]domain.Resort, error)
}

// WeatherServicer defines the forecast operations the handlers depend on.
type WeatherServicer interface {
	Forecast(ctx context.Context, at domain.Coordinates) (domain.ForecastRecord, error)
	Compare(ctx context.Context, a, b domain.Coordinates) (domain.Comparison, error)
}

// Server holds the dependencies of every endpoint.
type Server struct {
	resorts ResortServicer
	weather WeatherServicer
	logger  *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(resorts ResortServicer, weather WeatherServicer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{resorts: resorts, weather: weather, logger: logger}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil)
}

// Routes returns a chi router with every endpoint registered.
// Cross-cutting middleware is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)

	r.Route("/api", func(r chi.Router) {
		r.Get("/resorts/search", s.SearchResorts)
		r.Get("/resorts/cached", s.SearchCachedResorts)
		r.Get("/weather", s.GetWeather)
		r.Get("/weather/compare", s.CompareWeather)
	})
	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
