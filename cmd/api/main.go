// Package main is the entry point for the ski weather API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql

	"github.com/pkordes/ski-weather/internal/config"
	"github.com/pkordes/ski-weather/internal/domain"
	"github.com/pkordes/ski-weather/internal/forecast"
	"github.com/pkordes/ski-weather/internal/handler"
	"github.com/pkordes/ski-weather/internal/middleware"
	"github.com/pkordes/ski-weather/internal/openmeteo"
	"github.com/pkordes/ski-weather/internal/repo"
	"github.com/pkordes/ski-weather/internal/service"
	"github.com/pkordes/ski-weather/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Resort cache (optional) -----------------------------------------
	// Without DATABASE_URL the API still searches and forecasts; only
	// /api/resorts/cached answers 503.
	var cache repo.ResortRepo
	if cfg.DatabaseURL != "" {
		pool, err := openDatabase(context.Background(), cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to open resort cache", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		cache = repo.NewResortRepo(pool)
		slog.Info("resort cache enabled")
	} else {
		slog.Warn("DATABASE_URL not set, resort cache disabled")
	}

	// --- Upstream and services --------------------------------------------
	units := domain.UnitSystem(cfg.Units)
	client := openmeteo.NewClient(openmeteo.Config{
		GeocodingURL: cfg.GeocodingURL,
		ForecastURL:  cfg.ForecastURL,
		Timeout:      cfg.UpstreamTimeout,
		RPS:          cfg.UpstreamRPS,
		Burst:        cfg.UpstreamBurst,
		MaxFailures:  cfg.BreakerMaxFailures,
		Units:        units,
	}, logger)

	selector, err := forecast.NewSelector(forecast.Policy(cfg.HourPolicy))
	if err != nil {
		slog.Error("invalid hour policy", "error", err)
		os.Exit(1)
	}
	assembler, err := forecast.NewAssembler(units)
	if err != nil {
		slog.Error("invalid unit system", "error", err)
		os.Exit(1)
	}

	// The assembler rejects any series whose labels differ from what the
	// client asked for, so both must agree on the unit system.
	if client.Units() != assembler.Units() {
		slog.Error("unit system mismatch", "client", client.Units(), "assembler", assembler.Units())
		os.Exit(1)
	}

	resorts := service.NewResortService(client, cache, logger)
	weather := service.NewWeatherService(client, selector, assembler, logger)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → Timeout → CORS.
	// Timeout cancels the request context after REQUEST_TIMEOUT; the
	// upstream client observes the cancellation.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))

	r.Mount("/", handler.NewServer(resorts, weather, logger).Routes())

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "units", cfg.Units, "hour_policy", cfg.HourPolicy)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openDatabase connects to Postgres, verifies it is reachable and applies
// pending migrations.
func openDatabase(ctx context.Context, url string) (*pgxpool.Pool, error) {
	// New() does not open connections immediately; Ping does.
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	if err := migrate(ctx, url); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// migrate applies pending migrations over a short-lived database/sql
// connection, which is what goose drives.
func migrate(ctx context.Context, url string) error {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	results, err := migrations.Up(ctx, db)
	if err != nil {
		return err
	}
	for _, res := range results {
		slog.Info("migration applied", "version", res.Source.Version, "duration_ms", res.Duration.Milliseconds())
	}
	return nil
}
