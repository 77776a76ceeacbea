package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pkordes/ski-weather/internal/domain"
	"github.com/pkordes/ski-weather/internal/forecast"
)

// ForecastFetcher returns the hourly forecast series for a point.
type ForecastFetcher interface {
	Hourly(ctx context.Context, at domain.Coordinates) (domain.HourlySeries, error)
}

// WeatherService builds tonight's forecast for a point: one upstream call,
// then hour selection and assembly.
type WeatherService struct {
	fetcher   ForecastFetcher
	selector  forecast.Selector
	assembler forecast.Assembler
	now       func() time.Time
	logger    *slog.Logger
}

// NewWeatherService constructs a WeatherService that reads the wall clock.
func NewWeatherService(fetcher ForecastFetcher, selector forecast.Selector, assembler forecast.Assembler, logger *slog.Logger) *WeatherService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WeatherService{
		fetcher:   fetcher,
		selector:  selector,
		assembler: assembler,
		now:       time.Now,
		logger:    logger.With("component", "weather-service"),
	}
}

// WithClock returns a copy of s that reads the current time from now.
func (s *WeatherService) WithClock(now func() time.Time) *WeatherService {
	c := *s
	c.now = now
	return &c
}

// Forecast returns the normalized forecast for at.
// Returns domain.ErrValidation for out-of-range coordinates,
// domain.ErrUpstreamUnavailable when the forecast service fails, and
// domain.ErrDataShape when the series cannot be used.
func (s *WeatherService) Forecast(ctx context.Context, at domain.Coordinates) (domain.ForecastRecord, error) {
	if err := validate.Struct(at); err != nil {
		return domain.ForecastRecord{}, fmt.Errorf("service.WeatherService.Forecast: %w", coordinateError(err, ""))
	}
	return s.forecast(ctx, at)
}

func (s *WeatherService) forecast(ctx context.Context, at domain.Coordinates) (domain.ForecastRecord, error) {
	series, err := s.fetcher.Hourly(ctx, at)
	if err != nil {
		return domain.ForecastRecord{}, fmt.Errorf("service.WeatherService.Forecast: %w", err)
	}

	idx, err := s.selector.Select(series.Times, s.now())
	if err != nil {
		return domain.ForecastRecord{}, fmt.Errorf("service.WeatherService.Forecast: select hour: %w", err)
	}

	rec, err := s.assembler.Assemble(series, idx)
	if err != nil {
		return domain.ForecastRecord{}, fmt.Errorf("service.WeatherService.Forecast: assemble: %w", err)
	}

	s.logger.DebugContext(ctx, "forecast assembled",
		"latitude", at.Latitude,
		"longitude", at.Longitude,
		"policy", string(s.selector.Policy()),
		"index", idx,
		"hour", rec.Time,
		"weather_code", rec.WeatherCode,
	)
	return rec, nil
}

// Compare fetches the forecasts for a and b concurrently. Both points are
// validated before any upstream call; errors name them lat1/lon1 and lat2/lon2.
// The first upstream failure cancels the other call and is returned.
func (s *WeatherService) Compare(ctx context.Context, a, b domain.Coordinates) (domain.Comparison, error) {
	for i, at := range []domain.Coordinates{a, b} {
		if err := validate.Struct(at); err != nil {
			return domain.Comparison{}, fmt.Errorf("service.WeatherService.Compare: %w", coordinateError(err, strconv.Itoa(i+1)))
		}
	}

	var cmp domain.Comparison
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rec, err := s.forecast(gctx, a)
		if err != nil {
			return fmt.Errorf("resort a: %w", err)
		}
		cmp.A = rec
		return nil
	})
	g.Go(func() error {
		rec, err := s.forecast(gctx, b)
		if err != nil {
			return fmt.Errorf("resort b: %w", err)
		}
		cmp.B = rec
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.Comparison{}, fmt.Errorf("service.WeatherService.Compare: %w", err)
	}
	return cmp, nil
}
