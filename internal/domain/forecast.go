package domain

import (
	"fmt"
	"time"
)

// UnitSystem selects the units requested from the forecast service.
type UnitSystem string

const (
	// Imperial requests °F, inches and mph.
	Imperial UnitSystem = "imperial"
	// Metric requests °C, centimetres of snow, millimetres of rain and km/h.
	Metric UnitSystem = "metric"
)

// Units holds the unit labels attached to a series or a forecast record.
// Labels are the ones Open-Meteo reports in its hourly_units block.
type Units struct {
	Temperature   string `json:"temperature"`
	Snowfall      string `json:"snowfall"`
	Rain          string `json:"rain"`
	WindSpeed     string `json:"windSpeed"`
	FreezingLevel string `json:"freezingLevel,omitempty"`
}

// ExpectedUnits returns the labels the forecast service reports when asked
// for the given unit system.
func (u UnitSystem) ExpectedUnits() (Units, error) {
	switch u {
	case Imperial:
		return Units{Temperature: "°F", Snowfall: "inch", Rain: "inch", WindSpeed: "mp/h"}, nil
	case Metric:
		return Units{Temperature: "°C", Snowfall: "cm", Rain: "mm", WindSpeed: "km/h"}, nil
	default:
		return Units{}, fmt.Errorf("%w: unknown unit system %q", ErrValidation, string(u))
	}
}

// HourlySeries is one forecast response: parallel per-hour arrays keyed by Times.
// A nil entry means the upstream sent null for that hour.
// ApparentTemperature and FreezingLevel are optional and may be nil slices.
// Times carry the resort's local time zone.
type HourlySeries struct {
	Times               []time.Time
	Temperature         []*float64
	ApparentTemperature []*float64
	Snowfall            []*float64
	Rain                []*float64
	WindSpeed           []*float64
	WeatherCode         []*int
	FreezingLevel       []*float64
	Units               Units
}

// ForecastRecord is the normalized "tonight" forecast returned to clients.
type ForecastRecord struct {
	Time                time.Time `json:"time"`
	Temperature         float64   `json:"temperature"`
	ApparentTemperature *float64  `json:"apparentTemperature,omitempty"`
	Snowfall            float64   `json:"snowfall"`
	Rain                float64   `json:"rain"`
	WindSpeed           float64   `json:"windSpeed"`
	FreezingLevel       *float64  `json:"freezingLevel,omitempty"`
	WeatherCode         int       `json:"weatherCode"`
	Description         string    `json:"description"`
	Icon                string    `json:"icon"`
	IsNight             bool      `json:"isNight"`
	Units               Units     `json:"units"`
	Source              string    `json:"source"`
	Trails              []Trail   `json:"trails,omitempty"`
}

// Comparison pairs two forecasts for the side-by-side view.
type Comparison struct {
	A ForecastRecord `json:"a"`
	B ForecastRecord `json:"b"`
}

// TrailStatus is whether a trail is open for skiing.
type TrailStatus string

const (
	TrailOpen   TrailStatus = "open"
	TrailClosed TrailStatus = "closed"
)

// Difficulty is the North American trail rating.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
	Expert       Difficulty = "expert"
)

// Trail is a single run in a resort's trail report.
// No trail data source is wired yet; the type fixes the wire contract.
type Trail struct {
	Name       string      `json:"name"`
	Status     TrailStatus `json:"status"`
	Difficulty Difficulty  `json:"difficulty"`
}

// Validate reports whether the trail has a name and known status/difficulty.
func (t Trail) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: trail name is required", ErrValidation)
	}
	switch t.Status {
	case TrailOpen, TrailClosed:
	default:
		return fmt.Errorf("%w: unknown trail status %q", ErrValidation, string(t.Status))
	}
	switch t.Difficulty {
	case Beginner, Intermediate, Advanced, Expert:
	default:
		return fmt.Errorf("%w: unknown trail difficulty %q", ErrValidation, string(t.Difficulty))
	}
	return nil
}
