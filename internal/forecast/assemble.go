package forecast

import (
	"fmt"

	"github.com/pkordes/ski-weather/internal/domain"
)

// Source labels records built from Open-Meteo data.
const Source = "Open-Meteo"

type fieldLen struct {
	field string
	n     int
}

// Assembler builds a ForecastRecord from one hour of a series.
type Assembler struct {
	units  domain.UnitSystem
	want   domain.Units
	source string
}

// NewAssembler returns an Assembler that only accepts series reported in the
// given unit system. Returns domain.ErrValidation for an unknown system.
func NewAssembler(units domain.UnitSystem) (Assembler, error) {
	want, err := units.ExpectedUnits()
	if err != nil {
		return Assembler{}, err
	}
	return Assembler{units: units, want: want, source: Source}, nil
}

// Units returns the unit system the assembler enforces.
func (a Assembler) Units() domain.UnitSystem {
	return a.units
}

// Assemble returns the forecast record for series at idx.
// Every present field is length-checked before any indexing, so a ragged
// series fails with domain.ErrDataShape instead of returning partial data.
func (a Assembler) Assemble(series domain.HourlySeries, idx int) (domain.ForecastRecord, error) {
	if err := a.checkUnits(series.Units); err != nil {
		return domain.ForecastRecord{}, err
	}

	lengths := []fieldLen{
		{"time", len(series.Times)},
		{"temperature_2m", len(series.Temperature)},
		{"snowfall", len(series.Snowfall)},
		{"rain", len(series.Rain)},
		{"wind_speed_10m", len(series.WindSpeed)},
		{"weather_code", len(series.WeatherCode)},
	}
	if series.ApparentTemperature != nil {
		lengths = append(lengths, fieldLen{"apparent_temperature", len(series.ApparentTemperature)})
	}
	if series.FreezingLevel != nil {
		lengths = append(lengths, fieldLen{"freezing_level_height", len(series.FreezingLevel)})
	}
	for _, l := range lengths {
		if idx < 0 || idx >= l.n {
			return domain.ForecastRecord{}, fmt.Errorf("%w: index %d out of range for %s (len %d)",
				domain.ErrDataShape, idx, l.field, l.n)
		}
	}

	code := series.WeatherCode[idx]
	if code == nil {
		return domain.ForecastRecord{}, fmt.Errorf("%w: weather_code is null at index %d", domain.ErrDataShape, idx)
	}

	rec := domain.ForecastRecord{
		Time:        series.Times[idx],
		WeatherCode: *code,
		IsNight:     IsNight(series.Times[idx]),
		Units:       a.want,
		Source:      a.source,
	}

	required := []struct {
		field string
		val   *float64
		dst   *float64
	}{
		{"temperature_2m", series.Temperature[idx], &rec.Temperature},
		{"snowfall", series.Snowfall[idx], &rec.Snowfall},
		{"rain", series.Rain[idx], &rec.Rain},
		{"wind_speed_10m", series.WindSpeed[idx], &rec.WindSpeed},
	}
	for _, r := range required {
		if r.val == nil {
			return domain.ForecastRecord{}, fmt.Errorf("%w: %s is null at index %d", domain.ErrDataShape, r.field, idx)
		}
		*r.dst = *r.val
	}

	if series.ApparentTemperature != nil {
		rec.ApparentTemperature = series.ApparentTemperature[idx]
	}
	if series.FreezingLevel != nil && series.FreezingLevel[idx] != nil {
		rec.FreezingLevel = series.FreezingLevel[idx]
		rec.Units.FreezingLevel = series.Units.FreezingLevel
	}

	cond := Classify(rec.WeatherCode)
	rec.Description = cond.Description
	rec.Icon = cond.Icon

	return rec, nil
}

// checkUnits rejects a series whose unit labels differ from the requested system.
func (a Assembler) checkUnits(got domain.Units) error {
	pairs := []struct{ field, got, want string }{
		{"temperature_2m", got.Temperature, a.want.Temperature},
		{"snowfall", got.Snowfall, a.want.Snowfall},
		{"rain", got.Rain, a.want.Rain},
		{"wind_speed_10m", got.WindSpeed, a.want.WindSpeed},
	}
	for _, p := range pairs {
		if p.got != p.want {
			return fmt.Errorf("%w: %s reported in %q, requested %s units (%q)",
				domain.ErrDataShape, p.field, p.got, a.units, p.want)
		}
	}
	return nil
}
