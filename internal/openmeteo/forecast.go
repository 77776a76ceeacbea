package openmeteo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // resort zones must resolve on minimal container images

	"github.com/pkordes/ski-weather/internal/domain"
)

// hourlyFields is the hourly variable list requested from the forecast service.
var hourlyFields = []string{
	"temperature_2m",
	"apparent_temperature",
	"snowfall",
	"rain",
	"weather_code",
	"wind_speed_10m",
	"freezing_level_height",
}

// timeLayout is the local ISO-8601 form used when timezone=auto.
const timeLayout = "2006-01-02T15:04"

type forecastResponse struct {
	Timezone             string `json:"timezone"`
	TimezoneAbbreviation string `json:"timezone_abbreviation"`
	UTCOffsetSeconds     int    `json:"utc_offset_seconds"`
	HourlyUnits          struct {
		Temperature   string `json:"temperature_2m"`
		Snowfall      string `json:"snowfall"`
		Rain          string `json:"rain"`
		WindSpeed     string `json:"wind_speed_10m"`
		FreezingLevel string `json:"freezing_level_height"`
	} `json:"hourly_units"`
	Hourly struct {
		Time                []string   `json:"time"`
		Temperature         []*float64 `json:"temperature_2m"`
		ApparentTemperature []*float64 `json:"apparent_temperature"`
		Snowfall            []*float64 `json:"snowfall"`
		Rain                []*float64 `json:"rain"`
		WeatherCode         []*int     `json:"weather_code"`
		WindSpeed           []*float64 `json:"wind_speed_10m"`
		FreezingLevel       []*float64 `json:"freezing_level_height"`
	} `json:"hourly"`
}

// Hourly fetches the hourly forecast for at, in the resort's local time zone
// and in the client's unit system.
func (c *Client) Hourly(ctx context.Context, at domain.Coordinates) (domain.HourlySeries, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(at.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(at.Longitude, 'f', -1, 64))
	params.Set("hourly", strings.Join(hourlyFields, ","))
	params.Set("timezone", "auto")
	if c.units == domain.Imperial {
		params.Set("temperature_unit", "fahrenheit")
		params.Set("wind_speed_unit", "mph")
		params.Set("precipitation_unit", "inch")
	}

	var payload forecastResponse
	if err := c.getJSON(ctx, c.forecastBreaker, c.forecastURL+"/v1/forecast", params, &payload); err != nil {
		return domain.HourlySeries{}, fmt.Errorf("openmeteo.Client.Hourly: %w", err)
	}

	series, err := payload.toSeries()
	if err != nil {
		return domain.HourlySeries{}, fmt.Errorf("openmeteo.Client.Hourly: %w", err)
	}
	return series, nil
}

func (p forecastResponse) location() *time.Location {
	if p.Timezone != "" {
		if loc, err := time.LoadLocation(p.Timezone); err == nil {
			return loc
		}
	}
	return time.FixedZone(p.TimezoneAbbreviation, p.UTCOffsetSeconds)
}

func (p forecastResponse) toSeries() (domain.HourlySeries, error) {
	loc := p.location()

	times := make([]time.Time, len(p.Hourly.Time))
	for i, raw := range p.Hourly.Time {
		t, err := time.ParseInLocation(timeLayout, raw, loc)
		if err != nil {
			return domain.HourlySeries{}, fmt.Errorf("%w: hourly.time[%d]: %w", domain.ErrDataShape, i, err)
		}
		times[i] = t
	}

	return domain.HourlySeries{
		Times:               times,
		Temperature:         p.Hourly.Temperature,
		ApparentTemperature: p.Hourly.ApparentTemperature,
		Snowfall:            p.Hourly.Snowfall,
		Rain:                p.Hourly.Rain,
		WindSpeed:           p.Hourly.WindSpeed,
		WeatherCode:         p.Hourly.WeatherCode,
		FreezingLevel:       p.Hourly.FreezingLevel,
		Units: domain.Units{
			Temperature:   p.HourlyUnits.Temperature,
			Snowfall:      p.HourlyUnits.Snowfall,
			Rain:          p.HourlyUnits.Rain,
			WindSpeed:     p.HourlyUnits.WindSpeed,
			FreezingLevel: p.HourlyUnits.FreezingLevel,
		},
	}, nil
}
