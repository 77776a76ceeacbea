// Package forecast turns a raw hourly series into the single "tonight"
// forecast shown to skiers: it picks the representative hour, classifies the
// WMO weather code and assembles the normalized record.
// Everything here is pure; no I/O and no clock reads.
package forecast

// Icon tags understood by the frontend icon set.
const (
	IconSun            = "sun"
	IconCloudSun       = "cloud-sun"
	IconCloud          = "cloud"
	IconCloudRain      = "cloud-rain"
	IconSnowflake      = "snowflake"
	IconCloudSnow      = "cloud-snow"
	IconCloudLightning = "cloud-lightning"
)

// Condition is the human description and icon for a weather code.
type Condition struct {
	Description string
	Icon        string
}

// Unknown is returned for codes outside the table.
var Unknown = Condition{Description: "Variable", Icon: IconCloud}

// conditions maps WMO 4677 present-weather codes as reported by Open-Meteo.
// Codes the forecast model emits but that are not listed here
// (freezing drizzle 56/57, freezing rain 66/67) fall back to Unknown.
var conditions = map[int]Condition{
	0:  {"Clear sky", IconSun},
	1:  {"Mainly clear", IconSun},
	2:  {"Partly cloudy", IconCloudSun},
	3:  {"Overcast", IconCloud},
	45: {"Fog", IconCloud},
	48: {"Depositing rime fog", IconCloud},
	51: {"Light drizzle", IconCloudRain},
	53: {"Moderate drizzle", IconCloudRain},
	55: {"Dense drizzle", IconCloudRain},
	61: {"Slight rain", IconCloudRain},
	63: {"Moderate rain", IconCloudRain},
	65: {"Heavy rain", IconCloudRain},
	71: {"Slight snow fall", IconSnowflake},
	73: {"Moderate snow fall", IconSnowflake},
	75: {"Heavy snow fall", IconCloudSnow},
	77: {"Snow grains", IconSnowflake},
	80: {"Slight rain showers", IconCloudRain},
	81: {"Moderate rain showers", IconCloudRain},
	82: {"Violent rain showers", IconCloudRain},
	85: {"Slight snow showers", IconCloudSnow},
	86: {"Heavy snow showers", IconCloudSnow},
	95: {"Thunderstorm", IconCloudLightning},
	96: {"Thunderstorm with slight hail", IconCloudLightning},
	99: {"Thunderstorm with heavy hail", IconCloudLightning},
}

// Classify returns the description and icon for a WMO weather code.
// Unmapped codes return Unknown; this is never an error.
func Classify(code int) Condition {
	if c, ok := conditions[code]; ok {
		return c
	}
	return Unknown
}
