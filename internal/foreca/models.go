package foreca

import (
	"time"

	"github.com/adisdwi/cuaca-api/internal/common"
)

// LocationID is the opaque identifier Foreca assigns to a resolved
// location. The current-conditions and forecast endpoints key on it.
type LocationID int64

// CurrentWeather holds the observed conditions for a location.
type CurrentWeather struct {
	Temperature  float64 `json:"temperature"`  // °C
	WindSpeed    float64 `json:"windSpeed"`    // km/h
	RelHumidity  int     `json:"relHumidity"`  // %
	SymbolPhrase string  `json:"symbolPhrase"` // free-text condition description
}

// DailyEntry is one day of the daily forecast. Entries arrive in
// chronological, provider-defined order and are not re-sorted.
type DailyEntry struct {
	Date         string  `json:"date"` // ISO date
	MaxTemp      float64 `json:"maxTemp"`
	MinTemp      float64 `json:"minTemp"`
	SymbolPhrase string  `json:"symbolPhrase"`
}

// HourlyEntry is one hour of the hourly forecast.
type HourlyEntry struct {
	Time         string  `json:"time"` // ISO datetime with UTC offset
	Temperature  float64 `json:"temperature"`
	SymbolPhrase string  `json:"symbolPhrase"`
}

// hourlyTimeLayouts covers the timestamp shapes Foreca emits: offsets
// without seconds alongside full RFC3339.
var hourlyTimeLayouts = []string{
	"2006-01-02T15:04-07:00",
	time.RFC3339,
}

// HourOfDay reports the local hour encoded in the entry's timestamp.
func (h HourlyEntry) HourOfDay() (int, bool) {
	for _, layout := range hourlyTimeLayouts {
		if ts, err := time.Parse(layout, h.Time); err == nil {
			return ts.Hour(), true
		}
	}
	return 0, false
}

// Condition is a normalized high-level weather condition derived from
// the provider's symbol phrase, used by the UI to pick icons.
type Condition string

const (
	ConditionClear  Condition = "clear"
	ConditionCloudy Condition = "cloudy"
	ConditionRain   Condition = "rain"
	ConditionStorm  Condition = "storm"
	ConditionPartly Condition = "partly-cloudy"
)

// ConditionFromPhrase maps a symbol phrase to a Condition. Phrases come
// back localized (Indonesian or English) depending on the lang parameter.
func ConditionFromPhrase(phrase string) Condition {
	switch {
	case common.HasAnyFold(phrase, "badai", "thunder", "storm"):
		return ConditionStorm
	case common.HasAnyFold(phrase, "hujan", "rain", "shower", "drizzle"):
		return ConditionRain
	case common.HasAnyFold(phrase, "berawan", "cloudy", "overcast"):
		return ConditionCloudy
	case common.HasAnyFold(phrase, "cerah", "sunny", "clear"):
		return ConditionClear
	default:
		return ConditionPartly
	}
}
