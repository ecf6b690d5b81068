package weather

import (
	"encoding/json"

	"github.com/weatherdash/weatherdash/internal/common"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
)

// Snapshot is a provider-shaped weather payload. It is kept opaque: the
// weather service owns its structure and only a handful of display fields are
// ever read out of it (see Display).
type Snapshot []byte

func (s Snapshot) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return s, nil
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	*s = append((*s)[0:0], data...)
	return nil
}

// DisplayFields are the parts of a snapshot the dashboard actually renders.
type DisplayFields struct {
	Name         string
	TemperatureC float64
	Humidity     float64
	WindSpeed    float64
	Description  string
	Icon         string
}

// Display decodes the display fields out of the opaque snapshot. Missing
// fields are left at their zero values; the snapshot shape is the weather
// service's business.
func (s Snapshot) Display() DisplayFields {
	var payload struct {
		Name string `json:"name"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	}

	var d DisplayFields
	if err := json.Unmarshal(s, &payload); err != nil {
		return d
	}

	d.Name = payload.Name
	d.TemperatureC = payload.Main.Temp
	d.Humidity = payload.Main.Humidity
	d.WindSpeed = payload.Wind.Speed
	if len(payload.Weather) > 0 {
		d.Description = payload.Weather[0].Description
		d.Icon = payload.Weather[0].Icon
	}
	return d
}

// Condition classifies the free-text description into a normalized condition.
func (d DisplayFields) Condition() Condition {
	text := d.Description
	switch {
	case text == "":
		return ConditionUnknown
	case common.HasAnyFold(text, "thunder", "storm"):
		return ConditionStorm
	case common.HasAnyFold(text, "snow", "sleet", "blizzard"):
		return ConditionSnow
	case common.HasAnyFold(text, "rain", "shower", "drizzle"):
		return ConditionRain
	case common.HasAnyFold(text, "cloud", "overcast"):
		return ConditionCloudy
	case common.HasAnyFold(text, "sunny", "clear"):
		return ConditionClear
	default:
		return ConditionUnknown
	}
}

// ForecastDay is one day of a forecast or historical series. Order within a
// series is chronological and server-provided; it must be preserved as-is.
// Min and max temperatures are pointers because the weather service may omit
// either bound for a day.
type ForecastDay struct {
	Date    string   `json:"date"`
	MinTemp *float64 `json:"min_temp"`
	MaxTemp *float64 `json:"max_temp"`
	Summary string   `json:"summary,omitempty"`
	Icon    string   `json:"icon,omitempty"`
}
