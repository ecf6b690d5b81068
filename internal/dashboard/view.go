package dashboard

import (
	"encoding/json"

	"github.com/weatherdash/weatherdash/internal/location"
	"github.com/weatherdash/weatherdash/internal/records"
	"github.com/weatherdash/weatherdash/internal/weather"
)

// Phase is the lifecycle of an orchestrated operation. Every operation is in
// exactly one phase; there are no ad hoc loading or error flags on the side.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// SearchView is the transient live-search state: the resolved location,
// current conditions and forecast for the most recent committed search. It is
// replaced wholesale on every search, never patched.
type SearchView struct {
	Phase    Phase                      `json:"phase"`
	Query    string                     `json:"query,omitempty"`
	Location *location.ResolvedLocation `json:"location,omitempty"`
	Current  weather.Snapshot           `json:"current,omitempty"`
	Forecast []weather.ForecastDay      `json:"forecast,omitempty"`
	Error    string                     `json:"error,omitempty"`
}

// CurrentDisplay is the rendered projection of the current conditions: the
// handful of snapshot fields the dashboard shows, with the temperature
// converted to the requested display unit.
type CurrentDisplay struct {
	Name        string            `json:"name"`
	Temperature float64           `json:"temperature"`
	Unit        weather.Unit      `json:"unit"`
	Humidity    float64           `json:"humidity"`
	WindSpeed   float64           `json:"wind_speed"`
	Description string            `json:"description"`
	Icon        string            `json:"icon,omitempty"`
	Condition   weather.Condition `json:"condition"`
}

// RangeView is the transient historical-range state.
type RangeView struct {
	Phase     Phase                 `json:"phase"`
	StartDate string                `json:"start_date,omitempty"`
	EndDate   string                `json:"end_date,omitempty"`
	Series    []weather.ForecastDay `json:"series,omitempty"`
	Error     string                `json:"error,omitempty"`
}

// RecordsView is the read-through projection of the persisted record set. It
// is refetched whole from the records service after every mutation.
type RecordsView struct {
	Phase Phase                  `json:"phase"`
	Set   records.SavedRecordSet `json:"records"`
}
