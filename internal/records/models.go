package records

import "github.com/weatherdash/weatherdash/internal/weather"

// Kind identifies one of the three persisted record kinds.
type Kind string

const (
	KindLocation Kind = "location"
	KindWeather  Kind = "weather"
	KindRange    Kind = "range"
)

// Valid reports whether k names a known record kind.
func (k Kind) Valid() bool {
	switch k {
	case KindLocation, KindWeather, KindRange:
		return true
	}
	return false
}

// LocationRecord is a persisted resolved location.
type LocationRecord struct {
	ID          int64   `json:"id"`
	Query       string  `json:"query"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"display_name"`
	Source      string  `json:"source"`
	CreatedAt   string  `json:"created_at"`
}

// WeatherRecord is a persisted weather snapshot with provenance.
type WeatherRecord struct {
	ID         int64            `json:"id"`
	LocationID *int64           `json:"location_id"`
	Lat        float64          `json:"lat"`
	Lng        float64          `json:"lng"`
	Snapshot   weather.Snapshot `json:"snapshot"`
	Kind       string           `json:"kind"`
	CreatedAt  string           `json:"created_at"`
}

// RangeRecord is a persisted historical window with its computed summary.
type RangeRecord struct {
	ID        int64               `json:"id"`
	Query     string              `json:"query"`
	Lat       float64             `json:"lat"`
	Lng       float64             `json:"lng"`
	StartDate string              `json:"start_date"`
	EndDate   string              `json:"end_date"`
	Summary   *weather.RangeStats `json:"summary"`
	CreatedAt string              `json:"created_at"`
}

// SavedRecordSet is the authoritative persisted view. It is always refetched
// whole from the records service after a mutation, never merged locally.
type SavedRecordSet struct {
	Locations []LocationRecord `json:"locations"`
	Weather   []WeatherRecord  `json:"weather"`
	Ranges    []RangeRecord    `json:"ranges"`
}

// NewLocation is the payload for creating a location record.
type NewLocation struct {
	Query       string  `json:"query"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"display_name"`
	Source      string  `json:"source"`
}

// NewWeather is the payload for creating a weather record.
type NewWeather struct {
	LocationID *int64           `json:"location_id"`
	Lat        float64          `json:"lat"`
	Lng        float64          `json:"lng"`
	Snapshot   weather.Snapshot `json:"snapshot"`
	Kind       string           `json:"kind"`
}

// NewRange is the payload for creating a range record.
type NewRange struct {
	Query     string             `json:"query"`
	Lat       float64            `json:"lat"`
	Lng       float64            `json:"lng"`
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Summary   weather.RangeStats `json:"summary"`
}
