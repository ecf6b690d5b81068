package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/weatherdash/weatherdash/internal/location"
	"github.com/weatherdash/weatherdash/internal/records"
	"github.com/weatherdash/weatherdash/internal/weather"
)

// Config tunes the orchestration behaviour. Zero values fall back to the
// defaults the dashboard shipped with.
type Config struct {
	ForecastDays int
	MaxRangeDays int
	StatusTTL    time.Duration
}

// Session is one user's dashboard: the live search state, the historical
// range state and the persisted record set, orchestrated over the three
// upstream services.
type Session struct {
	search  *Searcher
	ranges  *RangeController
	records *RecordsController
	store   *records.Client
	status  *statusLine
}

// NewSession wires a session over the three upstream clients.
func NewSession(loc *location.Client, wx *weather.Client, store *records.Client, cfg Config) *Session {
	status := newStatusLine(cfg.StatusTTL)
	return &Session{
		search:  NewSearcher(loc, wx, cfg.ForecastDays),
		ranges:  NewRangeController(wx, store, cfg.MaxRangeDays, status),
		records: NewRecordsController(store),
		store:   store,
		status:  status,
	}
}

// Search runs a live search and returns the committed view.
func (s *Session) Search(ctx context.Context, query string) SearchView {
	return s.search.Search(ctx, query)
}

// SearchSaved re-runs a search seeded from a persisted location record, using
// its stored query or the bare coordinates when no query was kept.
func (s *Session) SearchSaved(ctx context.Context, rec records.LocationRecord) SearchView {
	query := rec.Query
	if query == "" {
		query = fmt.Sprintf("%v,%v", rec.Lat, rec.Lng)
	}
	return s.search.Search(ctx, query)
}

// SearchView returns the current live-search state.
func (s *Session) SearchView() SearchView {
	return s.search.View()
}

// CurrentDisplay renders the committed current-conditions snapshot in the
// given display unit. The second return is false until a search has committed
// a snapshot. Anything other than Fahrenheit displays as Celsius.
func (s *Session) CurrentDisplay(unit weather.Unit) (CurrentDisplay, bool) {
	view := s.search.View()
	if len(view.Current) == 0 {
		return CurrentDisplay{}, false
	}
	if unit != weather.UnitFahrenheit {
		unit = weather.UnitCelsius
	}

	d := view.Current.Display()
	return CurrentDisplay{
		Name:        d.Name,
		Temperature: weather.ConvertForDisplay(d.TemperatureC, unit),
		Unit:        unit,
		Humidity:    d.Humidity,
		WindSpeed:   d.WindSpeed,
		Description: d.Description,
		Icon:        d.Icon,
		Condition:   d.Condition(),
	}, true
}

// FetchRange loads the historical series for the window against the current
// search location.
func (s *Session) FetchRange(ctx context.Context, startDate, endDate string) RangeView {
	return s.ranges.FetchRange(ctx, s.search.View().Location, startDate, endDate)
}

// RangeView returns the current historical-range state.
func (s *Session) RangeView() RangeView {
	return s.ranges.View()
}

// SaveRange summarizes and persists the fetched range for the current search
// location.
func (s *Session) SaveRange(ctx context.Context) {
	s.ranges.SaveRange(ctx, s.search.View().Location)
}

// SaveCurrentLocation persists the current search's resolved location.
// Without a resolved location it is a no-op.
func (s *Session) SaveCurrentLocation(ctx context.Context) {
	view := s.search.View()
	loc := view.Location
	if loc == nil {
		return
	}

	query := loc.Query
	if query == "" {
		query = fmt.Sprintf("%v,%v", loc.Lat, loc.Lng)
	}
	source := loc.Source
	if source == "" {
		source = "manual"
	}

	_, err := s.store.SaveLocation(ctx, records.NewLocation{
		Query:       query,
		Lat:         loc.Lat,
		Lng:         loc.Lng,
		DisplayName: loc.DisplayName,
		Source:      source,
	})
	if err != nil {
		log.Warn().Err(err).Msg("location save failed")
		s.status.set(upstreamMessage(err, "Failed to save location"))
		return
	}
	s.status.set("Location saved!")
	s.records.Load(ctx)
}

// SaveCurrentWeather persists the current conditions snapshot. Without both a
// resolved location and a snapshot it is a no-op.
func (s *Session) SaveCurrentWeather(ctx context.Context) {
	view := s.search.View()
	if view.Location == nil || len(view.Current) == 0 {
		return
	}

	_, err := s.store.SaveWeather(ctx, records.NewWeather{
		Lat:      view.Location.Lat,
		Lng:      view.Location.Lng,
		Snapshot: view.Current,
		Kind:     "current",
	})
	if err != nil {
		log.Warn().Err(err).Msg("weather save failed")
		s.status.set(upstreamMessage(err, "Failed to save weather"))
		return
	}
	s.status.set("Weather saved!")
	s.records.Load(ctx)
}

// Records exposes the records orchestrator.
func (s *Session) Records() *RecordsController {
	return s.records
}

// Export requests the saved-record set rendered in the given format.
func (s *Session) Export(ctx context.Context, format string) (records.Export, error) {
	f := records.Format(format)
	if !f.Valid() {
		return records.Export{}, &ValidationError{Msg: fmt.Sprintf("unsupported export format %q", format)}
	}
	return s.store.Export(ctx, f)
}

// StatusMessage returns the transient save confirmation, if one is visible.
func (s *Session) StatusMessage() string {
	return s.status.Message()
}
