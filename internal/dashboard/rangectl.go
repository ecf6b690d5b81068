package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/weatherdash/weatherdash/internal/location"
	"github.com/weatherdash/weatherdash/internal/records"
	"github.com/weatherdash/weatherdash/internal/weather"
)

// DefaultMaxRangeDays is the largest inclusive day span a historical range
// request may cover. The weather service enforces the same limit; checking
// here fails fast without a round trip.
const DefaultMaxRangeDays = 7

const rangeDateLayout = "2006-01-02"

// RangeController fetches historical date ranges and persists their
// summaries. Validation runs in a fixed order and the first failing check
// short-circuits the rest; nothing goes on the wire for invalid input.
type RangeController struct {
	weather *weather.Client
	records *records.Client
	maxDays int
	status  *statusLine

	mu   sync.Mutex
	view RangeView
}

// NewRangeController creates a range orchestrator. status receives the
// transient save confirmations.
func NewRangeController(wx *weather.Client, store *records.Client, maxDays int, status *statusLine) *RangeController {
	if maxDays <= 0 {
		maxDays = DefaultMaxRangeDays
	}
	return &RangeController{
		weather: wx,
		records: store,
		maxDays: maxDays,
		status:  status,
	}
}

// View returns the current range state.
func (r *RangeController) View() RangeView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view
}

// FetchRange validates the window and loads the daily series for it. The
// previous series and error are cleared before validation so a failed attempt
// never shows results from an earlier one.
func (r *RangeController) FetchRange(ctx context.Context, loc *location.ResolvedLocation, startDate, endDate string) RangeView {
	r.setView(RangeView{StartDate: startDate, EndDate: endDate})

	if loc == nil {
		return r.fail("Search a location first")
	}
	if startDate == "" || endDate == "" {
		return r.fail("Please select a start and end date")
	}

	start, startErr := time.Parse(rangeDateLayout, startDate)
	end, endErr := time.Parse(rangeDateLayout, endDate)
	if startErr != nil || endErr != nil {
		return r.fail("Invalid dates")
	}
	if start.After(end) {
		return r.fail("Start date must be on or before end date")
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if days > r.maxDays {
		return r.fail("Date range too large (max 7 days)")
	}

	r.setView(RangeView{Phase: PhaseLoading, StartDate: startDate, EndDate: endDate})

	series, err := r.weather.Historical(ctx, loc.Lat, loc.Lng, startDate, endDate)
	if err != nil {
		log.Warn().Err(err).Str("start", startDate).Str("end", endDate).Msg("range fetch failed")
		return r.fail(upstreamMessage(err, "Failed to fetch range"))
	}
	if series == nil {
		series = []weather.ForecastDay{}
	}

	view := RangeView{
		Phase:     PhaseReady,
		StartDate: startDate,
		EndDate:   endDate,
		Series:    series,
	}
	r.setView(view)
	return view
}

// SaveRange summarizes the fetched series and persists it as a range record.
// Without a location, a fetched series and both dates it is a no-op. The
// outcome is reported on the transient status line.
func (r *RangeController) SaveRange(ctx context.Context, loc *location.ResolvedLocation) {
	view := r.View()
	if loc == nil || len(view.Series) == 0 || view.StartDate == "" || view.EndDate == "" {
		return
	}

	stats := weather.Summarize(view.Series)

	_, err := r.records.SaveRange(ctx, records.NewRange{
		Query:     loc.Label(),
		Lat:       loc.Lat,
		Lng:       loc.Lng,
		StartDate: view.StartDate,
		EndDate:   view.EndDate,
		Summary:   stats,
	})
	if err != nil {
		log.Warn().Err(err).Msg("range save failed")
		r.status.set(upstreamMessage(err, "Failed to save range"))
		return
	}
	r.status.set("Range saved!")
}

func (r *RangeController) fail(msg string) RangeView {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.Phase = PhaseFailed
	r.view.Error = msg
	r.view.Series = nil
	return r.view
}

func (r *RangeController) setView(view RangeView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view = view
}
