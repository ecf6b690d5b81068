package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/weatherdash/weatherdash/internal/location"
	"github.com/weatherdash/weatherdash/internal/weather"
)

// Searcher turns a free-form query into a resolved location, current
// conditions and a multi-day forecast, with the sequencing and error
// semantics the dashboard depends on:
//
//   - previous results are cleared synchronously before the first request
//     goes out, so a loading indicator never sits next to stale results;
//   - the weather service is only called after the resolver succeeds;
//   - the view is repopulated only on full success, so a failed search always
//     leaves an empty, errored view rather than a half-updated one;
//   - overlapping searches are serialized by generation: only the most recent
//     call commits its outcome, earlier in-flight calls are discarded.
type Searcher struct {
	locations    *location.Client
	weather      *weather.Client
	forecastDays int

	mu   sync.Mutex
	gen  uint64
	view SearchView
}

// NewSearcher creates a search orchestrator over the two upstream clients.
func NewSearcher(locations *location.Client, wx *weather.Client, forecastDays int) *Searcher {
	if forecastDays <= 0 {
		forecastDays = weather.DefaultForecastDays
	}
	return &Searcher{
		locations:    locations,
		weather:      wx,
		forecastDays: forecastDays,
	}
}

// View returns the current search state.
func (s *Searcher) View() SearchView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Search runs a full search for the query and returns the resulting view.
// An empty or whitespace-only query is a no-op and leaves the state as it is.
func (s *Searcher) Search(ctx context.Context, query string) SearchView {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.View()
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.view = SearchView{Phase: PhaseLoading, Query: query}
	s.mu.Unlock()

	// Loading is exited on every path, including ones that never reach an
	// explicit commit or fail below.
	defer s.settle(gen)

	loc, err := s.locations.Resolve(ctx, query)
	if err != nil {
		return s.fail(gen, query, err)
	}
	if loc == (location.ResolvedLocation{}) {
		return s.fail(gen, query, errors.New("Location not found"))
	}

	var (
		wg          sync.WaitGroup
		current     weather.Snapshot
		forecast    []weather.ForecastDay
		currentErr  error
		forecastErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		current, currentErr = s.weather.Current(ctx, loc.Lat, loc.Lng)
	}()
	go func() {
		defer wg.Done()
		forecast, forecastErr = s.weather.Forecast(ctx, loc.Lat, loc.Lng, s.forecastDays)
	}()
	wg.Wait()

	if currentErr != nil {
		return s.fail(gen, query, currentErr)
	}
	if forecastErr != nil {
		return s.fail(gen, query, forecastErr)
	}
	if forecast == nil {
		forecast = []weather.ForecastDay{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return s.view
	}
	s.view = SearchView{
		Phase:    PhaseReady,
		Query:    query,
		Location: &loc,
		Current:  current,
		Forecast: forecast,
	}
	return s.view
}

func (s *Searcher) fail(gen uint64, query string, err error) SearchView {
	log.Warn().Err(err).Str("query", query).Msg("search failed")

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return s.view
	}
	s.view = SearchView{
		Phase: PhaseFailed,
		Query: query,
		Error: searchErrorMessage(err),
	}
	return s.view
}

// settle makes sure the current generation never stays in the loading phase.
func (s *Searcher) settle(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen && s.view.Phase == PhaseLoading {
		s.view.Phase = PhaseFailed
		if s.view.Error == "" {
			s.view.Error = "Something went wrong"
		}
	}
}
