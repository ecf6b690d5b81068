package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/weatherdash/weatherdash/internal/httpx"
	"github.com/weatherdash/weatherdash/internal/location"
	"github.com/weatherdash/weatherdash/internal/records"
	"github.com/weatherdash/weatherdash/internal/weather"
)

var testLocation = &location.ResolvedLocation{
	Query:       "paris",
	Lat:         48.85,
	Lng:         2.35,
	DisplayName: "Paris, France",
}

func newRangeController(wx, store *httptest.Server, ttl time.Duration) *RangeController {
	cfg := httpx.Config{Client: &http.Client{}}
	var storeURL string
	if store != nil {
		storeURL = store.URL
	}
	return NewRangeController(
		weather.NewClient(wx.URL, cfg),
		records.NewClient(storeURL, cfg),
		0,
		newStatusLine(ttl),
	)
}

func TestFetchRangeValidationOrderAndMessages(t *testing.T) {
	var hits int32
	wx := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeJSON(w, `{"series": []}`)
	}))
	defer wx.Close()

	ctl := newRangeController(wx, nil, DefaultStatusTTL)
	ctx := context.Background()

	cases := []struct {
		name       string
		loc        *location.ResolvedLocation
		start, end string
		want       string
	}{
		{"no location", nil, "2024-01-01", "2024-01-02", "Search a location first"},
		{"missing dates", testLocation, "", "2024-01-02", "Please select a start and end date"},
		{"unparseable", testLocation, "01/01/2024", "2024-01-02", "Invalid dates"},
		{"inverted", testLocation, "2024-01-05", "2024-01-02", "Start date must be on or before end date"},
		{"too large", testLocation, "2024-01-01", "2024-01-08", "Date range too large (max 7 days)"},
	}
	for _, tc := range cases {
		view := ctl.FetchRange(ctx, tc.loc, tc.start, tc.end)
		if view.Phase != PhaseFailed {
			t.Errorf("%s: phase = %v, want failed", tc.name, view.Phase)
		}
		if view.Error != tc.want {
			t.Errorf("%s: error = %q, want %q", tc.name, view.Error, tc.want)
		}
	}

	if got := atomic.LoadInt32(&hits); got != 0 {
		t.Errorf("weather service hit %d times for invalid input, want 0", got)
	}
}

func TestFetchRangeSevenDayWindowAccepted(t *testing.T) {
	wx := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"series": [{"date": "2024-01-01", "min_temp": 1, "max_temp": 5}]}`)
	}))
	defer wx.Close()

	ctl := newRangeController(wx, nil, DefaultStatusTTL)

	// An inclusive seven-day window is the largest one allowed.
	view := ctl.FetchRange(context.Background(), testLocation, "2024-01-01", "2024-01-07")
	if view.Phase != PhaseReady {
		t.Fatalf("phase = %v, want ready (error: %q)", view.Phase, view.Error)
	}
	if len(view.Series) != 1 {
		t.Fatalf("series length = %d, want 1", len(view.Series))
	}
}

func TestFetchRangeClearsPreviousSeriesOnFailure(t *testing.T) {
	var fail atomic.Bool
	wx := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail": "No data for range"}`))
			return
		}
		writeJSON(w, `{"series": [{"date": "2024-01-01", "min_temp": 1, "max_temp": 5}]}`)
	}))
	defer wx.Close()

	ctl := newRangeController(wx, nil, DefaultStatusTTL)
	ctx := context.Background()

	if view := ctl.FetchRange(ctx, testLocation, "2024-01-01", "2024-01-02"); view.Phase != PhaseReady {
		t.Fatalf("seed fetch failed: %+v", view)
	}

	fail.Store(true)
	view := ctl.FetchRange(ctx, testLocation, "2024-01-01", "2024-01-02")
	if view.Phase != PhaseFailed {
		t.Fatalf("phase = %v, want failed", view.Phase)
	}
	if view.Error != "No data for range" {
		t.Errorf("error = %q, want the upstream detail verbatim", view.Error)
	}
	if len(view.Series) != 0 {
		t.Errorf("stale series still visible after failure: %+v", view.Series)
	}
}

func TestSaveRangePostsSummaryAndSetsTransientStatus(t *testing.T) {
	wx := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"series": [
			{"date": "2024-01-01", "min_temp": 10, "max_temp": 20},
			{"date": "2024-01-02", "min_temp": null, "max_temp": 25},
			{"date": "2024-01-03", "min_temp": 5, "max_temp": null}]}`)
	}))
	defer wx.Close()

	var posted records.NewRange
	store := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/range" {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&posted); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		writeJSON(w, `{"id": 11}`)
	}))
	defer store.Close()

	ttl := 40 * time.Millisecond
	ctl := newRangeController(wx, store, ttl)
	ctx := context.Background()

	if view := ctl.FetchRange(ctx, testLocation, "2024-01-01", "2024-01-03"); view.Phase != PhaseReady {
		t.Fatalf("fetch failed: %+v", view)
	}
	ctl.SaveRange(ctx, testLocation)

	if posted.Query != "Paris, France" {
		t.Errorf("query = %q, want the display name", posted.Query)
	}
	if posted.StartDate != "2024-01-01" || posted.EndDate != "2024-01-03" {
		t.Errorf("dates = %q..%q", posted.StartDate, posted.EndDate)
	}
	if posted.Summary.Count != 3 {
		t.Errorf("count = %d, want 3", posted.Summary.Count)
	}
	if posted.Summary.MinTemp == nil || *posted.Summary.MinTemp != 5 {
		t.Errorf("min = %v, want 5", posted.Summary.MinTemp)
	}
	if posted.Summary.MaxTemp == nil || *posted.Summary.MaxTemp != 25 {
		t.Errorf("max = %v, want 25", posted.Summary.MaxTemp)
	}
	if posted.Summary.AvgTemp == nil || *posted.Summary.AvgTemp != 15 {
		t.Errorf("avg = %v, want 15", posted.Summary.AvgTemp)
	}

	if got := ctl.status.Message(); got != "Range saved!" {
		t.Errorf("status = %q, want the save confirmation", got)
	}
	time.Sleep(3 * ttl)
	if got := ctl.status.Message(); got != "" {
		t.Errorf("status = %q, want it cleared after the TTL", got)
	}
}

func TestSaveRangeWithoutFetchedSeriesIsNoOp(t *testing.T) {
	wx := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"series": []}`)
	}))
	defer wx.Close()

	var storeHits int32
	store := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&storeHits, 1)
		writeJSON(w, `{}`)
	}))
	defer store.Close()

	ctl := newRangeController(wx, store, DefaultStatusTTL)

	ctl.SaveRange(context.Background(), testLocation)
	if got := atomic.LoadInt32(&storeHits); got != 0 {
		t.Errorf("store hit %d times without a fetched series, want 0", got)
	}
}
