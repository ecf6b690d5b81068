package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/weatherdash/weatherdash/internal/httpx"
)

func TestCurrentReturnsOpaqueSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/current" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("lat") != "48.85" {
			t.Errorf("lat = %s, want 48.85", r.URL.Query().Get("lat"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"snapshot": {"name": "Paris", "main": {"temp": 14.2, "humidity": 70}, "weather": [{"description": "light rain", "icon": "10d"}]}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, httpx.Config{Client: srv.Client()})

	snap, err := client.Current(context.Background(), 48.85, 2.35)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := snap.Display()
	if d.Name != "Paris" {
		t.Errorf("name = %q, want Paris", d.Name)
	}
	if d.TemperatureC != 14.2 {
		t.Errorf("temperature = %v, want 14.2", d.TemperatureC)
	}
	if d.Condition() != ConditionRain {
		t.Errorf("condition = %q, want rain", d.Condition())
	}
}

func TestForecastDefaultsToFiveDays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("days"); got != "5" {
			t.Errorf("days = %s, want 5", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"aggregated": [{"date": "2024-03-01", "min_temp": 3, "max_temp": 9}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, httpx.Config{Client: srv.Client()})

	forecast, err := client.Forecast(context.Background(), 1, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forecast) != 1 || forecast[0].Date != "2024-03-01" {
		t.Fatalf("unexpected forecast: %+v", forecast)
	}
}

func TestHistoricalPreservesSeriesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/historical" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"range": {"start": "2024-03-01", "end": "2024-03-03"},
			"series": [{"date": "2024-03-01"}, {"date": "2024-03-02"}, {"date": "2024-03-03"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, httpx.Config{Client: srv.Client()})

	series, err := client.Historical(context.Background(), 1, 2, "2024-03-01", "2024-03-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"2024-03-01", "2024-03-02", "2024-03-03"}
	if len(series) != len(want) {
		t.Fatalf("series length = %d, want %d", len(series), len(want))
	}
	for i, date := range want {
		if series[i].Date != date {
			t.Errorf("series[%d].Date = %s, want %s", i, series[i].Date, date)
		}
	}
}
