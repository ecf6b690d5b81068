package weather

import "testing"

func f(v float64) *float64 { return &v }

func TestSummarizeMidpointAverage(t *testing.T) {
	// Only the first day carries both bounds, so the average is that day's
	// midpoint, while min and max still come from every day that has the
	// respective field.
	series := []ForecastDay{
		{Date: "2024-01-01", MinTemp: f(10), MaxTemp: f(20)},
		{Date: "2024-01-02", MinTemp: nil, MaxTemp: f(25)},
		{Date: "2024-01-03", MinTemp: f(5), MaxTemp: nil},
	}

	stats := Summarize(series)

	if stats.Count != 3 {
		t.Errorf("count = %d, want 3", stats.Count)
	}
	if stats.MinTemp == nil || *stats.MinTemp != 5 {
		t.Errorf("min = %v, want 5", stats.MinTemp)
	}
	if stats.MaxTemp == nil || *stats.MaxTemp != 25 {
		t.Errorf("max = %v, want 25", stats.MaxTemp)
	}
	if stats.AvgTemp == nil || *stats.AvgTemp != 15 {
		t.Errorf("avg = %v, want 15", stats.AvgTemp)
	}
}

func TestSummarizeIndependentNulls(t *testing.T) {
	series := []ForecastDay{
		{Date: "2024-01-01", MaxTemp: f(12)},
		{Date: "2024-01-02"},
	}

	stats := Summarize(series)

	if stats.Count != 2 {
		t.Errorf("count = %d, want 2", stats.Count)
	}
	if stats.MinTemp != nil {
		t.Errorf("min = %v, want nil", *stats.MinTemp)
	}
	if stats.MaxTemp == nil || *stats.MaxTemp != 12 {
		t.Errorf("max = %v, want 12", stats.MaxTemp)
	}
	if stats.AvgTemp != nil {
		t.Errorf("avg = %v, want nil: no day has both bounds", *stats.AvgTemp)
	}
}

func TestSummarizeEmptySeries(t *testing.T) {
	stats := Summarize(nil)

	if stats.Count != 0 {
		t.Errorf("count = %d, want 0", stats.Count)
	}
	if stats.MinTemp != nil || stats.MaxTemp != nil || stats.AvgTemp != nil {
		t.Errorf("expected all aggregates nil for empty series, got %+v", stats)
	}
}
