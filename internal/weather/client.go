package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/weatherdash/weatherdash/internal/httpx"
)

// DefaultForecastDays is the forecast window requested when the caller does
// not ask for a specific number of days.
const DefaultForecastDays = 5

// Client wraps the weather service HTTP API.
type Client struct {
	baseURL string
	cfg     httpx.Config
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a weather service client for the given base URL
// (e.g. http://127.0.0.1:8002/api/v1/weather).
func NewClient(baseURL string, cfg httpx.Config) *Client {
	return &Client{
		baseURL: baseURL,
		cfg:     cfg,
		circuit: httpx.NewBreaker("weather-service"),
	}
}

// Current fetches current conditions without persisting them.
func (c *Client) Current(ctx context.Context, lat, lng float64) (Snapshot, error) {
	values := coordValues(lat, lng)
	return c.getSnapshot(ctx, "/current", values)
}

// CurrentAndSave fetches current conditions and asks the weather service to
// persist the snapshot as it goes.
func (c *Client) CurrentAndSave(ctx context.Context, lat, lng float64, locationID *int64) (Snapshot, error) {
	values := coordValues(lat, lng)
	if locationID != nil {
		values.Set("location_id", strconv.FormatInt(*locationID, 10))
	}
	return c.getSnapshot(ctx, "/current-and-save", values)
}

// Forecast fetches the aggregated daily forecast for the given number of days.
func (c *Client) Forecast(ctx context.Context, lat, lng float64, days int) ([]ForecastDay, error) {
	if days <= 0 {
		days = DefaultForecastDays
	}
	values := coordValues(lat, lng)
	values.Set("days", strconv.Itoa(days))
	return c.getForecast(ctx, "/forecast", values)
}

// ForecastAndSave fetches the forecast and asks the weather service to
// persist the raw payload as it goes.
func (c *Client) ForecastAndSave(ctx context.Context, lat, lng float64, days int, locationID *int64) ([]ForecastDay, error) {
	if days <= 0 {
		days = DefaultForecastDays
	}
	values := coordValues(lat, lng)
	values.Set("days", strconv.Itoa(days))
	if locationID != nil {
		values.Set("location_id", strconv.FormatInt(*locationID, 10))
	}
	return c.getForecast(ctx, "/forecast-and-save", values)
}

// Historical fetches the daily series for an inclusive date window. Dates are
// YYYY-MM-DD strings; the service enforces the window rules on its side and
// the orchestrator pre-validates on ours.
func (c *Client) Historical(ctx context.Context, lat, lng float64, start, end string) ([]ForecastDay, error) {
	values := coordValues(lat, lng)
	values.Set("start", start)
	values.Set("end", end)

	var payload struct {
		Series []ForecastDay `json:"series"`
	}
	if err := c.get(ctx, "/historical", values, &payload); err != nil {
		return nil, err
	}
	return payload.Series, nil
}

func (c *Client) getSnapshot(ctx context.Context, path string, values url.Values) (Snapshot, error) {
	var payload struct {
		Snapshot Snapshot `json:"snapshot"`
	}
	if err := c.get(ctx, path, values, &payload); err != nil {
		return nil, err
	}
	return payload.Snapshot, nil
}

func (c *Client) getForecast(ctx context.Context, path string, values url.Values) ([]ForecastDay, error) {
	var payload struct {
		Aggregated []ForecastDay `json:"aggregated"`
	}
	if err := c.get(ctx, path, values, &payload); err != nil {
		return nil, err
	}
	return payload.Aggregated, nil
}

func (c *Client) get(ctx context.Context, path string, values url.Values, out interface{}) error {
	resp, err := httpx.Do(ctx, c.cfg, c.circuit, func() (*http.Request, error) {
		u := fmt.Sprintf("%s%s?%s", c.baseURL, path, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	})
	if err != nil {
		return err
	}
	return httpx.DecodeJSON(resp, out)
}

func coordValues(lat, lng float64) url.Values {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	return values
}
