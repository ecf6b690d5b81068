package location

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/weatherdash/weatherdash/internal/httpx"
)

// ResolvedLocation is the location service's answer to a free-form query.
// Instances are immutable: a new search produces a new value, never an edit
// of a previous one. ID is set only by the resolve-and-save variant.
type ResolvedLocation struct {
	ID          *int64  `json:"id,omitempty"`
	Query       string  `json:"query"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"display_name"`
	Source      string  `json:"source"`
}

// Label returns the best human-readable name for the location.
func (l ResolvedLocation) Label() string {
	if l.DisplayName != "" {
		return l.DisplayName
	}
	if l.Query != "" {
		return l.Query
	}
	return fmt.Sprintf("%v,%v", l.Lat, l.Lng)
}

// Client wraps the location service HTTP API. The service interprets the
// query itself (postal code, city, "lat,lng" pair, landmark); no structural
// validation happens on this side.
type Client struct {
	baseURL string
	cfg     httpx.Config
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a location service client for the given base URL
// (e.g. http://127.0.0.1:8001/api/v1/location).
func NewClient(baseURL string, cfg httpx.Config) *Client {
	return &Client{
		baseURL: baseURL,
		cfg:     cfg,
		circuit: httpx.NewBreaker("location-service"),
	}
}

// Resolve translates a free-form query into coordinates and a display name
// without persisting anything.
func (c *Client) Resolve(ctx context.Context, query string) (ResolvedLocation, error) {
	return c.post(ctx, "/resolve", query)
}

// ResolveAndSave resolves the query and asks the location service to persist
// the result; the returned location carries the stored record's ID.
func (c *Client) ResolveAndSave(ctx context.Context, query string) (ResolvedLocation, error) {
	return c.post(ctx, "/resolve-and-save", query)
}

func (c *Client) post(ctx context.Context, path, query string) (ResolvedLocation, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return ResolvedLocation{}, err
	}

	resp, err := httpx.Do(ctx, c.cfg, c.circuit, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return ResolvedLocation{}, err
	}

	var loc ResolvedLocation
	if err := httpx.DecodeJSON(resp, &loc); err != nil {
		return ResolvedLocation{}, err
	}
	return loc, nil
}
