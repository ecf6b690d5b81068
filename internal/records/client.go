package records

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/sony/gobreaker"

	"github.com/weatherdash/weatherdash/internal/httpx"
)

// Client wraps the records service HTTP API: CRUD per record kind plus bulk
// delete and export.
type Client struct {
	baseURL string
	cfg     httpx.Config
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a records service client for the given base URL
// (e.g. http://127.0.0.1:8003/api/v1/records).
func NewClient(baseURL string, cfg httpx.Config) *Client {
	return &Client{
		baseURL: baseURL,
		cfg:     cfg,
		circuit: httpx.NewBreaker("records-service"),
	}
}

// List fetches the three record lists concurrently and assembles the full
// saved-record set. Any single failure fails the whole load; partial sets are
// never returned.
func (c *Client) List(ctx context.Context) (SavedRecordSet, error) {
	var (
		wg       sync.WaitGroup
		set      SavedRecordSet
		locErr   error
		wxErr    error
		rangeErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		locErr = c.getJSON(ctx, "/location", &set.Locations)
	}()
	go func() {
		defer wg.Done()
		wxErr = c.getJSON(ctx, "/weather", &set.Weather)
	}()
	go func() {
		defer wg.Done()
		rangeErr = c.getJSON(ctx, "/range", &set.Ranges)
	}()
	wg.Wait()

	for _, err := range []error{locErr, wxErr, rangeErr} {
		if err != nil {
			return SavedRecordSet{}, err
		}
	}
	return set, nil
}

// SaveLocation persists a resolved location.
func (c *Client) SaveLocation(ctx context.Context, payload NewLocation) (LocationRecord, error) {
	var created LocationRecord
	err := c.send(ctx, http.MethodPost, "/location", payload, &created)
	return created, err
}

// SaveWeather persists a weather snapshot.
func (c *Client) SaveWeather(ctx context.Context, payload NewWeather) (WeatherRecord, error) {
	var created WeatherRecord
	err := c.send(ctx, http.MethodPost, "/weather", payload, &created)
	return created, err
}

// SaveRange persists a summarized date range.
func (c *Client) SaveRange(ctx context.Context, payload NewRange) (RangeRecord, error) {
	var created RangeRecord
	err := c.send(ctx, http.MethodPost, "/range", payload, &created)
	return created, err
}

// Update applies a partial update to one record. The fields value is
// marshaled as-is; the records service ignores fields it does not know.
func (c *Client) Update(ctx context.Context, kind Kind, id int64, fields interface{}) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown record kind %q", kind)
	}
	path := fmt.Sprintf("/%s/%d", kind, id)
	return c.send(ctx, http.MethodPut, path, fields, nil)
}

// Delete removes one record by id.
func (c *Client) Delete(ctx context.Context, kind Kind, id int64) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown record kind %q", kind)
	}
	path := fmt.Sprintf("/%s/%d", kind, id)
	return c.send(ctx, http.MethodDelete, path, nil, nil)
}

// DeleteAll removes every record of one kind. The records service only
// supports bulk deletion for locations and weather snapshots.
func (c *Client) DeleteAll(ctx context.Context, kind Kind) error {
	if kind != KindLocation && kind != KindWeather {
		return fmt.Errorf("bulk delete not supported for kind %q", kind)
	}
	return c.send(ctx, http.MethodDelete, "/all/"+string(kind), nil, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return httpx.GetJSON(ctx, c.cfg, c.circuit, c.baseURL+path, out)
}

func (c *Client) send(ctx context.Context, method, path string, payload, out interface{}) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return err
		}
	}

	resp, err := httpx.Do(ctx, c.cfg, c.circuit, func() (*http.Request, error) {
		var reader *bytes.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		} else {
			reader = bytes.NewReader(nil)
		}
		req, err := http.NewRequest(method, c.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	})
	if err != nil {
		return err
	}

	if out == nil {
		resp.Body.Close()
		return nil
	}
	return httpx.DecodeJSON(resp, out)
}
