package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

// RetryConfig controls the optional retry layer with exponential backoff.
// Retries are disabled by default; the upstream services are expected to
// answer quickly or fail, and a retry changes the observable timing of the
// dashboard operations.
type RetryConfig struct {
	Enabled         bool
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Config bundles the HTTP client and resilience settings shared by all
// upstream service clients.
type Config struct {
	Client *http.Client
	Retry  RetryConfig
}

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// NewBreaker creates a circuit breaker with the settings used for every
// upstream service.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// Do executes the HTTP request through the circuit breaker, optionally
// retrying rate-limit and server errors with exponential backoff.
//
// Non-2xx responses are decoded into *APIError. Client errors (4xx) are never
// retried and do not count as circuit-breaker failures: they are well-formed
// answers about the caller's input, not signs of an unhealthy upstream, so a
// run of "not found" searches must not open the circuit. Only transport
// errors, rate limits and 5xx answers feed the breaker.
func Do(ctx context.Context, cfg Config, cb *gobreaker.CircuitBreaker, buildRequest func() (*http.Request, error)) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}

	var attempt int
	var lastErr error

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}

		req = req.WithContext(ctx)
		if req.Header.Get("X-Request-ID") == "" {
			req.Header.Set("X-Request-ID", uuid.NewString())
		}

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, execErr
			}

			if resp.StatusCode == http.StatusTooManyRequests {
				resp.Body.Close()
				return nil, errRateLimited
			}
			if resp.StatusCode >= 500 {
				apiErr := decodeAPIError(resp)
				return nil, fmt.Errorf("%w: %w", errServerError, apiErr)
			}

			return resp, nil
		})

		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			// A structured 4xx answer is final: decoded outside the breaker
			// so it counts as a success, and never retried.
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return nil, decodeAPIError(resp)
			}
			return resp, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}

		lastErr = err
		if !cfg.Retry.Enabled || attempt >= cfg.Retry.MaxRetries {
			return nil, lastErr
		}

		delay := cfg.Retry.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if cfg.Retry.MaxInterval > 0 && delay > cfg.Retry.MaxInterval {
			delay = cfg.Retry.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		attempt++
	}
}

// GetJSON issues a GET request and decodes the JSON response into out.
func GetJSON(ctx context.Context, cfg Config, cb *gobreaker.CircuitBreaker, url string, out interface{}) error {
	resp, err := Do(ctx, cfg, cb, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// DecodeJSON decodes the response body into out and closes the body.
func DecodeJSON(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

// decodeAPIError reads the response body and extracts the upstream's
// structured error payload. The body is consumed and closed.
func decodeAPIError(resp *http.Response) *APIError {
	defer resp.Body.Close()

	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Detail = payload.Detail
		apiErr.Message = payload.Message
	}
	return apiErr
}
