package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestDoDecodesStructuredNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Location not found: atlantis"}`))
	}))
	defer srv.Close()

	cfg := Config{Client: srv.Client()}
	cb := NewBreaker("test")

	_, err := Do(context.Background(), cfg, cb, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, srv.URL, nil)
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !IsNotFound(err) {
		t.Fatalf("expected a 404 APIError, got %v", err)
	}
	if got := err.Error(); got != "Location not found: atlantis" {
		t.Errorf("error text = %q", got)
	}
}

func TestDoDoesNotRetryByDefault(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := Config{Client: srv.Client()}
	cb := NewBreaker("test")

	_, err := Do(context.Background(), cfg, cb, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, srv.URL, nil)
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("server hit %d times, want exactly 1 with retries disabled", got)
	}
}

func TestDoRetriesServerErrorsWhenEnabled(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	cfg := Config{
		Client: srv.Client(),
		Retry: RetryConfig{
			Enabled:         true,
			MaxRetries:      2,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
		},
	}
	cb := NewBreaker("test")

	resp, err := Do(context.Background(), cfg, cb, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, srv.URL, nil)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("server hit %d times, want 2", got)
	}
}

func TestDoNeverRetriesClientErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "bad input"}`))
	}))
	defer srv.Close()

	cfg := Config{
		Client: srv.Client(),
		Retry: RetryConfig{
			Enabled:         true,
			MaxRetries:      3,
			InitialInterval: time.Millisecond,
		},
	}
	cb := NewBreaker("test")

	_, err := Do(context.Background(), cfg, cb, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, srv.URL, nil)
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("server hit %d times, want exactly 1 for a 4xx answer", got)
	}
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "paris" {
			w.Write([]byte(`{}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Location not found: typo"}`))
	}))
	defer srv.Close()

	cfg := Config{Client: srv.Client()}
	cb := NewBreaker("test")

	// A run of "not found" answers is user error, not upstream sickness.
	for i := 0; i < 10; i++ {
		_, err := Do(context.Background(), cfg, cb, func() (*http.Request, error) {
			return http.NewRequest(http.MethodGet, srv.URL+"?q=typo", nil)
		})
		if !IsNotFound(err) {
			t.Fatalf("attempt %d: expected a 404 APIError, got %v", i, err)
		}
	}

	resp, err := Do(context.Background(), cfg, cb, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, srv.URL+"?q=paris", nil)
	})
	if err != nil {
		t.Fatalf("valid request failed after a run of 404s: %v", err)
	}
	resp.Body.Close()
}

func TestUserMessageFallbackChain(t *testing.T) {
	e := &APIError{StatusCode: 404, Detail: "detail wins", Message: "message"}
	if got := e.UserMessage("fallback"); got != "detail wins" {
		t.Errorf("got %q, want detail", got)
	}

	e = &APIError{StatusCode: 404, Message: "message next"}
	if got := e.UserMessage("fallback"); got != "message next" {
		t.Errorf("got %q, want message", got)
	}

	e = &APIError{StatusCode: 404}
	if got := e.UserMessage("fallback"); got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}
}
