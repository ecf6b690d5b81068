package httpx

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a structured error answer from an upstream service. The
// services return {"detail": ...} or {"message": ...} bodies on failure.
type APIError struct {
	StatusCode int
	Detail     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("upstream error (status %d)", e.StatusCode)
}

// UserMessage returns the upstream's detail or message field, falling back to
// the given text when the payload carried neither.
func (e *APIError) UserMessage(fallback string) string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// IsNotFound reports whether err is a structured 404 answer.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
