package dashboard

import (
	"errors"
	"net/http"

	"github.com/weatherdash/weatherdash/internal/httpx"
)

// ValidationError is a client-side pre-flight failure: the request was never
// sent because the input could not be valid.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// searchErrorMessage maps a search failure to its user-facing text. A
// structured 404 surfaces the upstream's own detail or message verbatim;
// anything else falls back to the error text.
func searchErrorMessage(err error) string {
	var apiErr *httpx.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return apiErr.UserMessage("Location not found or does not exist")
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return "Something went wrong"
}

// upstreamMessage extracts the detail/message text from a structured upstream
// error, falling back to the given text for anything unstructured.
func upstreamMessage(err error, fallback string) string {
	var apiErr *httpx.APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage(fallback)
	}
	return fallback
}
