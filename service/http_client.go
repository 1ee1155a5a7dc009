package service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"kv-rentals/models"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// NewHTTPClient returns a client whose requests carry trace context.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// UpstreamError is a non-2xx answer from the backend API.
type UpstreamError struct {
	StatusCode int
	// Message is the backend's own explanation, when it sent one.
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// Unwrap lets callers match any upstream failure with errors.Is(err, ErrUpstream).
func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// readUpstreamError turns a failed response into an UpstreamError.
func readUpstreamError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var apiErr models.APIErrorResponse
	_ = json.Unmarshal(body, &apiErr)
	return &UpstreamError{StatusCode: resp.StatusCode, Message: apiErr.Message}
}
