package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound matches any *APIError with status 404.
	ErrNotFound = errors.New("resource not found")

	// ErrUnavailable indicates the API server could not be reached.
	ErrUnavailable = errors.New("gantt api unavailable")

	// ErrTimeout indicates the request exceeded its deadline.
	ErrTimeout = errors.New("gantt api request timed out")

	// ErrRetryExhausted indicates every retry attempt failed.
	ErrRetryExhausted = errors.New("gantt api retry attempts exhausted")
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Retryable reports whether the server side may succeed on a later attempt.
func (e *APIError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}
