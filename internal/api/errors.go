package api

import (
	"errors"
	"fmt"
)

// ErrEmptyKeyword is returned before any request is issued when the
// trimmed keyword is empty.
var ErrEmptyKeyword = errors.New("keyword must not be empty")

// APIError is a structured error returned by the backend as JSON with
// an "error" field on a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return e.Message
}

// TransportError covers network failures and malformed responses, as
// opposed to structured application errors from the backend.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage maps any error from the client to text safe to render
// into a flow's region. A missing server message falls back to a
// generic line so the region never renders empty.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	var trErr *TransportError
	if errors.As(err, &trErr) {
		return "Could not reach the analytics backend. Check your connection and try again."
	}
	if err != nil {
		return err.Error()
	}
	return "An unexpected error occurred."
}
