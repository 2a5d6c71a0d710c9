package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError is the single error kind raised for any non-2xx HTTP
// response or network-level failure from the API client. Status is zero when
// the failure happened before a response was received.
type TransportError struct {
	Status    int
	Message   string
	RequestID string
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request failed: %s", e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// StatusOf returns the HTTP status carried by err, or zero when err is not a
// transport error or no response was received.
func StatusOf(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Status
	}
	return 0
}

// IsAuthError reports whether err is a definitive credential rejection
// (401 or 403), as opposed to a transient transport failure.
func IsAuthError(err error) bool {
	status := StatusOf(err)
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 response
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// ErrorResponse is the backend's error body shape
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
