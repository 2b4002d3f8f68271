package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"

	"github.com/felixgeelhaar/pulsehr/internal/errors"
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	// Message is the server's message or error field, verbatim. It may be empty.
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.RequestID != "" {
		return fmt.Sprintf("hr API error (status %d, request_id %s): %s", e.StatusCode, e.RequestID, msg)
	}
	return fmt.Sprintf("hr API error (status %d): %s", e.StatusCode, msg)
}

// TransportError means no HTTP response was received.
type TransportError struct {
	Method    string
	Path      string
	RequestID string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsUnauthorized reports whether err is a 401 or 403 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !stderrors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// IsTransient reports whether retrying err later could succeed: network
// failures, 5xx and 429. Cancellation by the caller is not transient.
func IsTransient(err error) bool {
	if err == nil || stderrors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == http.StatusTooManyRequests
	}
	var tErr *TransportError
	return stderrors.As(err, &tErr)
}

// ServerMessage returns the API's own message for err, if it sent one.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}

// UserMessage picks the text to show for a failed feature operation:
// the server's message when present, otherwise fallback.
func UserMessage(err error, fallback string) string {
	if msg, ok := ServerMessage(err); ok {
		return msg
	}
	var pe *errors.PulseError
	if stderrors.As(err, &pe) && pe.Code.IsValidation() {
		return pe.Message
	}
	return fallback
}

// Coded converts err into a PulseError suitable for CLI output.
func Coded(err error, baseURL string) error {
	if err == nil {
		return nil
	}
	var pe *errors.PulseError
	if stderrors.As(err, &pe) {
		return err
	}

	var apiErr *APIError
	var netErr net.Error
	switch {
	case IsUnauthorized(err):
		if stderrors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
			return errors.Wrap(errors.ErrCodeForbidden, "the API refused this operation", err)
		}
		return errors.NewUnauthorizedError(err)
	case stderrors.As(err, &apiErr) && apiErr.StatusCode >= 500:
		return errors.Wrap(errors.ErrCodeAPIServer, "the HR API failed", err).
			WithSuggestion("Try again in a moment")
	case stderrors.As(err, &apiErr):
		return errors.Wrap(errors.ErrCodeAPIRejected, "the HR API rejected the request", err)
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.As(err, &netErr) && netErr.Timeout():
		return errors.Wrap(errors.ErrCodeAPITimeout, "request timed out", err).
			WithSuggestion("Raise the timeout with --timeout or PULSEHR_TIMEOUT")
	case IsTransient(err):
		return errors.NewAPIUnreachableError(baseURL, err)
	}
	return err
}
