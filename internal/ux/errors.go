package ux

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/pulsehr/internal/errors"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\nSuggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError adds a suggestion to errors that do not carry one.
// Coded errors already have their own suggestions and are returned as is.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}
	var pe *errors.PulseError
	if stderrors.As(err, &pe) {
		return err
	}

	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "unknown command"):
		return NewErrorWithSuggestion(err, "Run 'pulsehr --help' to list commands and flags")

	case strings.Contains(errMsg, "required flag"):
		return NewErrorWithSuggestion(err, "Run the command with --help to see its required flags")

	case strings.Contains(errMsg, "unknown format"):
		return NewErrorWithSuggestion(err, fmt.Sprintf("Use --format with one of: %s", strings.Join(Formats, ", ")))

	case strings.Contains(errMsg, "permission denied"):
		return NewErrorWithSuggestion(err,
			"Check permissions on the pulsehr home directory (~/.pulsehr or $PULSEHR_HOME)")

	case strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no such host"):
		return NewErrorWithSuggestion(err,
			"Check that the HR API is running and --api-url points at it")
	}

	return err
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}
