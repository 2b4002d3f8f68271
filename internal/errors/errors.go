package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Authentication errors (AUTH-001 to AUTH-099)
	ErrCodeNotLoggedIn        ErrorCode = "AUTH-001"
	ErrCodeUnauthorized       ErrorCode = "AUTH-002"
	ErrCodeLoginFailed        ErrorCode = "AUTH-003"
	ErrCodeRegisterFailed     ErrorCode = "AUTH-004"
	ErrCodeProfileUnavailable ErrorCode = "AUTH-005"
	ErrCodeForbidden          ErrorCode = "AUTH-006"

	// Remote API errors (API-001 to API-099)
	ErrCodeAPIUnreachable ErrorCode = "API-001"
	ErrCodeAPIRejected    ErrorCode = "API-002"
	ErrCodeAPIServer      ErrorCode = "API-003"
	ErrCodeAPIDecode      ErrorCode = "API-004"
	ErrCodeAPITimeout     ErrorCode = "API-005"

	// Client-side validation errors (VALIDATION-001 to VALIDATION-099)
	ErrCodeValidationFailed ErrorCode = "VALIDATION-001"
	ErrCodeSelfAttendance   ErrorCode = "VALIDATION-002"
	ErrCodeDateRange        ErrorCode = "VALIDATION-003"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"
	ErrCodeConfigKey     ErrorCode = "CONFIG-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
	ErrCodeFileUnmarshal   ErrorCode = "IO-005"
	ErrCodeExportFailed    ErrorCode = "IO-006"

	// Diagnostics (DOCTOR-001 to DOCTOR-099)
	ErrCodeDoctorFailed ErrorCode = "DOCTOR-001"
)

// IsValidation reports whether the code belongs to the VALIDATION category.
func (c ErrorCode) IsValidation() bool {
	return strings.HasPrefix(string(c), "VALIDATION-")
}

// PulseError represents an enhanced error with code, suggestions, and documentation
type PulseError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *PulseError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *PulseError) Unwrap() error {
	return e.Cause
}

// Is matches another PulseError by code, so sentinel values work with errors.Is.
func (e *PulseError) Is(target error) bool {
	t, ok := target.(*PulseError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates a new PulseError
func New(code ErrorCode, message string) *PulseError {
	return &PulseError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new PulseError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *PulseError {
	return &PulseError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *PulseError) WithSuggestion(suggestion string) *PulseError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *PulseError) WithSuggestions(suggestions ...string) *PulseError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *PulseError) WithDocs(url string) *PulseError {
	e.DocsURL = url
	return e
}

// CodeOf returns the code of the first PulseError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	for err != nil {
		if pe, ok := err.(*PulseError); ok {
			return pe.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// Common error constructors for frequently used errors

// NewNotLoggedInError is returned by commands that need a stored session.
func NewNotLoggedInError() *PulseError {
	return New(ErrCodeNotLoggedIn, "not logged in").
		WithSuggestion("Run 'pulsehr auth login --email <email>' to sign in").
		WithSuggestion("Or start the interactive shell with 'pulsehr'")
}

// NewUnauthorizedError reports a rejected or expired bearer token.
func NewUnauthorizedError(cause error) *PulseError {
	return Wrap(ErrCodeUnauthorized, "session is invalid or has expired", cause).
		WithSuggestion("Run 'pulsehr auth login' to sign in again")
}

// NewForbiddenError reports a view or command the current role cannot use.
func NewForbiddenError(what string) *PulseError {
	return New(ErrCodeForbidden, fmt.Sprintf("%s requires an admin account", what))
}

// NewAPIUnreachableError reports a network failure talking to the HR API.
func NewAPIUnreachableError(baseURL string, cause error) *PulseError {
	return Wrap(ErrCodeAPIUnreachable, fmt.Sprintf("cannot reach HR API at %s", baseURL), cause).
		WithSuggestion("Check that the API server is running").
		WithSuggestion("Set the API address with --api-url or PULSEHR_API_URL")
}

// NewValidationError reports a client-side form validation failure.
func NewValidationError(details string) *PulseError {
	return New(ErrCodeValidationFailed, details)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *PulseError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *PulseError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
