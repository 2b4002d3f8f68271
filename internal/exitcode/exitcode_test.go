package exitcode

import (
	"context"
	"errors"
	"fmt"
	"testing"

	pulseerrors "github.com/felixgeelhaar/pulsehr/internal/errors"
)

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected int
	}{
		{"Success", Success, 0},
		{"GeneralError", GeneralError, 1},
		{"UsageError", UsageError, 2},
		{"ValidationError", ValidationError, 3},
		{"ConfigError", ConfigError, 4},
		{"AuthError", AuthError, 5},
		{"NetworkError", NetworkError, 6},
		{"APIError", APIError, 7},
		{"Interrupted", Interrupted, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.expected {
				t.Errorf("Exit code %s = %d, want %d", tt.name, tt.code, tt.expected)
			}
		})
	}
}

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "nil error returns success",
			err:      nil,
			expected: Success,
		},
		{
			name:     "cancelled",
			err:      fmt.Errorf("list employees: %w", context.Canceled),
			expected: Interrupted,
		},
		{
			name:     "not logged in",
			err:      pulseerrors.NewNotLoggedInError(),
			expected: AuthError,
		},
		{
			name:     "rejected token",
			err:      pulseerrors.NewUnauthorizedError(errors.New("401")),
			expected: AuthError,
		},
		{
			name:     "forbidden",
			err:      pulseerrors.NewForbiddenError("employees"),
			expected: AuthError,
		},
		{
			name:     "validation",
			err:      pulseerrors.NewValidationError("Please fill in all fields"),
			expected: ValidationError,
		},
		{
			name:     "self attendance",
			err:      pulseerrors.New(pulseerrors.ErrCodeSelfAttendance, "You cannot mark your own attendance"),
			expected: ValidationError,
		},
		{
			name:     "unreachable API",
			err:      pulseerrors.NewAPIUnreachableError("http://localhost:5000/api", errors.New("refused")),
			expected: NetworkError,
		},
		{
			name:     "profile unavailable",
			err:      pulseerrors.New(pulseerrors.ErrCodeProfileUnavailable, "profile unavailable"),
			expected: NetworkError,
		},
		{
			name:     "server failure",
			err:      pulseerrors.New(pulseerrors.ErrCodeAPIServer, "the HR API failed"),
			expected: APIError,
		},
		{
			name:     "config",
			err:      pulseerrors.New(pulseerrors.ErrCodeConfigKey, "unknown configuration key: x"),
			expected: ConfigError,
		},
		{
			name:     "wrapped coded error",
			err:      fmt.Errorf("login: %w", pulseerrors.New(pulseerrors.ErrCodeLoginFailed, "login failed")),
			expected: AuthError,
		},
		{
			name:     "io error",
			err:      pulseerrors.New(pulseerrors.ErrCodeFileWriteFailed, "failed to write"),
			expected: GeneralError,
		},
		{
			name:     "plain connection error",
			err:      errors.New("dial tcp: connection refused"),
			expected: NetworkError,
		},
		{
			name:     "plain timeout",
			err:      errors.New("request timeout"),
			expected: NetworkError,
		},
		{
			name:     "unknown flag",
			err:      errors.New("unknown flag: --bogus"),
			expected: UsageError,
		},
		{
			name:     "required flag",
			err:      errors.New(`required flag(s) "email" not set`),
			expected: UsageError,
		},
		{
			name:     "wrong arg count",
			err:      errors.New("accepts 1 arg(s), received 0"),
			expected: UsageError,
		},
		{
			name:     "generic",
			err:      errors.New("something went wrong"),
			expected: GeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineExitCode(tt.err); got != tt.expected {
				t.Errorf("DetermineExitCode() = %d (%s), want %d (%s)",
					got, GetExitCodeDescription(got), tt.expected, GetExitCodeDescription(tt.expected))
			}
		})
	}
}

func TestDetermineExitCode_CaseInsensitive(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"uppercase UNAUTHORIZED", errors.New("UNAUTHORIZED access"), AuthError},
		{"mixed case Connection", errors.New("Connection reset by peer"), NetworkError},
		{"Unknown Command", errors.New("Unknown Command \"foo\""), UsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineExitCode(tt.err); got != tt.expected {
				t.Errorf("DetermineExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestGetExitCodeDescription(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{Success, "Success"},
		{GeneralError, "General error"},
		{UsageError, "Usage error (invalid flags or arguments)"},
		{ValidationError, "Invalid input"},
		{ConfigError, "Configuration error"},
		{AuthError, "Authentication error"},
		{NetworkError, "Network error"},
		{APIError, "HR API error"},
		{Interrupted, "Interrupted"},
		{99, "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := GetExitCodeDescription(tt.code); got != tt.want {
				t.Errorf("GetExitCodeDescription(%d) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}
