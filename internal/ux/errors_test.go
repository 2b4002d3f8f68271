package ux

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	pulseerrors "github.com/felixgeelhaar/pulsehr/internal/errors"
)

func TestNewErrorWithSuggestion(t *testing.T) {
	if NewErrorWithSuggestion(nil, "anything") != nil {
		t.Error("nil error should stay nil")
	}

	cause := errors.New("token file unreadable")
	err := NewErrorWithSuggestion(cause, "Run 'pulsehr auth login'")

	if got, want := err.Error(), "token file unreadable\n\nSuggestion: Run 'pulsehr auth login'"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}

	bare := &ErrorWithSuggestion{Err: cause}
	if bare.Error() != cause.Error() {
		t.Errorf("Error() without suggestion = %q", bare.Error())
	}
}

func TestEnhanceError(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"unknown flag: --bogus", "pulsehr --help"},
		{`unknown command "payroll" for "pulsehr"`, "pulsehr --help"},
		{`required flag(s) "email" not set`, "--help to see its required flags"},
		{"unknown format: csv (supported: text, json, yaml)", "text, json, yaml"},
		{"open /home/eve/.pulsehr/token: permission denied", "PULSEHR_HOME"},
		{"dial tcp 127.0.0.1:5000: connect: connection refused", "--api-url"},
		{"lookup hr.internal: no such host", "--api-url"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := EnhanceError(errors.New(tt.msg))
			var ews *ErrorWithSuggestion
			if !errors.As(err, &ews) {
				t.Fatalf("EnhanceError(%q) added no suggestion", tt.msg)
			}
			if !strings.Contains(ews.Suggestion, tt.want) {
				t.Errorf("Suggestion = %q, want it to mention %q", ews.Suggestion, tt.want)
			}
		})
	}
}

func TestEnhanceErrorPassThrough(t *testing.T) {
	if EnhanceError(nil) != nil {
		t.Error("nil should stay nil")
	}

	plain := errors.New("leave already processed")
	if EnhanceError(plain) != plain {
		t.Error("unrecognised errors are returned unchanged")
	}

	coded := pulseerrors.NewNotLoggedInError()
	wrapped := fmt.Errorf("dashboard: %w", coded)
	if EnhanceError(wrapped) != wrapped {
		t.Error("coded errors keep their own suggestions")
	}
}

func TestFormatError(t *testing.T) {
	if FormatError(nil, "export") != nil {
		t.Error("nil should stay nil")
	}

	cause := errors.New("connection refused")
	err := FormatError(cause, "load employees")

	if !strings.HasPrefix(err.Error(), "load employees: connection refused") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("context must not break the error chain")
	}

	if got := FormatError(errors.New("x"), ""); got.Error() != "x" {
		t.Errorf("empty context changed the message: %q", got.Error())
	}
}
