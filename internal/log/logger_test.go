package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/pulsehr/internal/errors"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = level
	cfg.Format = format
	cfg.Output = NewOutput(&buf)
	return New(cfg), &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"Warning", LevelWarn},
		{"error", LevelError},
		{"nonsense", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("JSON") != FormatJSON {
		t.Error("expected JSON")
	}
	if ParseFormat("console") != FormatText {
		t.Error("expected text for console")
	}
	if ParseFormat("") != FormatText {
		t.Error("expected text as default")
	}
}

func TestLogLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatText)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below WARN should be filtered: %s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("WARN and ERROR should be logged: %s", out)
	}
}

func TestJSONFormatOutput(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	logger.Info("refreshed", "count", 2)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "refreshed" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["service"] != "pulsehr" {
		t.Errorf("service = %v", entry["service"])
	}
	if entry["count"] != float64(2) {
		t.Errorf("count = %v", entry["count"])
	}
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantParts []string
	}{
		{
			name:      "nil error",
			err:       nil,
			wantParts: []string{"msg=hello"},
		},
		{
			name:      "plain error",
			err:       fmt.Errorf("boom"),
			wantParts: []string{"error=boom"},
		},
		{
			name: "coded error",
			err: errors.New(errors.ErrCodeSelfAttendance, "cannot mark own attendance").
				WithSuggestion("ask another admin"),
			wantParts: []string{"error_code=VALIDATION-002", "suggestions="},
		},
		{
			name:      "wrapped coded error",
			err:       fmt.Errorf("outer: %w", errors.Wrap(errors.ErrCodeAPIServer, "server error", fmt.Errorf("503"))),
			wantParts: []string{"error_code=API-003", "cause=503"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelInfo, FormatText)
			logger.WithError(tt.err).Info("hello")

			out := buf.String()
			for _, part := range tt.wantParts {
				if !strings.Contains(out, part) {
					t.Errorf("expected %q in %s", part, out)
				}
			}
		})
	}
}

func TestLogError(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)

	logger.LogError(nil)
	if buf.Len() != 0 {
		t.Fatalf("nil error should log nothing, got %s", buf.String())
	}

	logger.LogError(errors.NewNotLoggedInError().WithDocs("https://docs.example"))
	out := buf.String()
	for _, part := range []string{"operation failed", "error_code=AUTH-001", "docs_url=https://docs.example"} {
		if !strings.Contains(out, part) {
			t.Errorf("expected %q in %s", part, out)
		}
	}
}

func TestWithGroup(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)
	logger.WithGroup("session").Info("changed", "logged_in", true)

	if !strings.Contains(buf.String(), `"session":{"logged_in":true}`) {
		t.Errorf("expected grouped attrs, got %s", buf.String())
	}
}

func TestEnabled(t *testing.T) {
	logger, _ := newBufferLogger(LevelWarn, FormatText)
	if logger.Enabled(t.Context(), LevelInfo) {
		t.Error("info should be disabled")
	}
	if !logger.Enabled(t.Context(), LevelError) {
		t.Error("error should be enabled")
	}
}

func TestOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pulsehr.log")

	out, closer, err := OutputFile(path)
	if err != nil {
		t.Fatalf("OutputFile() error = %v", err)
	}

	cfg := DefaultConfig()
	cfg.Output = out
	New(cfg).Info("to file")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file missing record: %s", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("log file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestDefaultLogger(t *testing.T) {
	original := defaultLogger
	defer func() { defaultLogger = original }()

	custom := Discard()
	SetDefaultLogger(custom)
	if DefaultLogger() != custom {
		t.Error("DefaultLogger did not return the configured logger")
	}

	defaultLogger = nil
	if DefaultLogger() == nil {
		t.Error("DefaultLogger should initialize lazily")
	}
}
