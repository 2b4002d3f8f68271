package version

import (
	"runtime"
	"strings"
	"testing"
)

// stamp sets the ldflags variables for one test.
func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestGetInfo(t *testing.T) {
	stamp(t, "1.4.0", "9f2c1e7ab03d", "2026-03-02T08:00:00Z")

	info := GetInfo()

	if info.Version != "1.4.0" || info.Commit != "9f2c1e7ab03d" || info.Date != "2026-03-02T08:00:00Z" {
		t.Errorf("GetInfo() = %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if want := runtime.GOOS + "/" + runtime.GOARCH; info.Platform != want {
		t.Errorf("Platform = %q, want %q", info.Platform, want)
	}
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "1.4.0",
		Commit:    "9f2c1e7ab03d",
		Date:      "2026-03-02",
		GoVersion: "go1.24.6",
		Platform:  "linux/amd64",
	}

	got := info.String()
	want := "PulseHR 1.4.0 (9f2c1e7a) built 2026-03-02 with go1.24.6 for linux/amd64"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestShortCommit(t *testing.T) {
	tests := []struct {
		commit string
		want   string
	}{
		{"9f2c1e7ab03d", "9f2c1e7a"},
		{"9f2c1e7a", "9f2c1e7a"},
		{"abc", "abc"},
		{"unknown", "unknown"},
	}

	for _, tt := range tests {
		if got := (Info{Commit: tt.commit}).ShortCommit(); got != tt.want {
			t.Errorf("ShortCommit(%q) = %q, want %q", tt.commit, got, tt.want)
		}
	}
}

func TestDevBuildDefaults(t *testing.T) {
	info := GetInfo()
	if info.Short() != Version {
		t.Errorf("Short() = %q, want %q", info.Short(), Version)
	}
	if Version == "" || Commit == "" || Date == "" {
		t.Error("ldflags variables must have non-empty defaults")
	}
}

func TestUserAgent(t *testing.T) {
	stamp(t, "1.4.0", "x", "y")

	ua := UserAgent()
	if !strings.HasPrefix(ua, "pulsehr/1.4.0 (") {
		t.Errorf("UserAgent() = %q, want pulsehr/1.4.0 prefix", ua)
	}
	if !strings.Contains(ua, runtime.GOOS) {
		t.Errorf("UserAgent() = %q, missing %s", ua, runtime.GOOS)
	}
}
