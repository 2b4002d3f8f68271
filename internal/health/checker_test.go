package health

import (
	"testing"
	"time"
)

func TestStatusString(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.String(); got != tt.expected {
				t.Errorf("Status.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		result *Result
		status Status
	}{
		{Healthy("ok"), StatusHealthy},
		{Degraded("ok"), StatusDegraded},
		{Unhealthy("ok"), StatusUnhealthy},
	}

	for _, tt := range tests {
		if tt.result.Status != tt.status {
			t.Errorf("Status = %v, want %v", tt.result.Status, tt.status)
		}
		if tt.result.Message != "ok" {
			t.Errorf("Message = %q, want %q", tt.result.Message, "ok")
		}
		if tt.result.Details == nil {
			t.Error("Details should be initialized")
		}
	}
}

func TestFluentAPI(t *testing.T) {
	result := Healthy("test").
		WithDetail("url", "http://localhost:5000/api").
		WithDetail("attempts", 3).
		WithLatency(50 * time.Millisecond)

	if result.Latency != 50*time.Millisecond {
		t.Errorf("Latency = %v, want %v", result.Latency, 50*time.Millisecond)
	}
	if val, ok := result.Details["url"].(string); !ok || val != "http://localhost:5000/api" {
		t.Errorf("Details[url] = %v", result.Details["url"])
	}
	if val, ok := result.Details["attempts"].(int); !ok || val != 3 {
		t.Errorf("Details[attempts] = %v, want 3", result.Details["attempts"])
	}
}
