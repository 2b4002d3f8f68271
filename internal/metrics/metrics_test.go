package metrics

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/felixgeelhaar/pulsehr/internal/api"
	"github.com/felixgeelhaar/pulsehr/internal/errors"
	"github.com/felixgeelhaar/pulsehr/internal/log"
	"github.com/felixgeelhaar/pulsehr/internal/notify"
	"github.com/felixgeelhaar/pulsehr/internal/session"
)

// Compile-time checks that Metrics plugs into every observer hook.
var (
	_ api.Observer     = (*Metrics)(nil)
	_ session.Recorder = (*Metrics)(nil)
	_ notify.Recorder  = (*Metrics)(nil)
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	if m == nil {
		t.Fatal("expected metrics, got nil")
	}

	tests := []struct {
		name   string
		metric interface{}
	}{
		{"CommandExecutions", m.CommandExecutions},
		{"CommandDuration", m.CommandDuration},
		{"APIRequests", m.APIRequests},
		{"APILatency", m.APILatency},
		{"SessionTransitions", m.SessionTransitions},
		{"NotificationRefreshes", m.NotificationRefreshes},
		{"NotificationsActive", m.NotificationsActive},
		{"Exports", m.Exports},
		{"Errors", m.Errors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{0: "error", -1: "error", 200: "2xx", 201: "2xx", 404: "4xx", 503: "5xx"}
	for status, want := range tests {
		if got := StatusClass(status); got != want {
			t.Errorf("StatusClass(%d) = %q, want %q", status, got, want)
		}
	}
}

func TestObserveRequest(t *testing.T) {
	_, m := NewRegistry()

	m.ObserveRequest("GET", "/leaves", 200, 20*time.Millisecond)
	m.ObserveRequest("GET", "/leaves", 200, 30*time.Millisecond)
	m.ObserveRequest("GET", "/leaves", 503, time.Second)
	m.ObserveRequest("POST", "/auth/login", 0, time.Second)

	if got := testutil.ToFloat64(m.APIRequests.WithLabelValues("GET", "/leaves", "2xx")); got != 2 {
		t.Errorf("APIRequests GET 2xx = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.APIRequests.WithLabelValues("GET", "/leaves", "5xx")); got != 1 {
		t.Errorf("APIRequests GET 5xx = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.APIRequests.WithLabelValues("POST", "/auth/login", "error")); got != 1 {
		t.Errorf("APIRequests POST error = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.APILatency); got != 2 {
		t.Errorf("APILatency series = %d, want 2", got)
	}
}

func TestSessionAndNotificationMetrics(t *testing.T) {
	_, m := NewRegistry()

	m.SessionTransition("login")
	m.SessionTransition("logout")
	m.SessionTransition("login")
	m.NotificationsRefreshed(2, 0)
	m.NotificationsRefreshed(1, 1)

	if got := testutil.ToFloat64(m.SessionTransitions.WithLabelValues("login")); got != 2 {
		t.Errorf("SessionTransitions login = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.NotificationRefreshes.WithLabelValues("true")); got != 1 {
		t.Errorf("NotificationRefreshes partial = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.NotificationsActive); got != 1 {
		t.Errorf("NotificationsActive = %v, want 1", got)
	}
}

func TestCommandFinished(t *testing.T) {
	_, m := NewRegistry()

	m.CommandFinished("leaves list", time.Second, nil)
	m.CommandFinished("auth login", time.Second, errors.New(errors.ErrCodeLoginFailed, "bad"))
	m.CommandFinished("auth login", time.Second, stderrors.New("plain"))

	if got := testutil.ToFloat64(m.CommandExecutions.WithLabelValues("leaves list", "true")); got != 1 {
		t.Errorf("CommandExecutions success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CommandExecutions.WithLabelValues("auth login", "false")); got != 2 {
		t.Errorf("CommandExecutions failure = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Errors.WithLabelValues("AUTH-003", "cli")); got != 1 {
		t.Errorf("Errors AUTH-003 = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Errors.WithLabelValues("unknown", "cli")); got != 1 {
		t.Errorf("Errors unknown = %v, want 1", got)
	}
}

func TestExported(t *testing.T) {
	_, m := NewRegistry()
	m.Exported("employees", "xlsx")

	if got := testutil.ToFloat64(m.Exports.WithLabelValues("employees", "xlsx")); got != 1 {
		t.Errorf("Exports = %v, want 1", got)
	}
}

func TestHandlerFor(t *testing.T) {
	reg, m := NewRegistry()
	m.SessionTransition("restore")

	handler := HandlerFor(reg, promhttp.HandlerOpts{})
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `pulsehr_session_transitions_total{kind="restore"} 1`) {
		t.Errorf("metrics output missing session transition:\n%s", rec.Body.String())
	}
}

func TestDefaultInstance(t *testing.T) {
	Reset()
	defer Reset()

	a := GetDefault()
	b := GetDefault()
	if a == nil || a != b {
		t.Fatal("GetDefault should return one shared instance")
	}
}

func TestServe(t *testing.T) {
	reg, m := NewRegistry()
	m.Exported("attendance", "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr, err := Serve(ctx, "127.0.0.1:0", reg, log.Discard())
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}

	resp, err := http.Get("http://" + addr.String() + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), "pulsehr_exports_total") {
		t.Errorf("metrics output missing exports counter")
	}
}

func TestServeBadAddress(t *testing.T) {
	reg, _ := NewRegistry()
	if _, err := Serve(context.Background(), "not-an-address", reg, log.Discard()); err == nil {
		t.Error("expected listen error")
	}
}
