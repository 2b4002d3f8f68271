package cmd

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/pulsehr/internal/config"
	pulseerrors "github.com/felixgeelhaar/pulsehr/internal/errors"
	"github.com/felixgeelhaar/pulsehr/internal/health"
)

func TestDoctorHealthy(t *testing.T) {
	_, srv := newHRServer(t, map[string]any{
		"GET /auth/profile": employeeUser,
	})

	res := run(t, srv, loggedIn(t, "tok-e1"), "doctor", "--format", "json")
	require.NoError(t, res.err)

	var report health.Report
	require.NoError(t, json.Unmarshal([]byte(res.out), &report))
	assert.Equal(t, health.StatusHealthy, report.Status)

	var names []string
	for _, c := range report.Checks {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"config", "home", "token", "api"}, names)
}

func TestDoctorNotLoggedInIsDegraded(t *testing.T) {
	_, srv := newHRServer(t, map[string]any{
		"GET /auth/profile": 401,
	})

	res := run(t, srv, t.TempDir(), "doctor")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "not logged in")
	assert.Contains(t, res.out, "Overall: degraded")
}

func TestDoctorUnreachableAPI(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()

	res := run(t, srv, loggedIn(t, "tok-e1"), "doctor")
	require.Error(t, res.err)
	assert.Equal(t, pulseerrors.ErrCodeDoctorFailed, pulseerrors.CodeOf(res.err))
	assert.Contains(t, res.err.Error(), "api")
	assert.Contains(t, res.out, "Overall: unhealthy")
}

func TestDoctorRunsWithBrokenConfig(t *testing.T) {
	_, srv := newHRServer(t, map[string]any{
		"GET /auth/profile": employeeUser,
	})
	home := loggedIn(t, "tok-e1")
	require.NoError(t, os.WriteFile(config.Path(home), []byte("api: [not, a, map"), 0o600))

	res := run(t, srv, home, "doctor")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "config")
	assert.Contains(t, res.out, "signed in as Eve Employee")
}
