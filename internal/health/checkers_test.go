package health

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/pulsehr/internal/api"
)

type stubProfiler struct {
	user *api.UserProfile
	err  error
}

func (s stubProfiler) Profile(ctx context.Context) (*api.UserProfile, error) {
	return s.user, s.err
}

func TestAPIChecker(t *testing.T) {
	ctx := context.Background()
	ada := &api.UserProfile{ID: "a1", Name: "Ada", Role: api.RoleAdmin}

	tests := []struct {
		name     string
		stub     stubProfiler
		hasToken bool
		want     Status
	}{
		{"signed in", stubProfiler{user: ada}, true, StatusHealthy},
		{"reachable without token", stubProfiler{err: &api.APIError{StatusCode: http.StatusUnauthorized}}, false, StatusHealthy},
		{"token rejected", stubProfiler{err: &api.APIError{StatusCode: http.StatusUnauthorized}}, true, StatusDegraded},
		{"wrong base path", stubProfiler{err: &api.APIError{StatusCode: http.StatusNotFound}}, false, StatusDegraded},
		{"server down", stubProfiler{err: &api.APIError{StatusCode: http.StatusBadGateway}}, true, StatusUnhealthy},
		{"no route", stubProfiler{err: &api.TransportError{Err: errors.New("connection refused")}}, false, StatusUnhealthy},
		{"timeout", stubProfiler{err: &api.TransportError{Err: context.DeadlineExceeded}}, false, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &APIChecker{Client: tt.stub, BaseURL: "http://hr.test/api", HasToken: tt.hasToken}
			got := c.Check(ctx)
			assert.Equal(t, tt.want, got.Status, got.Message)
		})
	}
}

func TestTokenChecker(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "token")
	c := &TokenChecker{Path: path}

	assert.Equal(t, StatusDegraded, c.Check(ctx).Status, "missing")

	assert.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))
	assert.Equal(t, StatusDegraded, c.Check(ctx).Status, "empty")

	assert.NoError(t, os.WriteFile(path, []byte("tok"), 0o600))
	assert.Equal(t, StatusHealthy, c.Check(ctx).Status)

	if runtime.GOOS != "windows" {
		assert.NoError(t, os.Chmod(path, 0o644))
		assert.Equal(t, StatusDegraded, c.Check(ctx).Status, "world readable")
	}
}

func TestConfigChecker(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "config.yaml")

	assert.Equal(t, StatusHealthy, (&ConfigChecker{Path: path}).Check(ctx).Status)
	assert.Equal(t, StatusUnhealthy, (&ConfigChecker{Path: path, Err: errors.New("bad yaml")}).Check(ctx).Status)
}

func TestHomeChecker(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "home")

	result := (&HomeChecker{Dir: dir}).Check(context.Background())

	assert.Equal(t, StatusHealthy, result.Status)
	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Empty(t, entries, "probe file is removed")
}
