package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/pulsehr/internal/api"
	"github.com/felixgeelhaar/pulsehr/internal/config"
)

var (
	adminUser    = api.UserProfile{ID: "a1", Name: "Ada Admin", Email: "ada@example.com", Role: api.RoleAdmin, Department: "Engineering", Position: "Lead"}
	employeeUser = api.UserProfile{ID: "e1", Name: "Eve Employee", Email: "eve@example.com", Role: api.RoleEmployee, Phone: "555-0100", Department: "Sales", Position: "Rep"}
)

// hrServer answers from a route table keyed by "METHOD /path". An int
// value is sent as that status with {"message":"denied"}.
type hrServer struct {
	mu       sync.Mutex
	routes   map[string]any
	requests []string
	bodies   map[string]string
	auth     map[string]string
}

func newHRServer(t *testing.T, routes map[string]any) (*hrServer, *httptest.Server) {
	t.Helper()
	h := &hrServer{routes: routes, bodies: map[string]string{}, auth: map[string]string{}}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return h, srv
}

func (h *hrServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	h.mu.Lock()
	h.requests = append(h.requests, key)
	h.auth[key] = r.Header.Get("Authorization")
	if body != nil {
		raw, _ := json.Marshal(body)
		h.bodies[key] = string(raw)
	}
	resp, ok := h.routes[key]
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
		return
	}
	if status, isStatus := resp.(int); isStatus {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"denied"}`))
		return
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *hrServer) seen(key string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.requests {
		if r == key {
			return true
		}
	}
	return false
}

func (h *hrServer) body(key string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bodies[key]
}

type result struct {
	out    string
	errOut string
	err    error
}

// run executes pulsehr against srv with a private home directory.
func run(t *testing.T, srv *httptest.Server, home string, args ...string) result {
	t.Helper()
	t.Setenv("PULSEHR_MAX_RETRIES", "1")

	full := append([]string{"--home", home, "--no-color"}, args...)
	if srv != nil {
		full = append([]string{"--api-url", srv.URL}, full...)
	}

	var out, errOut bytes.Buffer
	err := execute(context.Background(), func(root *cobra.Command) {
		root.SetArgs(full)
		root.SetOut(&out)
		root.SetErr(&errOut)
	})
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

// loggedIn returns a home directory holding token.
func loggedIn(t *testing.T, token string) string {
	t.Helper()
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, config.TokenFileName), []byte(token), 0o600))
	return home
}

func readToken(t *testing.T, home string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(home, config.TokenFileName))
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return strings.TrimSpace(string(data))
}

func TestRootRegistersCommands(t *testing.T) {
	root, _ := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{
		"auth", "dashboard", "notifications", "employees", "attendance",
		"leaves", "feedback", "profile", "config", "doctor", "version",
	} {
		assert.Contains(t, names, want)
	}
}

func TestStandaloneAnnotation(t *testing.T) {
	root, _ := newRootCmd()

	version, _, err := root.Find([]string{"version"})
	require.NoError(t, err)
	assert.True(t, standalone(version))

	get, _, err := root.Find([]string{"config", "get"})
	require.NoError(t, err)
	assert.True(t, standalone(get), "inherits from config")

	list, _, err := root.Find([]string{"employees", "list"})
	require.NoError(t, err)
	assert.False(t, standalone(list))
}

func TestBrokenConfigFileFailsNonStandaloneCommands(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(config.Path(home), []byte("api: [not, a, map"), 0o600))

	res := run(t, nil, home, "dashboard")
	require.Error(t, res.err)

	res = run(t, nil, home, "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "pulsehr ")
}
