package health

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/felixgeelhaar/pulsehr/internal/api"
)

// ConfigChecker reports the outcome of loading the configuration. The
// load happens before the check so the same error can also be shown
// elsewhere.
type ConfigChecker struct {
	Path string
	Err  error
}

func (c *ConfigChecker) Name() string { return "config" }

func (c *ConfigChecker) Check(ctx context.Context) *Result {
	if c.Err != nil {
		return Unhealthy("configuration is invalid, using defaults").
			WithDetail("path", c.Path).
			WithDetail("error", c.Err.Error())
	}
	if _, err := os.Stat(c.Path); os.IsNotExist(err) {
		return Healthy("no config file, using defaults").WithDetail("path", c.Path)
	}
	return Healthy("configuration loaded").WithDetail("path", c.Path)
}

// HomeChecker verifies the home directory can be written, since the token
// and the shell's log file live there.
type HomeChecker struct {
	Dir string
}

func (c *HomeChecker) Name() string { return "home" }

func (c *HomeChecker) Check(ctx context.Context) *Result {
	if err := os.MkdirAll(c.Dir, 0o700); err != nil {
		return Unhealthy("cannot create home directory").
			WithDetail("dir", c.Dir).
			WithDetail("error", err.Error())
	}
	f, err := os.CreateTemp(c.Dir, ".doctor-*")
	if err != nil {
		return Unhealthy("home directory is not writable").
			WithDetail("dir", c.Dir).
			WithDetail("error", err.Error())
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return Healthy("writable").WithDetail("dir", c.Dir)
}

// TokenChecker inspects the saved session token file.
type TokenChecker struct {
	Path string
}

func (c *TokenChecker) Name() string { return "token" }

func (c *TokenChecker) Check(ctx context.Context) *Result {
	info, err := os.Stat(c.Path)
	if os.IsNotExist(err) {
		return Degraded("not logged in").
			WithDetail("suggestion", "Run 'pulsehr auth login'")
	}
	if err != nil {
		return Unhealthy("cannot read token file").WithDetail("error", err.Error())
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		return Unhealthy("cannot read token file").WithDetail("error", err.Error())
	}
	if strings.TrimSpace(string(data)) == "" {
		return Degraded("token file is empty").
			WithDetail("suggestion", "Run 'pulsehr auth login'")
	}

	if runtime.GOOS != "windows" && info.Mode().Perm()&0o077 != 0 {
		return Degraded(fmt.Sprintf("token file is readable by others (%04o)", info.Mode().Perm())).
			WithDetail("suggestion", "chmod 600 "+c.Path)
	}
	return Healthy("session token saved")
}

// Profiler is the API call used to probe the server.
type Profiler interface {
	Profile(ctx context.Context) (*api.UserProfile, error)
}

// APIChecker calls GET /auth/profile. Any HTTP answer proves the API is
// reachable. A 401 is only a problem when a token was sent.
type APIChecker struct {
	Client   Profiler
	BaseURL  string
	HasToken bool
}

func (c *APIChecker) Name() string { return "api" }

func (c *APIChecker) Check(ctx context.Context) *Result {
	user, err := c.Client.Profile(ctx)
	if err == nil {
		return Healthy("reachable, signed in as " + user.Name).
			WithDetail("url", c.BaseURL).
			WithDetail("role", string(user.Role))
	}

	var apiErr *api.APIError
	switch {
	case api.IsUnauthorized(err) && !c.HasToken:
		return Healthy("reachable").WithDetail("url", c.BaseURL)
	case api.IsUnauthorized(err):
		return Degraded("reachable, but the saved token was rejected").
			WithDetail("url", c.BaseURL).
			WithDetail("suggestion", "Run 'pulsehr auth login'")
	case stderrors.Is(err, context.DeadlineExceeded):
		return Unhealthy("timed out").WithDetail("url", c.BaseURL)
	case api.IsTransient(err):
		return Unhealthy("cannot reach the HR API").
			WithDetail("url", c.BaseURL).
			WithDetail("error", err.Error())
	case stderrors.As(err, &apiErr):
		return Degraded(fmt.Sprintf("unexpected status %d", apiErr.StatusCode)).
			WithDetail("url", c.BaseURL).
			WithDetail("suggestion", "Check that api.url points at the API root, e.g. http://localhost:5000/api")
	}
	return Unhealthy("request failed").
		WithDetail("url", c.BaseURL).
		WithDetail("error", err.Error())
}
