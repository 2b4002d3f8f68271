package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pulsehr/internal/api"
	"github.com/felixgeelhaar/pulsehr/internal/config"
	"github.com/felixgeelhaar/pulsehr/internal/errors"
	"github.com/felixgeelhaar/pulsehr/internal/log"
	"github.com/felixgeelhaar/pulsehr/internal/metrics"
	"github.com/felixgeelhaar/pulsehr/internal/session"
	"github.com/felixgeelhaar/pulsehr/internal/ux"
	"github.com/felixgeelhaar/pulsehr/internal/version"
)

// CommandContext holds the persistent flags of one invocation.
type CommandContext struct {
	// Output control
	Format  string
	NoColor bool

	// Connection
	APIURL  string
	Timeout time.Duration

	// Configuration
	Home        string
	LogLevel    string
	LogFormat   string
	MetricsAddr string
}

// NewCommandContext extracts command context from cobra.Command flags.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}

	apiURL, err := cmd.Flags().GetString("api-url")
	if err != nil {
		return nil, err
	}

	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	home, err := cmd.Flags().GetString("home")
	if err != nil {
		return nil, err
	}

	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}

	logFormat, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return nil, err
	}

	metricsAddr, err := cmd.Flags().GetString("metrics-addr")
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Format:      format,
		NoColor:     noColor,
		APIURL:      apiURL,
		Timeout:     timeout,
		Home:        home,
		LogLevel:    logLevel,
		LogFormat:   logFormat,
		MetricsAddr: metricsAddr,
	}, nil
}

// deps is everything a command needs, built once per invocation from the
// flags, the config file and the environment.
type deps struct {
	cc       *CommandContext
	cfg      *config.Config
	home     string
	logger   *log.Logger
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	client   *api.Client
	tokens   *session.FileTokenStore
	store    *session.Store
	out      io.Writer
	errOut   io.Writer
	closers  []io.Closer
}

// resolveHome returns --home, or the default home directory.
func resolveHome(cc *CommandContext) (string, error) {
	if cc.Home != "" {
		return cc.Home, nil
	}
	return config.Home()
}

// newDeps loads configuration and wires the API client, session store and
// metrics. Flags that were set explicitly override the config file and the
// environment. When interactive is true logs go to <home>/logs/pulsehr.log
// instead of stderr.
func newDeps(cmd *cobra.Command, interactive bool) (*deps, error) {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to create command context: %w", err)
	}
	home, err := resolveHome(cc)
	if err != nil {
		return nil, err
	}

	if _, err := config.LoadEnv(config.DefaultEnvFiles); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "failed to load .env file", err)
	}
	cfg, err := config.Load(home)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cc, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &deps{
		cc:     cc,
		cfg:    cfg,
		home:   home,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}

	logCfg := log.DefaultConfig()
	logCfg.Level = log.ParseLevel(cfg.Logging.Level)
	logCfg.Format = log.ParseFormat(cfg.Logging.Format)
	logCfg.ServiceVersion = version.Version
	logCfg.Output = log.NewOutput(d.errOut)
	if interactive {
		output, closer, err := log.OutputFile(filepath.Join(home, "logs", "pulsehr.log"))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeDirectoryFailed, "failed to open log file", err)
		}
		logCfg.Output = output
		d.closers = append(d.closers, closer)
	}
	d.logger = log.New(logCfg)
	log.SetDefaultLogger(d.logger)

	d.registry, d.metrics = metrics.NewRegistry()

	d.client = api.NewWithConfig(cfg.API.URL, &api.Config{
		MaxRetries: cfg.API.MaxRetries,
		RetryDelay: 500 * time.Millisecond,
		Timeout:    cfg.API.Timeout,
		Observer:   d.metrics,
		Logger:     d.logger,
	})
	d.tokens = session.NewFileTokenStore(filepath.Join(home, config.TokenFileName))
	d.store = session.NewStore(d.tokens, session.ClientFetcher{Client: d.client},
		session.WithLogger(d.logger),
		session.WithRecorder(d.metrics),
	)

	if cc.MetricsAddr != "" {
		addr, err := metrics.Serve(cmd.Context(), cc.MetricsAddr, d.registry, d.logger)
		if err != nil {
			d.Close()
			return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "failed to serve metrics on "+cc.MetricsAddr, err)
		}
		d.logger.Info("serving metrics", "addr", addr.String())
	}
	return d, nil
}

func applyFlags(cmd *cobra.Command, cc *CommandContext, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.API.URL = cc.APIURL
	}
	if flags.Changed("timeout") {
		cfg.API.Timeout = cc.Timeout
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = cc.LogLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = cc.LogFormat
	}
	if !flags.Changed("format") {
		cc.Format = cfg.Defaults.Format
	}
	if !flags.Changed("no-color") {
		cc.NoColor = cfg.Defaults.NoColor
	}
}

func (d *deps) Close() {
	for _, c := range d.closers {
		_ = c.Close()
	}
	d.closers = nil
}

// coded turns an API failure into an error with a code and suggestions.
func (d *deps) coded(err error) error {
	return api.Coded(err, d.client.BaseURL())
}

// session restores the saved token and resolves the profile behind it.
// The returned client carries the token.
func (d *deps) session(ctx context.Context) (*api.Client, *api.UserProfile, error) {
	s := d.store.Restore(ctx)
	if !s.Authenticated() {
		return nil, nil, errors.NewNotLoggedInError()
	}
	user, err := d.store.ResolveProfile(ctx)
	if err != nil {
		return nil, nil, d.coded(err)
	}
	return d.client.WithToken(s.Token), user, nil
}

// admin is session for commands only an admin may run.
func (d *deps) admin(ctx context.Context, what string) (*api.Client, *api.UserProfile, error) {
	client, user, err := d.session(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !user.Role.IsAdmin() {
		return nil, nil, errors.NewForbiddenError(what)
	}
	return client, user, nil
}

// emit writes v in the selected output format. In text mode the text
// values are written instead, in order.
func (d *deps) emit(v any, text ...any) error {
	f, err := ux.NewFormatter(d.cc.Format, &ux.FormatterOptions{Writer: d.out, NoColor: d.cc.NoColor})
	if err != nil {
		return err
	}
	if !ux.IsText(d.cc.Format) {
		return f.Format(v)
	}
	for i, t := range text {
		if i > 0 {
			fmt.Fprintln(d.out)
		}
		if err := f.Format(t); err != nil {
			return err
		}
	}
	return nil
}

// done reports a successful mutation. Structured formats get
// {"message": text}.
func (d *deps) done(text string) error {
	return d.emit(api.MessageResponse{Message: text}, text)
}

type depsKey struct{}

func withDeps(ctx context.Context, d *deps) context.Context {
	return context.WithValue(ctx, depsKey{}, d)
}

// depsFrom returns the deps built by the root command's pre-run hook.
func depsFrom(cmd *cobra.Command) *deps {
	d, _ := cmd.Context().Value(depsKey{}).(*deps)
	return d
}
