package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pulsehr/internal/config"
	"github.com/felixgeelhaar/pulsehr/internal/notify"
	"github.com/felixgeelhaar/pulsehr/internal/shell"
	"github.com/felixgeelhaar/pulsehr/internal/tui"
)

// annotationStandalone marks commands that run without the API client and
// session, so a broken config file cannot lock them out.
const annotationStandalone = "pulsehr/standalone"

// invocation tracks the deps of one run so they can be closed and the
// command recorded after cobra returns.
type invocation struct {
	deps    *deps
	started time.Time
}

func newRootCmd() (*cobra.Command, *invocation) {
	inv := &invocation{}

	root := &cobra.Command{
		Use:   "pulsehr",
		Short: "Human resources in your terminal",
		Long: `pulsehr is a terminal client for the PulseHR API.

Run it without arguments to open the interactive shell: a dashboard,
employee directory, attendance, leave requests, feedback and your profile,
with a notification bell for pending leave and feedback.

Every screen is also available as a subcommand for scripts, for example
'pulsehr leaves list --format json'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			inv.started = time.Now()
			if standalone(cmd) {
				return nil
			}
			d, err := newDeps(cmd, !cmd.HasParent())
			if err != nil {
				return err
			}
			inv.deps = d
			cmd.SetContext(withDeps(cmd.Context(), d))
			return nil
		},
		RunE: runShell,
	}

	flags := root.PersistentFlags()
	flags.String("api-url", config.DefaultAPIURL, "HR API base URL (env PULSEHR_API_URL)")
	flags.String("home", "", "pulsehr home directory (default $PULSEHR_HOME or ~/.pulsehr)")
	flags.Duration("timeout", 30*time.Second, "timeout for each API request (env PULSEHR_TIMEOUT)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")
	flags.StringP("format", "f", "text", "output format: text, json or yaml")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	root.AddCommand(
		newAuthCmd(),
		newDashboardCmd(),
		newNotificationsCmd(),
		newEmployeesCmd(),
		newAttendanceCmd(),
		newLeavesCmd(),
		newFeedbackCmd(),
		newProfileCmd(),
		newConfigCmd(),
		newDoctorCmd(),
		newVersionCmd(),
	)
	return root, inv
}

func standalone(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationStandalone] == "true" {
			return true
		}
	}
	return false
}

// finish records the command outcome and releases resources.
func (inv *invocation) finish(cmd *cobra.Command, err error) {
	d := inv.deps
	if d == nil {
		return
	}
	name := "pulsehr"
	if cmd != nil {
		name = cmd.CommandPath()
	}
	d.metrics.CommandFinished(name, time.Since(inv.started), err)
	if err != nil {
		d.logger.WithError(err).Debug("command failed", "command", name)
	}
	d.Close()
	inv.deps = nil
}

// Execute runs the root command with a background context.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command. Cancelling ctx stops the
// interactive shell and any request in flight.
func ExecuteContext(ctx context.Context) error {
	return execute(ctx, nil)
}

func execute(ctx context.Context, configure func(*cobra.Command)) error {
	root, inv := newRootCmd()
	if configure != nil {
		configure(root)
	}
	cmd, err := root.ExecuteContextC(ctx)
	inv.finish(cmd, err)
	return err
}

// runShell opens the interactive shell.
func runShell(cmd *cobra.Command, args []string) error {
	d := depsFrom(cmd)
	ctx := cmd.Context()

	bus := shell.NewPointerBus()
	controller := shell.NewController(ctx, d.store, bus)
	defer controller.Close()

	app := tui.NewApp(ctx, tui.Options{
		Client:         d.client,
		Store:          d.store,
		Controller:     controller,
		Bus:            bus,
		Notifier:       notify.New(d.logger, d.metrics),
		Logger:         d.logger,
		NotifyInterval: d.cfg.Notifications.Interval,
	})

	d.logger.Info("starting shell", "api", d.client.BaseURL())
	return tui.Run(ctx, app)
}
