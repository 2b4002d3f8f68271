package cmd

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pulsehr/internal/api"
	"github.com/felixgeelhaar/pulsehr/internal/config"
	"github.com/felixgeelhaar/pulsehr/internal/errors"
	"github.com/felixgeelhaar/pulsehr/internal/health"
	"github.com/felixgeelhaar/pulsehr/internal/session"
	"github.com/felixgeelhaar/pulsehr/internal/ux"
)

func newDoctorCmd() *cobra.Command {
	var checkTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, session and API connectivity",
		Long: `Run a series of checks and report what is wrong with this setup:

  config  the config file parses and validates
  home    the home directory is writable
  token   a session token is saved with safe permissions
  api     the HR API answers at the configured URL

Exits non-zero when any check is unhealthy.`,
		Annotations: map[string]string{annotationStandalone: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			home, err := resolveHome(cc)
			if err != nil {
				return err
			}

			cfg, cfgErr := loadForDoctor(home)
			applyFlags(cmd, cc, cfg)
			if cfgErr == nil {
				cfgErr = cfg.Validate()
			}

			tokenPath := filepath.Join(home, config.TokenFileName)
			token, _ := session.NewFileTokenStore(tokenPath).Load()
			client := api.NewWithConfig(cfg.API.URL, &api.Config{
				MaxRetries: 1,
				Timeout:    cfg.API.Timeout,
			}).WithToken(token)

			manager := health.NewManager().WithTimeout(checkTimeout)
			manager.AddChecker(&health.ConfigChecker{Path: config.Path(home), Err: cfgErr})
			manager.AddChecker(&health.HomeChecker{Dir: home})
			manager.AddChecker(&health.TokenChecker{Path: tokenPath})
			manager.AddChecker(&health.APIChecker{Client: client, BaseURL: client.BaseURL(), HasToken: token != ""})

			report := manager.Check(cmd.Context())

			f, err := ux.NewFormatter(cc.Format, &ux.FormatterOptions{Writer: cmd.OutOrStdout(), NoColor: cc.NoColor})
			if err != nil {
				return err
			}
			if ux.IsText(cc.Format) {
				err = f.Format(reportTable(report))
				if err == nil {
					err = f.Format("Overall: " + report.Status.String())
				}
			} else {
				err = f.Format(report)
			}
			if err != nil {
				return err
			}

			if report.Status == health.StatusUnhealthy {
				var failed []string
				for _, c := range report.Checks {
					if c.Status == health.StatusUnhealthy {
						failed = append(failed, c.Name)
					}
				}
				return errors.New(errors.ErrCodeDoctorFailed, "unhealthy checks: "+strings.Join(failed, ", "))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&checkTimeout, "check-timeout", 5*time.Second, "timeout for each check")
	return cmd
}

// loadForDoctor is config.Load that falls back to the defaults, so the
// remaining checks still run against a broken file.
func loadForDoctor(home string) (*config.Config, error) {
	if _, err := config.LoadEnv(config.DefaultEnvFiles); err != nil {
		return config.Default(), errors.Wrap(errors.ErrCodeConfigInvalid, "failed to load .env file", err)
	}
	cfg, err := config.Load(home)
	if err != nil {
		return config.Default(), err
	}
	return cfg, nil
}

func reportTable(r health.Report) ux.Table {
	t := ux.Table{Header: []string{"Check", "Status", "Message"}}
	for _, c := range r.Checks {
		msg := c.Message
		if s, ok := c.Details["suggestion"].(string); ok {
			msg += " (" + s + ")"
		}
		t.Rows = append(t.Rows, []string{c.Name, c.Status.String(), msg})
	}
	return t
}
