package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/pulsehr/internal/config"
	"github.com/felixgeelhaar/pulsehr/internal/ux"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit pulsehr configuration",
		Long: `Manage the configuration stored at <home>/config.yaml.

Settings are applied in this order, later ones winning: built-in
defaults, config.yaml, .env files in the working directory, PULSEHR_*
environment variables, and finally command-line flags.

Examples:
  # View the configuration file merged over the defaults
  pulsehr config view

  # Point at a different API
  pulsehr config set api.url https://hr.example.com/api

  # Poll notifications every minute in the shell
  pulsehr config set notifications.interval 1m

  # Show configuration file path
  pulsehr config path
`,
		Annotations: map[string]string{annotationStandalone: "true"},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "view",
			Short: "Display current configuration",
			RunE:  runConfigView,
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Edit configuration in $EDITOR",
			RunE:  runConfigEdit,
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Get a specific configuration value",
			Long:  `Retrieve the value of a configuration key using dot notation (e.g., api.url).`,
			Args:  cobra.ExactArgs(1),
			RunE:  runConfigGet,
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a specific configuration value",
			Long:  `Set the value of a configuration key using dot notation (e.g., api.timeout 10s).`,
			Args:  cobra.ExactArgs(2),
			RunE:  runConfigSet,
		},
		&cobra.Command{
			Use:   "keys",
			Short: "List configuration keys",
			RunE:  runConfigKeys,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show configuration file path",
			RunE:  runConfigPath,
		},
	)
	return cmd
}

// configFile resolves the config path from --home and reads it without
// the environment, so what is shown or saved is what the file holds.
func configFile(cmd *cobra.Command) (*CommandContext, string, *config.Config, error) {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to create command context: %w", err)
	}
	home, err := resolveHome(cc)
	if err != nil {
		return nil, "", nil, err
	}
	path := config.Path(home)
	cfg, err := config.ReadFile(path)
	if err != nil {
		return nil, "", nil, err
	}
	return cc, path, cfg, nil
}

func runConfigView(cmd *cobra.Command, args []string) error {
	cc, path, cfg, err := configFile(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !ux.IsText(cc.Format) {
		formatter, err := ux.NewFormatter(cc.Format, &ux.FormatterOptions{Writer: out, NoColor: cc.NoColor})
		if err != nil {
			return err
		}
		return formatter.Format(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Configuration file: %s\n\n", path)
	fmt.Fprint(out, string(data))
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	_, path, cfg, err := configFile(cmd)
	if err != nil {
		return ux.FormatError(err, "loading configuration")
	}

	// The editor needs a file to open.
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if err := config.Save(cfg, path); err != nil {
			return err
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	editorCmd := exec.CommandContext(cmd.Context(), editor, path)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor: %w", err)
	}

	edited, err := config.ReadFile(path)
	if err == nil {
		err = edited.Validate()
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: configuration may contain errors: %v\n", err)
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration updated successfully")
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	_, _, cfg, err := configFile(cmd)
	if err != nil {
		return err
	}
	value, err := cfg.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	_, path, cfg, err := configFile(cmd)
	if err != nil {
		return err
	}
	key, value := args[0], args[1]
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.Save(cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s = %s\n", key, value)
	return nil
}

func runConfigKeys(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(config.Keys(), "\n"))
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}
	home, err := resolveHome(cc)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), config.Path(home))
	return nil
}
