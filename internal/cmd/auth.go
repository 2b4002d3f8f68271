package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pulsehr/internal/api"
	"github.com/felixgeelhaar/pulsehr/internal/errors"
	"github.com/felixgeelhaar/pulsehr/internal/tui"
	"github.com/felixgeelhaar/pulsehr/internal/ux"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, sign out and create accounts",
		Long: `Manage the saved session.

A successful login stores the bearer token in <home>/token. Every other
command, and the interactive shell, reuses it until you log out or the
API rejects it.

Examples:
  pulsehr auth login --email ada@example.com
  pulsehr auth status
  pulsehr auth logout`,
	}
	cmd.AddCommand(newLoginCmd(), newLogoutCmd(), newStatusCmd(), newRegisterCmd())
	return cmd
}

func newLoginCmd() *cobra.Command {
	var req api.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			if err := promptMissing(&req.Email, tui.Prompt{Message: "Email", Required: true}); err != nil {
				return err
			}
			if err := promptMissing(&req.Password, tui.Prompt{Message: "Password", Required: true, Secret: true}); err != nil {
				return err
			}

			resp, err := d.client.Login(cmd.Context(), req)
			if err != nil {
				return rejectedAs(d, err, errors.ErrCodeLoginFailed, "Login failed")
			}
			if err := d.store.Login(resp.Token, resp.Employee); err != nil {
				return err
			}
			d.logger.Info("logged in", "user", resp.Employee.ID, "role", string(resp.Employee.Role))
			return d.emit(resp.Employee, fmt.Sprintf("Login successful! Signed in as %s (%s)", resp.Employee.Name, resp.Employee.Role))
		},
	}

	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "account password (prompted when omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			d.store.Restore(cmd.Context())
			if err := d.store.Logout(); err != nil {
				return err
			}
			return d.done("Logged out")
		},
	}
}

type authStatus struct {
	LoggedIn  bool             `json:"logged_in" yaml:"logged_in"`
	User      *api.UserProfile `json:"user,omitempty" yaml:"user,omitempty"`
	APIURL    string           `json:"api_url" yaml:"api_url"`
	TokenFile string           `json:"token_file" yaml:"token_file"`
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who is signed in",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			status := authStatus{APIURL: d.client.BaseURL(), TokenFile: d.tokens.Path()}

			if !d.store.Restore(cmd.Context()).Authenticated() {
				return d.emit(status, ux.Fields{
					{Label: "Status", Value: "Not logged in"},
					{Label: "API", Value: status.APIURL},
				})
			}
			user, err := d.store.ResolveProfile(cmd.Context())
			if err != nil {
				return d.coded(err)
			}

			status.LoggedIn = true
			status.User = user
			return d.emit(status, ux.Fields{
				{Label: "Status", Value: "Logged in"},
				{Label: "Name", Value: user.Name},
				{Label: "Email", Value: user.Email},
				{Label: "Role", Value: string(user.Role)},
				{Label: "API", Value: status.APIURL},
				{Label: "Token", Value: status.TokenFile},
			})
		},
	}
}

func newRegisterCmd() *cobra.Command {
	var (
		req  api.RegisterRequest
		role string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Create an account. Registration does not sign you in; run
'pulsehr auth login' afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			req.Role = api.Role(role)
			if err := promptMissing(&req.Password, tui.Prompt{Message: "Password", Required: true, Secret: true}); err != nil {
				return err
			}

			msg, err := d.client.Register(cmd.Context(), req)
			if err != nil {
				return rejectedAs(d, err, errors.ErrCodeRegisterFailed, "Registration failed")
			}
			d.logger.Debug("registered", "server_message", msg)
			return d.done("Registration successful! Please login.")
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Name, "name", "", "full name")
	flags.StringVar(&req.Email, "email", "", "email address")
	flags.StringVar(&req.Password, "password", "", "password (prompted when omitted)")
	flags.StringVar(&role, "role", string(api.RoleEmployee), "admin or employee")
	flags.StringVar(&req.Department, "department", "", "department")
	flags.StringVar(&req.Position, "position", "", "position")
	flags.StringVar(&req.Phone, "phone", "", "phone number")
	return cmd
}

// promptMissing asks for *value when it is empty and a terminal is
// attached. Otherwise it leaves validation to the request.
func promptMissing(value *string, p tui.Prompt) error {
	if *value != "" || !tui.ShouldPrompt() {
		return nil
	}
	v, err := tui.PromptForString(p)
	if err != nil {
		return err
	}
	*value = v
	return nil
}
