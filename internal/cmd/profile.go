package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pulsehr/internal/api"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change your own profile",
	}
	cmd.AddCommand(newProfileShowCmd(), newProfileUpdateCmd())
	return cmd
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			_, user, err := d.session(cmd.Context())
			if err != nil {
				return err
			}
			return d.emit(user, employeeFields(user))
		},
	}
}

func newProfileUpdateCmd() *cobra.Command {
	var patch api.ProfileUpdate

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change your profile",
		Long: `Change your name, phone, department, position or password. Fields
you do not pass keep their current value.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			ctx := cmd.Context()
			client, user, err := d.session(ctx)
			if err != nil {
				return err
			}

			req := api.ProfileUpdate{
				Name:       user.Name,
				Phone:      user.Phone,
				Department: user.Department,
				Position:   user.Position,
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = patch.Name
			}
			if flags.Changed("phone") {
				req.Phone = patch.Phone
			}
			if flags.Changed("department") {
				req.Department = patch.Department
			}
			if flags.Changed("position") {
				req.Position = patch.Position
			}
			req.Password = patch.Password

			if err := client.UpdateProfile(ctx, user.ID, req); err != nil {
				return actionError(d, err, "Failed to update profile")
			}
			if _, err := d.store.ResolveProfile(ctx); err != nil {
				d.logger.WithError(err).Warn("could not refresh profile after update")
			}
			return d.done("Profile updated successfully!")
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&patch.Name, "name", "", "full name")
	flags.StringVar(&patch.Phone, "phone", "", "phone number")
	flags.StringVar(&patch.Department, "department", "", "department")
	flags.StringVar(&patch.Position, "position", "", "position")
	flags.StringVar(&patch.Password, "password", "", "new password")
	return cmd
}
