package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pulsehr/internal/api"
	"github.com/felixgeelhaar/pulsehr/internal/errors"
	"github.com/felixgeelhaar/pulsehr/internal/export"
	"github.com/felixgeelhaar/pulsehr/internal/tui"
	"github.com/felixgeelhaar/pulsehr/internal/ux"
)

func newEmployeesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employees",
		Aliases: []string{"employee", "emp"},
		Short:   "Manage the employee directory (admin)",
		Long: `List, inspect, add, change, remove and export employees.
Every subcommand requires an admin account.

Examples:
  pulsehr employees list --department Engineering
  pulsehr employees create --name "Ada Admin" --email ada@example.com \
    --password secret --department Engineering --position Lead
  pulsehr employees export -o staff.xlsx`,
	}
	cmd.AddCommand(
		newEmployeesListCmd(),
		newEmployeesGetCmd(),
		newEmployeesCreateCmd(),
		newEmployeesUpdateCmd(),
		newEmployeesDeleteCmd(),
		newEmployeesExportCmd(),
	)
	return cmd
}

func employeesTable(list []api.Employee) ux.Table {
	t := ux.Table{
		Header: []string{"ID", "Name", "Email", "Department", "Position", "Role", "Status"},
		Empty:  "No employees found",
	}
	for _, e := range list {
		t.Rows = append(t.Rows, []string{
			e.ID, e.Name, e.Email, api.OrDash(e.Department), api.OrDash(e.Position), string(e.Role), e.DisplayStatus(),
		})
	}
	return t
}

func employeeFields(e *api.Employee) ux.Fields {
	return ux.Fields{
		{Label: "ID", Value: e.ID},
		{Label: "Name", Value: e.Name},
		{Label: "Email", Value: e.Email},
		{Label: "Role", Value: string(e.Role)},
		{Label: "Department", Value: api.OrDash(e.Department)},
		{Label: "Position", Value: api.OrDash(e.Position)},
		{Label: "Phone", Value: api.OrDash(e.Phone)},
		{Label: "Status", Value: e.DisplayStatus()},
		{Label: "Joined", Value: api.FormatDate(e.JoinDate)},
	}
}

func newEmployeesListCmd() *cobra.Command {
	var filter api.EmployeeFilter

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List employees",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			ctx := cmd.Context()
			client, _, err := d.admin(ctx, "Listing employees")
			if err != nil {
				return err
			}
			list, err := client.ListEmployees(ctx)
			if err != nil {
				return d.coded(err)
			}
			list = filter.Apply(list)
			return d.emit(list, employeesTable(list))
		},
	}

	cmd.Flags().StringVarP(&filter.Search, "search", "s", "", "match name, email or position")
	cmd.Flags().StringVar(&filter.Department, "department", "", "only this department")
	return cmd
}

func newEmployeesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			ctx := cmd.Context()
			client, _, err := d.admin(ctx, "Viewing employees")
			if err != nil {
				return err
			}
			e, err := client.GetEmployee(ctx, args[0])
			if err != nil {
				return d.coded(err)
			}
			return d.emit(e, employeeFields(e))
		},
	}
}

func employeeFlags(cmd *cobra.Command, req *api.EmployeeRequest, role *string) {
	flags := cmd.Flags()
	flags.StringVar(&req.Name, "name", "", "full name")
	flags.StringVar(&req.Email, "email", "", "email address")
	flags.StringVar(&req.Password, "password", "", "password")
	flags.StringVar(&req.Department, "department", "", "department")
	flags.StringVar(&req.Position, "position", "", "position")
	flags.StringVar(&req.Phone, "phone", "", "phone number")
	flags.StringVar(role, "role", string(api.RoleEmployee), "admin or employee")
}

func newEmployeesCreateCmd() *cobra.Command {
	var (
		req  api.EmployeeRequest
		role string
	)

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"add"},
		Short:   "Add an employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			ctx := cmd.Context()
			client, _, err := d.admin(ctx, "Adding employees")
			if err != nil {
				return err
			}
			req.Role = api.Role(role)
			if err := client.CreateEmployee(ctx, req); err != nil {
				return actionError(d, err, "Failed to save employee")
			}
			return d.done("Employee added!")
		},
	}
	employeeFlags(cmd, &req, &role)
	return cmd
}

func newEmployeesUpdateCmd() *cobra.Command {
	var (
		patch api.EmployeeRequest
		role  string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an employee",
		Long: `Change an employee. Only the flags you pass are changed; the rest
are kept from the current record. Leave --password out to keep it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			ctx := cmd.Context()
			client, _, err := d.admin(ctx, "Editing employees")
			if err != nil {
				return err
			}
			current, err := client.GetEmployee(ctx, args[0])
			if err != nil {
				return d.coded(err)
			}

			req := api.EmployeeRequest{
				Name:       current.Name,
				Email:      current.Email,
				Department: current.Department,
				Position:   current.Position,
				Phone:      current.Phone,
				Role:       current.Role,
			}
			flags := cmd.Flags()
			overlay := func(name string, dst *string, v string) {
				if flags.Changed(name) {
					*dst = v
				}
			}
			overlay("name", &req.Name, patch.Name)
			overlay("email", &req.Email, patch.Email)
			overlay("password", &req.Password, patch.Password)
			overlay("department", &req.Department, patch.Department)
			overlay("position", &req.Position, patch.Position)
			overlay("phone", &req.Phone, patch.Phone)
			if flags.Changed("role") {
				req.Role = api.Role(role)
			}

			if err := client.UpdateEmployee(ctx, args[0], req); err != nil {
				return actionError(d, err, "Failed to save employee")
			}
			return d.done("Employee updated!")
		},
	}
	employeeFlags(cmd, &patch, &role)
	return cmd
}

func newEmployeesDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove an employee",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			ctx := cmd.Context()
			client, _, err := d.admin(ctx, "Deleting employees")
			if err != nil {
				return err
			}

			if !yes {
				if !tui.ShouldPrompt() {
					return errors.NewValidationError("refusing to delete without confirmation").
						WithSuggestion("Pass --yes to delete without a prompt")
				}
				ok, err := tui.PromptForConfirmation("Are you sure you want to delete this employee?", false)
				if err != nil {
					return err
				}
				if !ok {
					return d.done("Cancelled")
				}
			}

			if err := client.DeleteEmployee(ctx, args[0]); err != nil {
				return actionError(d, err, "Failed to delete employee")
			}
			return d.done("Employee deleted successfully")
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newEmployeesExportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the employee directory",
		Long: `Write every employee as JSON, YAML or an Excel workbook. The format
follows --export-format, or else the extension of --output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			ctx := cmd.Context()
			client, _, err := d.admin(ctx, "Exporting employees")
			if err != nil {
				return err
			}
			list, err := client.ListEmployees(ctx)
			if err != nil {
				return d.coded(err)
			}
			return opts.write(d, "employees", func(w io.Writer, f export.Format) error {
				return export.Employees(w, f, list)
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

// exportOptions are the flags shared by the export subcommands.
type exportOptions struct {
	output string
	format string
}

func (o *exportOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "file to write; stdout when empty or -")
	cmd.Flags().StringVar(&o.format, "export-format", "", "json, yaml or xlsx (default from the file extension, else json)")
}

func (o *exportOptions) resolve() (export.Format, error) {
	if o.format != "" {
		return export.ParseFormat(o.format)
	}
	if f, ok := export.FormatForPath(o.output); ok {
		return f, nil
	}
	return export.FormatJSON, nil
}

func (o *exportOptions) write(d *deps, dataset string, fn func(io.Writer, export.Format) error) error {
	format, err := o.resolve()
	if err != nil {
		return err
	}

	if o.output == "" || o.output == "-" {
		if err := fn(d.out, format); err != nil {
			return err
		}
		d.metrics.Exported(dataset, string(format))
		return nil
	}

	f, err := os.Create(o.output)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to create "+o.output, err)
	}
	if err := fn(f, format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to write "+o.output, err)
	}
	d.metrics.Exported(dataset, string(format))
	d.logger.Info("exported", "dataset", dataset, "format", string(format), "path", o.output)
	fmt.Fprintf(d.errOut, "✓ Exported %s to %s\n", dataset, o.output)
	return nil
}
