package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pulsehr/internal/api"
	"github.com/felixgeelhaar/pulsehr/internal/ux"
)

func newLeavesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "leaves",
		Aliases: []string{"leave"},
		Short:   "Leave requests",
		Long: `Apply for leave and follow your requests. Admins see every request
and approve or reject pending ones.

Examples:
  pulsehr leaves apply --type sick --from 2026-03-02 --to 2026-03-03 --reason "Flu"
  pulsehr leaves list --status pending
  pulsehr leaves approve 65a1f0`,
	}
	cmd.AddCommand(
		newLeavesListCmd(),
		newLeavesApplyCmd(),
		newLeaveDecisionCmd("approve", api.LeaveApproved, "Leave approved successfully"),
		newLeaveDecisionCmd("reject", api.LeaveRejected, "Leave rejected successfully"),
	)
	return cmd
}

func leavesTable(list []api.Leave, withEmployee bool) ux.Table {
	t := ux.Table{Empty: "No leave requests found"}
	t.Header = append(t.Header, "ID")
	if withEmployee {
		t.Header = append(t.Header, "Employee")
	}
	t.Header = append(t.Header, "Type", "From", "To", "Reason", "Status")
	for _, l := range list {
		row := []string{l.ID}
		if withEmployee {
			row = append(row, l.Employee.DisplayName())
		}
		row = append(row, string(l.LeaveType), api.FormatDate(l.StartDate), api.FormatDate(l.EndDate), api.OrDash(l.Reason), string(l.Status))
		t.Rows = append(t.Rows, row)
	}
	return t
}

func newLeavesListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List leave requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			ctx := cmd.Context()
			client, user, err := d.session(ctx)
			if err != nil {
				return err
			}

			var list []api.Leave
			admin := user.Role.IsAdmin()
			if admin {
				list, err = client.ListLeaves(ctx)
			} else {
				list, err = client.EmployeeLeaves(ctx, user.ID)
			}
			if err != nil {
				return d.coded(err)
			}

			filtered := make([]api.Leave, 0, len(list))
			for _, l := range list {
				if status == "" || string(l.Status) == status {
					filtered = append(filtered, l)
				}
			}
			return d.emit(filtered, leavesTable(filtered, admin))
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only pending, approved or rejected requests")
	return cmd
}

func newLeavesApplyCmd() *cobra.Command {
	var (
		req       api.LeaveRequest
		leaveType string
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Request leave",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			ctx := cmd.Context()
			client, user, err := d.session(ctx)
			if err != nil {
				return err
			}
			req.EmployeeID = user.ID
			req.LeaveType = api.LeaveType(leaveType)
			if err := client.ApplyLeave(ctx, req); err != nil {
				return actionError(d, err, "Failed to submit leave request")
			}
			return d.done("Leave request submitted successfully")
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&leaveType, "type", string(api.LeaveCasual), "sick, casual or vacation")
	flags.StringVar(&req.StartDate, "from", "", "first day, YYYY-MM-DD")
	flags.StringVar(&req.EndDate, "to", "", "last day, YYYY-MM-DD")
	flags.StringVar(&req.Reason, "reason", "", "reason for the leave")
	return cmd
}

func newLeaveDecisionCmd(use string, status api.LeaveStatus, success string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: "Mark a leave request " + string(status) + " (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			ctx := cmd.Context()
			client, _, err := d.admin(ctx, "Reviewing leave requests")
			if err != nil {
				return err
			}
			if err := client.SetLeaveStatus(ctx, args[0], status); err != nil {
				return actionError(d, err, "Failed to update leave status")
			}
			return d.done(success)
		},
	}
}
