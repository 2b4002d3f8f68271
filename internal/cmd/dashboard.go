package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pulsehr/internal/api"
	"github.com/felixgeelhaar/pulsehr/internal/notify"
	"github.com/felixgeelhaar/pulsehr/internal/ux"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard for your role",
		Long: `Admins see organisation totals and headcount by department.
Employees see their own attendance and leave summary.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			ctx := cmd.Context()
			client, user, err := d.session(ctx)
			if err != nil {
				return err
			}

			if user.Role.IsAdmin() {
				stats, err := client.Dashboard(ctx)
				if err != nil {
					return d.coded(err)
				}
				return d.emit(stats, adminStatsFields(stats), departmentsTable(stats.EmployeesByDepartment))
			}

			stats, err := client.EmployeeDashboard(ctx, user.ID)
			if err != nil {
				return d.coded(err)
			}
			return d.emit(stats, ux.Fields{
				{Label: "Welcome", Value: user.Name},
				{Label: "Days present", Value: strconv.Itoa(stats.PresentDays)},
				{Label: "Pending leaves", Value: strconv.Itoa(stats.PendingLeaves)},
				{Label: "Approved leaves", Value: strconv.Itoa(stats.ApprovedLeaves)},
			}, attendanceTable(stats.RecentAttendance, false, "No attendance records yet"))
		},
	}
}

func adminStatsFields(s *api.DashboardStats) ux.Fields {
	return ux.Fields{
		{Label: "Total employees", Value: strconv.Itoa(s.TotalEmployees)},
		{Label: "Present today", Value: strconv.Itoa(s.PresentToday)},
		{Label: "Pending leaves", Value: strconv.Itoa(s.LeaveStats.Pending)},
		{Label: "Approved leaves", Value: strconv.Itoa(s.LeaveStats.Approved)},
	}
}

func departmentsTable(list []api.DepartmentCount) ux.Table {
	t := ux.Table{Header: []string{"Department", "Employees"}, Empty: "No departments"}
	for _, dc := range list {
		t.Rows = append(t.Rows, []string{api.OrDash(dc.Department), strconv.Itoa(dc.Count)})
	}
	return t
}

func newNotificationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notify"},
		Short:   "Show pending leave requests and unreviewed feedback",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			ctx := cmd.Context()
			client, user, err := d.session(ctx)
			if err != nil {
				return err
			}

			list := notify.New(d.logger, d.metrics).Refresh(ctx, client, user)
			if list == nil {
				list = []notify.Notification{}
			}
			t := ux.Table{Header: []string{"Title", "Message", "Section"}, Empty: "No new notifications"}
			for _, n := range list {
				t.Rows = append(t.Rows, []string{n.Title, n.Message, string(n.SourceTab)})
			}
			return d.emit(list, t)
		},
	}
}
