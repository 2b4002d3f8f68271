package cmd

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pulsehr/internal/api"
	"github.com/felixgeelhaar/pulsehr/internal/export"
	"github.com/felixgeelhaar/pulsehr/internal/ux"
)

func newAttendanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Attendance records and daily check-in",
		Long: `Employees check themselves in and out and see their own history.
Admins see everyone's records and mark attendance for others.

Examples:
  pulsehr attendance checkin
  pulsehr attendance mark --employee 64f0c2 --status late --check-in 09:40
  pulsehr attendance export -o attendance.xlsx`,
	}
	cmd.AddCommand(
		newAttendanceListCmd(),
		newAttendanceTodayCmd(),
		newAttendanceCheckinCmd(),
		newAttendanceMarkCmd(),
		newAttendanceExportCmd(),
	)
	return cmd
}

func attendanceTable(list []api.AttendanceRecord, withEmployee bool, empty string) ux.Table {
	t := ux.Table{Empty: empty}
	if withEmployee {
		t.Header = append(t.Header, "Employee")
	}
	t.Header = append(t.Header, "Date", "Status", "Check In", "Check Out", "Notes")
	for _, r := range list {
		var row []string
		if withEmployee {
			row = append(row, r.Employee.DisplayName())
		}
		row = append(row, api.FormatDate(r.Date), string(r.Status), api.OrDash(r.CheckIn), api.OrDash(r.CheckOut), api.OrDash(r.Notes))
		t.Rows = append(t.Rows, row)
	}
	return t
}

// visibleAttendance is everyone's records for an admin and the caller's
// own otherwise.
func visibleAttendance(cmd *cobra.Command, d *deps) ([]api.AttendanceRecord, bool, error) {
	ctx := cmd.Context()
	client, user, err := d.session(ctx)
	if err != nil {
		return nil, false, err
	}
	var list []api.AttendanceRecord
	if user.Role.IsAdmin() {
		list, err = client.ListAttendance(ctx)
	} else {
		list, err = client.EmployeeAttendance(ctx, user.ID)
	}
	if err != nil {
		return nil, false, d.coded(err)
	}
	if list == nil {
		list = []api.AttendanceRecord{}
	}
	return list, user.Role.IsAdmin(), nil
}

func newAttendanceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List attendance records",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			list, admin, err := visibleAttendance(cmd, d)
			if err != nil {
				return err
			}
			return d.emit(list, attendanceTable(list, admin, "No attendance records found"))
		},
	}
}

type todayStatus struct {
	Record     *api.AttendanceRecord `json:"record" yaml:"record"`
	NextAction string                `json:"next_action" yaml:"next_action"`
}

func newAttendanceTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show your attendance for today",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			ctx := cmd.Context()
			client, _, err := d.session(ctx)
			if err != nil {
				return err
			}
			rec, err := client.TodayAttendance(ctx)
			if err != nil {
				return d.coded(err)
			}

			status := todayStatus{Record: rec, NextAction: api.NextSelfAction(rec)}
			fields := ux.Fields{{Label: "Today", Value: "Not checked in"}}
			if rec != nil {
				fields = ux.Fields{
					{Label: "Status", Value: string(rec.Status)},
					{Label: "Check in", Value: api.OrDash(rec.CheckIn)},
					{Label: "Check out", Value: api.OrDash(rec.CheckOut)},
				}
			}
			next := status.NextAction
			if next == "" {
				next = "Done for today"
			}
			fields = append(fields, ux.Field{Label: "Next", Value: next})
			return d.emit(status, fields)
		},
	}
}

func newAttendanceCheckinCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "checkin",
		Aliases: []string{"checkout", "check"},
		Short:   "Check in, or check out if already checked in",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			ctx := cmd.Context()
			client, _, err := d.session(ctx)
			if err != nil {
				return err
			}
			resp, err := client.SelfAttendance(ctx)
			if err != nil {
				return actionError(d, err, "Failed to record attendance")
			}
			msg := resp.Message
			if msg == "" {
				msg = "Attendance recorded"
			}
			return d.emit(resp, msg)
		},
	}
}

func newAttendanceMarkCmd() *cobra.Command {
	var (
		req    api.MarkAttendanceRequest
		status string
	)

	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Mark attendance for another employee (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			ctx := cmd.Context()
			client, user, err := d.admin(ctx, "Marking attendance")
			if err != nil {
				return err
			}
			req.Status = api.AttendanceStatus(status)
			if err := client.MarkAttendance(ctx, user.ID, req); err != nil {
				return actionError(d, err, "Failed to mark attendance")
			}
			return d.done("Attendance marked successfully")
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.EmployeeID, "employee", "", "employee id")
	flags.StringVar(&req.Date, "date", time.Now().Format("2006-01-02"), "date, YYYY-MM-DD")
	flags.StringVar(&status, "status", string(api.AttendancePresent), "present, absent, late or half-day")
	flags.StringVar(&req.CheckIn, "check-in", "", "check-in time, HH:MM")
	flags.StringVar(&req.CheckOut, "check-out", "", "check-out time, HH:MM")
	flags.StringVar(&req.Notes, "notes", "", "notes")
	return cmd
}

func newAttendanceExportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export attendance records",
		Long: `Write the attendance records you can see as JSON, YAML or an Excel
workbook.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			list, _, err := visibleAttendance(cmd, d)
			if err != nil {
				return err
			}
			return opts.write(d, "attendance", func(w io.Writer, f export.Format) error {
				return export.Attendance(w, f, list)
			})
		},
	}
	opts.bind(cmd)
	return cmd
}
