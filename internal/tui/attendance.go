package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/pulsehr/internal/api"
)

// attendanceData is one attendance load. Employees is filled for admins
// (the picker); Today for employees.
type attendanceData struct {
	Records   []api.AttendanceRecord
	Employees []api.Employee
	Today     *api.AttendanceRecord
}

type attendanceView struct {
	admin  bool
	selfID string
	data   attendanceData
	table  table.Model
	ready  bool
	now    func() time.Time
}

func (v *attendanceView) init(admin bool) {
	if v.now == nil {
		v.now = time.Now
	}
	if v.ready {
		return
	}
	v.admin = admin
	cols := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Check In", Width: 10},
		{Title: "Check Out", Width: 10},
		{Title: "Notes", Width: 24},
	}
	if admin {
		cols = append([]table.Column{{Title: "Employee", Width: 20}}, cols...)
	}
	v.table = newTable(cols, nil)
	v.ready = true
}

func (v *attendanceView) load(e env) tea.Cmd {
	v.init(e.vc.IsAdmin)
	v.selfID = e.vc.User.ID
	if e.vc.IsAdmin {
		return e.fetch(func(ctx context.Context) (any, error) {
			records, err := e.client.ListAttendance(ctx)
			if err != nil {
				return nil, err
			}
			employees, err := e.client.ListEmployees(ctx)
			if err != nil {
				return nil, err
			}
			return attendanceData{Records: records, Employees: employees}, nil
		})
	}
	return e.fetch(func(ctx context.Context) (any, error) {
		records, err := e.client.EmployeeAttendance(ctx, e.vc.User.ID)
		if err != nil {
			return nil, err
		}
		today, err := e.client.TodayAttendance(ctx)
		if err != nil {
			return nil, err
		}
		return attendanceData{Records: records, Today: today}, nil
	})
}

func (v *attendanceView) loaded(data any) {
	d, ok := data.(attendanceData)
	if !ok {
		return
	}
	v.data = d
	rows := make([]table.Row, len(d.Records))
	for i, r := range d.Records {
		row := table.Row{api.FormatDate(r.Date), string(r.Status), api.OrDash(r.CheckIn), api.OrDash(r.CheckOut), api.OrDash(r.Notes)}
		if v.admin {
			row = append(table.Row{r.Employee.DisplayName()}, row...)
		}
		rows[i] = row
	}
	v.table.SetRows(rows)
	if v.table.Cursor() >= len(rows) {
		v.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (v *attendanceView) loadFailure() string { return "Failed to load attendance" }

func (v *attendanceView) capturing() bool { return false }

func (v *attendanceView) update(msg tea.KeyMsg, e env) (tea.Cmd, *modal) {
	switch msg.String() {
	case "r":
		return v.load(e), nil
	case "m":
		if v.admin {
			return nil, v.markForm()
		}
	case "c":
		if !v.admin && api.NextSelfAction(v.data.Today) != "" {
			return v.checkInOut(e), nil
		}
	}
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return cmd, nil
}

func (v *attendanceView) checkInOut(e env) tea.Cmd {
	return e.act("Attendance updated", "Failed to mark attendance", after{reload: true}, func(ctx context.Context) (string, error) {
		resp, err := e.client.SelfAttendance(ctx)
		if err != nil {
			return "", err
		}
		return resp.Message, nil
	})
}

// pickable lists everyone but the signed-in admin.
func (v *attendanceView) pickable() []huh.Option[string] {
	var opts []huh.Option[string]
	for _, emp := range v.data.Employees {
		if emp.ID == v.selfID {
			continue
		}
		label := emp.Name
		if emp.Department != "" {
			label += " (" + emp.Department + ")"
		}
		opts = append(opts, huh.NewOption(label, emp.ID))
	}
	return opts
}

func (v *attendanceView) markForm() *modal {
	req := &api.MarkAttendanceRequest{
		Date:   v.now().Format("2006-01-02"),
		Status: api.AttendancePresent,
	}
	statuses := make([]huh.Option[api.AttendanceStatus], len(api.AttendanceStatuses))
	for i, st := range api.AttendanceStatuses {
		statuses[i] = huh.NewOption(string(st), st)
	}
	selfID := v.selfID

	return newModal(func(e env) tea.Cmd {
		return e.act("Attendance marked successfully", "Failed to mark attendance", after{reload: true}, func(ctx context.Context) (string, error) {
			return "", e.client.MarkAttendance(ctx, selfID, *req)
		})
	},
		huh.NewGroup(
			huh.NewSelect[string]().Title("Employee").Options(v.pickable()...).Value(&req.EmployeeID),
			huh.NewInput().Title("Date").Placeholder("YYYY-MM-DD").Value(&req.Date),
			huh.NewSelect[api.AttendanceStatus]().Title("Status").Options(statuses...).Value(&req.Status),
			huh.NewInput().Title("Check In").Placeholder("HH:MM").Value(&req.CheckIn),
			huh.NewInput().Title("Check Out").Placeholder("HH:MM").Value(&req.CheckOut),
			huh.NewInput().Title("Notes").Value(&req.Notes),
		).Title("Mark Attendance"),
	)
}

func (v *attendanceView) help() []keyHelp {
	if v.admin {
		return []keyHelp{{"m", "mark attendance"}, {"r", "refresh"}}
	}
	return []keyHelp{{"c", "check in/out"}, {"r", "refresh"}}
}

func (v *attendanceView) render(width, height int, s Styles) string {
	var b strings.Builder
	if !v.admin {
		b.WriteString(s.Muted.Render("Today: "))
		if action := api.NextSelfAction(v.data.Today); action != "" {
			b.WriteString(s.Highlighted.Render(" " + action + " "))
			b.WriteString(s.Muted.Render("  press c"))
		} else {
			b.WriteString(s.Success.Render("Completed"))
		}
		if t := v.data.Today; t != nil {
			b.WriteString(s.Muted.Render("  in " + api.OrDash(t.CheckIn) + "  out " + api.OrDash(t.CheckOut)))
		}
		b.WriteString("\n\n")
	}
	if len(v.data.Records) == 0 {
		b.WriteString(s.Muted.Render("No attendance records"))
		return b.String()
	}
	b.WriteString(renderTable(v.table, height-6))
	return b.String()
}
