package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/pulsehr/internal/api"
)

type dashboardView struct {
	admin    bool
	name     string
	stats    *api.DashboardStats
	personal *api.EmployeeStats
}

func (v *dashboardView) load(e env) tea.Cmd {
	v.admin = e.vc.IsAdmin
	v.name = e.vc.User.Name
	if e.vc.IsAdmin {
		return e.fetch(func(ctx context.Context) (any, error) {
			return e.client.Dashboard(ctx)
		})
	}
	return e.fetch(func(ctx context.Context) (any, error) {
		stats, err := e.client.EmployeeDashboard(ctx, e.vc.User.ID)
		if err != nil {
			return nil, err
		}
		return &stats, nil
	})
}

func (v *dashboardView) loaded(data any) {
	switch d := data.(type) {
	case *api.DashboardStats:
		v.stats = d
	case *api.EmployeeStats:
		v.personal = d
	}
}

func (v *dashboardView) loadFailure() string { return "Failed to load dashboard data" }

func (v *dashboardView) update(msg tea.KeyMsg, e env) (tea.Cmd, *modal) {
	if msg.String() == "r" {
		return v.load(e), nil
	}
	return nil, nil
}

func (v *dashboardView) capturing() bool { return false }

func (v *dashboardView) help() []keyHelp {
	return []keyHelp{{"r", "refresh"}}
}

func (v *dashboardView) render(width, height int, s Styles) string {
	if v.admin {
		return v.renderAdmin(s)
	}
	return v.renderEmployee(height, s)
}

func card(s Styles, label string, value int) string {
	return s.Card.Render(s.Muted.Render(label) + "\n" + s.Title.Render(fmt.Sprint(value)))
}

func (v *dashboardView) renderAdmin(s Styles) string {
	if v.stats == nil {
		return s.Muted.Render("Loading...")
	}
	st := v.stats
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card(s, "Total Employees", st.TotalEmployees),
		card(s, "Present Today", st.PresentToday),
		card(s, "Pending Leaves", st.LeaveStats.Pending),
		card(s, "Approved Leaves", st.LeaveStats.Approved),
	)

	var b strings.Builder
	b.WriteString(cards)
	b.WriteString("\n\n")
	b.WriteString(s.Status.Render("Employees by Department"))
	b.WriteString("\n")
	if len(st.EmployeesByDepartment) == 0 {
		b.WriteString(s.Muted.Render("No department data"))
	}
	for _, d := range st.EmployeesByDepartment {
		name := d.Department
		if name == "" {
			name = "Unassigned"
		}
		fmt.Fprintf(&b, "  %-24s %s\n", name, s.Muted.Render(fmt.Sprint(d.Count)))
	}
	return b.String()
}

func (v *dashboardView) renderEmployee(height int, s Styles) string {
	var b strings.Builder
	b.WriteString(s.Title.Render(fmt.Sprintf("Welcome back, %s!", v.name)))
	b.WriteString("\n\n")
	if v.personal == nil {
		b.WriteString(s.Muted.Render("Loading..."))
		return b.String()
	}
	st := v.personal
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		card(s, "Present Days", st.PresentDays),
		card(s, "Pending Leaves", st.PendingLeaves),
		card(s, "Approved Leaves", st.ApprovedLeaves),
	))
	b.WriteString("\n\n")
	b.WriteString(s.Status.Render("Recent Attendance"))
	b.WriteString("\n")
	if len(st.RecentAttendance) == 0 {
		b.WriteString(s.Muted.Render("No attendance records yet"))
		return b.String()
	}
	rows := make([]table.Row, len(st.RecentAttendance))
	for i, r := range st.RecentAttendance {
		rows[i] = table.Row{api.FormatDate(r.Date), string(r.Status), api.OrDash(r.CheckIn), api.OrDash(r.CheckOut)}
	}
	t := newTable([]table.Column{
		{Title: "Date", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Check In", Width: 10},
		{Title: "Check Out", Width: 10},
	}, rows)
	t.Blur()
	b.WriteString(renderTable(t, min(len(rows)+1, height-10)))
	return b.String()
}
