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

// leaveFilters is the order the status filter cycles through.
var leaveFilters = []api.LeaveStatus{"", api.LeavePending, api.LeaveApproved, api.LeaveRejected}

type leavesView struct {
	admin    bool
	all      []api.Leave
	filtered []api.Leave
	status   api.LeaveStatus
	table    table.Model
	ready    bool
	now      func() time.Time
}

func (v *leavesView) init(admin bool) {
	if v.now == nil {
		v.now = time.Now
	}
	if v.ready {
		return
	}
	v.admin = admin
	cols := []table.Column{
		{Title: "Type", Width: 9},
		{Title: "From", Width: 11},
		{Title: "To", Width: 11},
		{Title: "Reason", Width: 28},
		{Title: "Status", Width: 9},
	}
	if admin {
		cols = append([]table.Column{{Title: "Employee", Width: 20}}, cols...)
	}
	v.table = newTable(cols, nil)
	v.ready = true
}

func (v *leavesView) load(e env) tea.Cmd {
	v.init(e.vc.IsAdmin)
	if e.vc.IsAdmin {
		return e.fetch(func(ctx context.Context) (any, error) {
			return e.client.ListLeaves(ctx)
		})
	}
	return e.fetch(func(ctx context.Context) (any, error) {
		return e.client.EmployeeLeaves(ctx, e.vc.User.ID)
	})
}

func (v *leavesView) loaded(data any) {
	if list, ok := data.([]api.Leave); ok {
		v.all = list
		v.refilter()
	}
}

func (v *leavesView) refilter() {
	v.filtered = v.filtered[:0]
	for _, l := range v.all {
		if v.status == "" || l.Status == v.status {
			v.filtered = append(v.filtered, l)
		}
	}
	rows := make([]table.Row, len(v.filtered))
	for i, l := range v.filtered {
		row := table.Row{string(l.LeaveType), api.FormatDate(l.StartDate), api.FormatDate(l.EndDate), l.Reason, string(l.Status)}
		if v.admin {
			row = append(table.Row{l.Employee.DisplayName()}, row...)
		}
		rows[i] = row
	}
	v.table.SetRows(rows)
	if v.table.Cursor() >= len(rows) {
		v.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (v *leavesView) loadFailure() string { return "Failed to load leave requests" }

func (v *leavesView) capturing() bool { return false }

func (v *leavesView) cycleStatus() {
	for i, st := range leaveFilters {
		if st == v.status {
			v.status = leaveFilters[(i+1)%len(leaveFilters)]
			break
		}
	}
	v.refilter()
}

func (v *leavesView) update(msg tea.KeyMsg, e env) (tea.Cmd, *modal) {
	switch msg.String() {
	case "r":
		return v.load(e), nil
	case "f":
		v.cycleStatus()
		return nil, nil
	case "n":
		if !v.admin {
			return nil, v.applyForm(e.vc.User.ID)
		}
	case "a", "x":
		if !v.admin {
			break
		}
		l, ok := selected(v.table, v.filtered)
		if !ok || l.Status != api.LeavePending {
			return nil, nil
		}
		status := api.LeaveApproved
		if msg.String() == "x" {
			status = api.LeaveRejected
		}
		return v.setStatus(e, l.ID, status), nil
	}
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return cmd, nil
}

func (v *leavesView) setStatus(e env, id string, status api.LeaveStatus) tea.Cmd {
	return e.act("Leave "+string(status)+" successfully", "Failed to update leave status",
		after{reload: true, notifications: true},
		func(ctx context.Context) (string, error) {
			return "", e.client.SetLeaveStatus(ctx, id, status)
		})
}

func (v *leavesView) applyForm(employeeID string) *modal {
	today := v.now().Format("2006-01-02")
	req := &api.LeaveRequest{
		EmployeeID: employeeID,
		LeaveType:  api.LeaveCasual,
		StartDate:  today,
		EndDate:    today,
	}
	types := make([]huh.Option[api.LeaveType], len(api.LeaveTypes))
	for i, t := range api.LeaveTypes {
		types[i] = huh.NewOption(strings.ToUpper(string(t[:1]))+string(t[1:]), t)
	}

	return newModal(func(e env) tea.Cmd {
		return e.act("Leave request submitted successfully", "Failed to submit leave request",
			after{reload: true, notifications: true},
			func(ctx context.Context) (string, error) {
				return "", e.client.ApplyLeave(ctx, *req)
			})
	},
		huh.NewGroup(
			huh.NewSelect[api.LeaveType]().Title("Leave Type").Options(types...).Value(&req.LeaveType),
			huh.NewInput().Title("Start Date").Placeholder("YYYY-MM-DD").Value(&req.StartDate),
			huh.NewInput().Title("End Date").Placeholder("YYYY-MM-DD").Value(&req.EndDate),
			huh.NewText().Title("Reason").Value(&req.Reason),
		).Title("Apply for Leave"),
	)
}

func (v *leavesView) help() []keyHelp {
	if v.admin {
		return []keyHelp{{"a", "approve"}, {"x", "reject"}, {"f", "filter"}, {"r", "refresh"}}
	}
	return []keyHelp{{"n", "apply"}, {"f", "filter"}, {"r", "refresh"}}
}

func (v *leavesView) render(width, height int, s Styles) string {
	var b strings.Builder
	filter := "All"
	if v.status != "" {
		filter = string(v.status)
	}
	b.WriteString(s.Muted.Render("Status: ") + s.Status.Render(filter))
	if n := api.CountLeaves(v.all, api.LeavePending); n > 0 {
		b.WriteString(s.Warning.Render("   " + pluralize(n, "pending request")))
	}
	b.WriteString("\n\n")
	if len(v.filtered) == 0 {
		b.WriteString(s.Muted.Render("No leave requests"))
		return b.String()
	}
	b.WriteString(renderTable(v.table, height-6))
	return b.String()
}
