package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/pulsehr/internal/api"
)

// employeeDetail is the GET /employees/{id} result.
type employeeDetail struct{ employee *api.Employee }

type employeesView struct {
	all      []api.Employee
	filtered []api.Employee
	filter   api.EmployeeFilter
	search   textinput.Model
	table    table.Model
	detail   *api.Employee
	ready    bool
}

var employeeColumns = []table.Column{
	{Title: "Name", Width: 20},
	{Title: "Email", Width: 26},
	{Title: "Department", Width: 14},
	{Title: "Position", Width: 16},
	{Title: "Role", Width: 9},
	{Title: "Status", Width: 9},
}

func (v *employeesView) init() {
	if v.ready {
		return
	}
	v.search = textinput.New()
	v.search.Placeholder = "Search by name, email or position"
	v.search.Prompt = "/ "
	v.table = newTable(employeeColumns, nil)
	v.ready = true
}

func (v *employeesView) load(e env) tea.Cmd {
	v.init()
	return e.fetch(func(ctx context.Context) (any, error) {
		return e.client.ListEmployees(ctx)
	})
}

func (v *employeesView) loaded(data any) {
	v.init()
	switch d := data.(type) {
	case []api.Employee:
		v.all = d
		v.refilter()
	case employeeDetail:
		v.detail = d.employee
	}
}

func (v *employeesView) loadFailure() string { return "Failed to load employees" }

func (v *employeesView) refilter() {
	v.filtered = v.filter.Apply(v.all)
	rows := make([]table.Row, len(v.filtered))
	for i, emp := range v.filtered {
		rows[i] = table.Row{emp.Name, emp.Email, api.OrDash(emp.Department), api.OrDash(emp.Position), string(emp.Role), emp.DisplayStatus()}
	}
	v.table.SetRows(rows)
	if v.table.Cursor() >= len(rows) {
		v.table.SetCursor(max(len(rows)-1, 0))
	}
}

// cycleDepartment steps the department filter through "all" and each
// department present in the list.
func (v *employeesView) cycleDepartment() {
	depts := api.Departments(v.all)
	next := ""
	if v.filter.Department == "" {
		if len(depts) > 0 {
			next = depts[0]
		}
	} else {
		for i, d := range depts {
			if d == v.filter.Department && i+1 < len(depts) {
				next = depts[i+1]
			}
		}
	}
	v.filter.Department = next
	v.refilter()
}

func (v *employeesView) capturing() bool { return v.search.Focused() }

func (v *employeesView) update(msg tea.KeyMsg, e env) (tea.Cmd, *modal) {
	v.init()
	if v.search.Focused() {
		switch msg.String() {
		case "enter", "esc":
			v.search.Blur()
			return nil, nil
		}
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		v.filter.Search = v.search.Value()
		v.refilter()
		return cmd, nil
	}

	switch msg.String() {
	case "/":
		return v.search.Focus(), nil
	case "d":
		v.cycleDepartment()
		return nil, nil
	case "r":
		return v.load(e), nil
	case "n":
		return nil, v.form(nil)
	case "e":
		if emp, ok := selected(v.table, v.filtered); ok {
			return nil, v.form(&emp)
		}
		return nil, nil
	case "x":
		if emp, ok := selected(v.table, v.filtered); ok {
			return nil, v.confirmDelete(emp)
		}
		return nil, nil
	case "enter":
		emp, ok := selected(v.table, v.filtered)
		if !ok {
			return nil, nil
		}
		return e.fetch(func(ctx context.Context) (any, error) {
			got, err := e.client.GetEmployee(ctx, emp.ID)
			if err != nil {
				return nil, err
			}
			return employeeDetail{employee: got}, nil
		}), nil
	case "esc":
		v.detail = nil
		return nil, nil
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return cmd, nil
}

// form opens the add form, or the edit form when existing is set.
func (v *employeesView) form(existing *api.Employee) *modal {
	req := &api.EmployeeRequest{Role: api.RoleEmployee}
	title := "Add Employee"
	if existing != nil {
		title = "Edit Employee"
		req.Name = existing.Name
		req.Email = existing.Email
		req.Department = existing.Department
		req.Position = existing.Position
		req.Phone = existing.Phone
		req.Role = existing.Role
	}
	passwordTitle := "Password"
	if existing != nil {
		passwordTitle = "Password (leave blank to keep)"
	}

	return newModal(func(e env) tea.Cmd {
		if existing == nil {
			return e.act("Employee added!", "Operation failed", after{reload: true}, func(ctx context.Context) (string, error) {
				return "", e.client.CreateEmployee(ctx, *req)
			})
		}
		id := existing.ID
		return e.act("Employee updated!", "Operation failed", after{reload: true}, func(ctx context.Context) (string, error) {
			return "", e.client.UpdateEmployee(ctx, id, *req)
		})
	},
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&req.Name),
			huh.NewInput().Title("Email").Value(&req.Email),
			huh.NewInput().Title(passwordTitle).EchoMode(huh.EchoModePassword).Value(&req.Password),
			huh.NewInput().Title("Department").Value(&req.Department),
			huh.NewInput().Title("Position").Value(&req.Position),
			huh.NewInput().Title("Phone").Value(&req.Phone),
			huh.NewSelect[api.Role]().Title("Role").
				Options(huh.NewOption("Employee", api.RoleEmployee), huh.NewOption("Admin", api.RoleAdmin)).
				Value(&req.Role),
		).Title(title),
	)
}

func (v *employeesView) confirmDelete(emp api.Employee) *modal {
	confirmed := false
	return newModal(func(e env) tea.Cmd {
		if !confirmed {
			return nil
		}
		return e.act("Employee deleted successfully", "Operation failed", after{reload: true}, func(ctx context.Context) (string, error) {
			return "", e.client.DeleteEmployee(ctx, emp.ID)
		})
	},
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s?", emp.Name)).
				Description("Are you sure you want to delete this employee?").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		),
	)
}

func (v *employeesView) help() []keyHelp {
	return []keyHelp{{"/", "search"}, {"d", "department"}, {"n", "add"}, {"e", "edit"}, {"x", "delete"}, {"enter", "details"}}
}

func (v *employeesView) render(width, height int, s Styles) string {
	v.init()
	var b strings.Builder

	dept := v.filter.Department
	if dept == "" {
		dept = "All Departments"
	}
	b.WriteString(v.search.View())
	b.WriteString("   ")
	b.WriteString(s.Muted.Render("Department: ") + s.Status.Render(dept))
	b.WriteString("\n\n")

	if len(v.filtered) == 0 {
		b.WriteString(s.Muted.Render("No employees found"))
	} else {
		b.WriteString(renderTable(v.table, height-8))
	}

	if d := v.detail; d != nil {
		b.WriteString("\n")
		b.WriteString(s.Card.Render(strings.Join([]string{
			s.Title.Render(d.Name),
			s.Muted.Render("Email: ") + d.Email,
			s.Muted.Render("Phone: ") + api.OrDash(d.Phone),
			s.Muted.Render("Department: ") + api.OrDash(d.Department),
			s.Muted.Render("Position: ") + api.OrDash(d.Position),
			s.Muted.Render("Joined: ") + api.FormatDate(d.JoinDate),
		}, "\n")))
	}
	return b.String()
}
