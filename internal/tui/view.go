package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/pulsehr/internal/api"
	"github.com/felixgeelhaar/pulsehr/internal/nav"
	"github.com/felixgeelhaar/pulsehr/internal/shell"
)

// env is what a feature view gets to work with: the view scope, the
// session context and a client carrying the token.
type env struct {
	ctx    context.Context
	gen    uint64
	tab    nav.Tab
	vc     shell.ViewContext
	client *api.Client
}

// loadedMsg carries a view's fetch result back to the event loop.
type loadedMsg struct {
	gen  uint64
	tab  nav.Tab
	data any
	err  error
}

// doneMsg is a finished create, update or delete.
type doneMsg struct {
	gen      uint64
	tab      nav.Tab
	success  string
	fallback string
	err      error
	after    after
}

// after lists the follow-ups of a successful action.
type after struct {
	reload        bool
	notifications bool
	profile       bool
}

func (e env) fetch(fn func(ctx context.Context) (any, error)) tea.Cmd {
	return func() tea.Msg {
		data, err := fn(e.ctx)
		return loadedMsg{gen: e.gen, tab: e.tab, data: data, err: err}
	}
}

// act runs fn and reports the outcome. A non-empty string from fn
// replaces the success text.
func (e env) act(success, fallback string, then after, fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		text, err := fn(e.ctx)
		if text == "" {
			text = success
		}
		return doneMsg{gen: e.gen, tab: e.tab, success: text, fallback: fallback, err: err, after: then}
	}
}

// view is one feature screen.
type view interface {
	load(e env) tea.Cmd
	loaded(data any)
	loadFailure() string
	// update handles a key. It returns a modal to open, if any.
	update(msg tea.KeyMsg, e env) (tea.Cmd, *modal)
	// capturing reports whether the view is consuming raw keystrokes.
	capturing() bool
	render(width, height int, s Styles) string
	help() []keyHelp
}

type keyHelp struct{ key, desc string }

// modal is an open huh form and what to do once it completes.
type modal struct {
	form   *huh.Form
	submit func(e env) tea.Cmd
}

func newModal(submit func(e env) tea.Cmd, groups ...*huh.Group) *modal {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel"))

	form := huh.NewForm(groups...).
		WithKeyMap(km).
		WithShowHelp(true).
		WithWidth(60)
	form.SubmitCmd = nil
	form.CancelCmd = nil
	return &modal{form: form, submit: submit}
}

func newTable(cols []table.Column, rows []table.Row) table.Model {
	return table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithStyles(DefaultStyles().TableStyles()),
	)
}

// renderTable draws t fitted to height rows.
func renderTable(t table.Model, height int) string {
	if height < 3 {
		height = 3
	}
	t.SetHeight(height)
	return t.View()
}

// selected returns the row under the cursor in a list mirrored by t.
func selected[T any](t table.Model, list []T) (T, bool) {
	var zero T
	i := t.Cursor()
	if i < 0 || i >= len(list) || len(t.Rows()) == 0 {
		return zero, false
	}
	return list[i], true
}

func newView(tab nav.Tab) view {
	switch tab {
	case nav.Employees:
		return &employeesView{}
	case nav.Attendance:
		return &attendanceView{}
	case nav.Leaves:
		return &leavesView{}
	case nav.Feedback:
		return &feedbackView{}
	case nav.Profile:
		return &profileView{}
	default:
		return &dashboardView{}
	}
}
