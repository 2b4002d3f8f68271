package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/pulsehr/internal/nav"
	"github.com/felixgeelhaar/pulsehr/internal/notify"
	"github.com/felixgeelhaar/pulsehr/internal/shell"
)

const (
	sidebarExpandedWidth  = 20
	sidebarCollapsedWidth = 5
	panelWidth            = 44
	// sidebarTop is the first row of menu items: the header is row 0 and
	// row 1 is blank.
	sidebarTop = 2
)

type navHit struct {
	tab  nav.Tab
	rect shell.Rect
}

type noteHit struct {
	index int
	rect  shell.Rect
}

// screenLayout is where things are drawn. View renders from it and the
// mouse handler hit-tests against it, so the two always agree.
type screenLayout struct {
	bell, avatar shell.Rect
	items        []navHit
	panel        shell.Rect
	notes        []noteHit
	sidebarWidth int
	contentWidth int
	bodyHeight   int
}

func (a *App) bellLabel() string {
	return fmt.Sprintf("⚑ %d", a.controller.Badge())
}

func (a *App) avatarLabel() string {
	initials := "?"
	if s := a.store.Current(); s.User != nil {
		initials = s.User.Initials()
	}
	return " " + initials + " "
}

func (a *App) layout() screenLayout {
	var l screenLayout
	state := a.controller.State()

	bellW := lipgloss.Width(a.bellLabel())
	avatarW := lipgloss.Width(a.avatarLabel())
	l.avatar = shell.Rect{X: a.width - avatarW, Y: 0, Width: avatarW, Height: 1}
	l.bell = shell.Rect{X: a.width - avatarW - 2 - bellW, Y: 0, Width: bellW, Height: 1}

	l.sidebarWidth = sidebarCollapsedWidth
	if state.SidebarExpanded {
		l.sidebarWidth = sidebarExpandedWidth
	}
	top := nav.ItemsFor(a.roleOrEmpty())
	for i, it := range top {
		l.items = append(l.items, navHit{tab: it.Key, rect: shell.Rect{X: 0, Y: sidebarTop + i, Width: l.sidebarWidth, Height: 1}})
	}
	for j, it := range nav.Bottom() {
		y := sidebarTop + len(top) + 1 + j
		l.items = append(l.items, navHit{tab: it.Key, rect: shell.Rect{X: 0, Y: y, Width: l.sidebarWidth, Height: 1}})
	}

	// status line at the bottom, header at the top
	l.bodyHeight = max(a.height-2, 1)
	l.contentWidth = a.width - l.sidebarWidth

	if state.PanelOpen {
		n := len(a.controller.Notifications())
		panelX := a.width - panelWidth
		// border, title, two rows per notification (or the empty line), border
		panelH := 2 + 1 + max(2*n, 1)
		left := min(panelX, l.bell.X)
		l.panel = shell.Rect{X: left, Y: 0, Width: a.width - left, Height: 1 + panelH}
		for i := 0; i < n; i++ {
			l.notes = append(l.notes, noteHit{index: i, rect: shell.Rect{X: panelX, Y: 3 + 2*i, Width: panelWidth, Height: 2}})
		}
		l.contentWidth -= panelWidth
	} else {
		l.panel = shell.Rect{X: l.bell.X, Y: 0, Width: l.bell.Width, Height: 1}
	}
	return l
}

// View renders the TUI (required by Bubble Tea)
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	switch a.screen {
	case screenLoading:
		return a.spinner.View() + " Loading your profile..." + "\n" + a.renderStatus()
	case screenAuth:
		return a.renderAuth()
	default:
		return a.renderShell()
	}
}

func (a *App) renderAuth() string {
	s := a.styles
	var b strings.Builder
	b.WriteString(s.Title.Render("PulseHR"))
	b.WriteString(s.Subtitle.Render("  Human resources, in your terminal"))
	b.WriteString("\n\n")
	switch {
	case a.authBusy:
		b.WriteString(s.Muted.Render("Please wait..."))
	case a.modal != nil:
		b.WriteString(a.modal.form.View())
	}
	b.WriteString("\n")
	b.WriteString(a.renderStatus())
	return b.String()
}

func (a *App) renderShell() string {
	l := a.layout()
	state := a.controller.State()

	body := []string{a.renderSidebar(l, state.SidebarExpanded), a.renderContent(l)}
	if state.PanelOpen {
		body = append(body, a.renderPanel())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.renderHeader(l),
		lipgloss.JoinHorizontal(lipgloss.Top, body...),
		a.renderStatus(),
	)
}

func (a *App) renderHeader(l screenLayout) string {
	s := a.styles
	left := s.Title.Render("PulseHR") + s.Muted.Render(" · ") + s.Status.Render(nav.Title(a.controller.ActiveTab()))

	bell := s.Muted.Render(a.bellLabel())
	if a.controller.Badge() > 0 {
		bell = s.Warning.Render(a.bellLabel())
	}
	right := bell + "  " + s.Avatar.Render(a.avatarLabel())

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (a *App) renderSidebar(l screenLayout, expanded bool) string {
	s := a.styles
	active := a.controller.ActiveTab()

	line := func(it nav.Item) string {
		text := " " + it.Icon
		if expanded {
			text += " " + it.Label
		}
		if it.Key == active {
			return s.Highlighted.Render(text)
		}
		return text
	}

	lines := []string{""}
	for _, it := range nav.ItemsFor(a.roleOrEmpty()) {
		lines = append(lines, line(it))
	}
	lines = append(lines, "")
	for _, it := range nav.Bottom() {
		lines = append(lines, line(it))
	}

	return s.Sidebar.
		Width(l.sidebarWidth - 1).
		Height(l.bodyHeight - 1).
		Render(strings.Join(lines, "\n"))
}

func (a *App) renderContent(l screenLayout) string {
	s := a.styles
	width := max(l.contentWidth-2, 10)
	var b strings.Builder

	switch {
	case a.modal != nil:
		b.WriteString(a.modal.form.View())
	case a.view == nil:
		b.WriteString(s.Muted.Render("This section is not available for your account."))
	default:
		b.WriteString(s.Title.Render(nav.Title(a.tab)))
		b.WriteString("\n\n")
		b.WriteString(a.view.render(width, l.bodyHeight-3, s))
	}

	return lipgloss.NewStyle().
		Width(max(l.contentWidth, 12)).
		MaxHeight(l.bodyHeight).
		PaddingLeft(1).
		Render(b.String())
}

func (a *App) renderPanel() string {
	s := a.styles
	list := a.controller.Notifications()

	lines := []string{s.Status.Render("Notifications")}
	if len(list) == 0 {
		lines = append(lines, s.Muted.Render("No new notifications"))
	}
	for i, n := range list {
		title := n.Title
		style := s.Status
		if n.Category == notify.Warning {
			style = s.Warning
		}
		marker := "  "
		if i == a.panelCursor {
			marker = "> "
		}
		lines = append(lines,
			marker+style.Render(title),
			"  "+s.Muted.Render(n.Message+" · Now"),
		)
	}
	return s.Border.Width(panelWidth - 2).Render(strings.Join(lines, "\n"))
}

func (a *App) renderStatus() string {
	s := a.styles
	if t, ok := a.toaster.Current(); ok {
		switch t.Kind {
		case ToastError:
			return s.Error.Render("✗ " + t.Text)
		case ToastSuccess:
			return s.Success.Render("✓ " + t.Text)
		default:
			return s.Status.Render(t.Text)
		}
	}
	return a.renderHelpLine()
}

func (a *App) renderHelpLine() string {
	s := a.styles
	var keys []keyHelp
	switch {
	case a.screen == screenAuth:
		keys = []keyHelp{{"ctrl+t", "login/register"}, {"esc", "reset"}, {"ctrl+c", "quit"}}
	case a.modal != nil:
		keys = []keyHelp{{"enter", "next"}, {"esc", "cancel"}}
	case a.screen == screenShell:
		keys = []keyHelp{{"tab", "section"}, {"b", "notifications"}, {"s", "sidebar"}, {"p", "profile"}, {"L", "logout"}, {"q", "quit"}}
		if a.view != nil {
			keys = append(a.view.help(), keys...)
		}
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = s.Key.Render(k.key) + " " + s.KeyDesc.Render(k.desc)
	}
	return strings.Join(parts, s.Muted.Render(" • "))
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
