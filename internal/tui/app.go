package tui

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/pulsehr/internal/api"
	"github.com/felixgeelhaar/pulsehr/internal/log"
	"github.com/felixgeelhaar/pulsehr/internal/nav"
	"github.com/felixgeelhaar/pulsehr/internal/notify"
	"github.com/felixgeelhaar/pulsehr/internal/session"
	"github.com/felixgeelhaar/pulsehr/internal/shell"
)

type screen int

const (
	screenLoading screen = iota
	screenAuth
	screenShell
)

// Options wires the application together. Client must not carry a token;
// the app derives token-bearing clients from the session.
type Options struct {
	Client     *api.Client
	Store      *session.Store
	Controller *shell.Controller
	Bus        *shell.PointerBus
	Notifier   *notify.Aggregator
	Logger     *log.Logger
	Toaster    Toaster
	// NotifyInterval re-runs aggregation while signed in. Zero disables
	// polling; notifications still refresh on login and after leave actions.
	NotifyInterval time.Duration
}

type profileMsg struct {
	user *api.UserProfile
	err  error
}

type notificationsMsg struct {
	token string
	list  []notify.Notification
}

type notifyTickMsg struct{ seq int }

// App is the root bubbletea model: the auth screens and the shell.
type App struct {
	ctx        context.Context
	client     *api.Client
	store      *session.Store
	controller *shell.Controller
	bus        *shell.PointerBus
	notifier   *notify.Aggregator
	logger     *log.Logger
	toaster    Toaster
	interval   time.Duration
	styles     Styles

	screen    screen
	authMode  authMode
	authBusy  bool
	lastEmail string
	modal     *modal
	modalEnv  env
	spinner   spinner.Model

	view    view
	tab     nav.Tab
	viewEnv env

	notifySeq   int
	panelCursor int

	width, height int
	quitting      bool
}

func NewApp(ctx context.Context, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = log.DefaultLogger()
	}
	if opts.Toaster == nil {
		opts.Toaster = NewStatusToaster(ToastDuration)
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.New(opts.Logger, nil)
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		ctx:        ctx,
		client:     opts.Client,
		store:      opts.Store,
		controller: opts.Controller,
		bus:        opts.Bus,
		notifier:   opts.Notifier,
		logger:     opts.Logger.With("component", "tui"),
		toaster:    opts.Toaster,
		interval:   opts.NotifyInterval,
		styles:     DefaultStyles(),
		spinner:    sp,
		width:      100,
		height:     30,
	}
}

// Init restores the saved session. A saved token is resolved before the
// shell is shown; without one the login form opens.
func (a *App) Init() tea.Cmd {
	s := a.store.Restore(a.ctx)
	if !s.Authenticated() {
		return a.showAuth(authLogin)
	}
	a.screen = screenLoading
	return tea.Batch(a.spinner.Tick, a.resolveProfile())
}

func (a *App) resolveProfile() tea.Cmd {
	return func() tea.Msg {
		user, err := a.store.ResolveProfile(a.ctx)
		return profileMsg{user: user, err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		if a.modal != nil {
			cmd = a.updateModal(msg)
		}

	case tea.KeyMsg:
		cmd = a.handleKey(msg)

	case tea.MouseMsg:
		cmd = a.handleMouse(msg)

	case spinner.TickMsg:
		if a.screen == screenLoading {
			a.spinner, cmd = a.spinner.Update(msg)
		}

	case toastExpiredMsg:
		a.toaster.Expire(msg.id)

	case profileMsg:
		cmd = a.onProfile(msg)

	case loginMsg:
		cmd = a.onLogin(msg)

	case registerMsg:
		cmd = a.onRegister(msg)

	case notificationsMsg:
		if s := a.store.Current(); s.Resolved() && s.Token == msg.token {
			a.controller.SetNotifications(msg.list)
		}

	case notifyTickMsg:
		if msg.seq == a.notifySeq && a.screen == screenShell {
			cmd = tea.Batch(a.refreshNotifications(), a.scheduleNotify())
		}

	case loadedMsg:
		cmd = a.onLoaded(msg)

	case doneMsg:
		cmd = a.onDone(msg)

	default:
		if a.modal != nil {
			cmd = a.updateModal(msg)
		}
	}

	return a, tea.Batch(cmd, a.sync())
}

// sync reconciles the screen with the session and the controller: a
// session lost behind our back returns to login, and a tab change opens
// the new view.
func (a *App) sync() tea.Cmd {
	if a.quitting {
		return nil
	}
	if a.screen == screenShell {
		if !a.store.Current().Resolved() {
			return a.showAuth(authLogin)
		}
		if a.controller.ActiveTab() != a.tab {
			return a.openView()
		}
	}
	a.controller.SetPanelBounds(a.layout().panel)
	return nil
}

func (a *App) enterShell() tea.Cmd {
	a.screen = screenShell
	a.modal = nil
	a.panelCursor = 0
	a.notifySeq++
	return tea.Batch(a.openView(), a.refreshNotifications(), a.scheduleNotify())
}

// openView starts a fresh scope for the active tab and loads it.
func (a *App) openView() tea.Cmd {
	tab, ok := a.controller.Visible()
	a.tab = a.controller.ActiveTab()
	if !ok {
		a.view = nil
		return nil
	}
	vc, ok := a.controller.Context()
	if !ok {
		a.view = nil
		return nil
	}
	ctx, gen := a.controller.BeginView(tab)
	a.viewEnv = env{ctx: ctx, gen: gen, tab: tab, vc: vc, client: a.client.WithToken(vc.Token)}
	a.modal = nil
	a.view = newView(tab)
	return a.view.load(a.viewEnv)
}

func (a *App) onProfile(msg profileMsg) tea.Cmd {
	switch {
	case msg.err == nil:
		if a.screen != screenShell {
			return a.enterShell()
		}
		if a.tab == nav.Profile {
			return a.openView()
		}
		return nil
	case stderrors.Is(msg.err, context.Canceled):
		return nil
	case stderrors.Is(msg.err, session.ErrProfileUnavailable):
		return tea.Batch(a.toaster.Show(ToastError, "Error connecting to server"), a.showAuth(authLogin))
	default:
		// Rejected token: the store has already logged out.
		return a.showAuth(authLogin)
	}
}

func (a *App) refreshNotifications() tea.Cmd {
	s := a.store.Current()
	if !s.Resolved() {
		return nil
	}
	token, user := s.Token, *s.User
	client := a.client.WithToken(token)
	return func() tea.Msg {
		return notificationsMsg{token: token, list: a.notifier.Refresh(a.ctx, client, &user)}
	}
}

func (a *App) scheduleNotify() tea.Cmd {
	if a.interval <= 0 {
		return nil
	}
	seq := a.notifySeq
	return tea.Tick(a.interval, func(time.Time) tea.Msg { return notifyTickMsg{seq: seq} })
}

// stale reports whether a view result arrived after its view was left.
func (a *App) stale(gen uint64, tab nav.Tab) bool {
	return a.view == nil || tab != a.tab || !a.controller.Current(gen)
}

func (a *App) onLoaded(msg loadedMsg) tea.Cmd {
	if a.stale(msg.gen, msg.tab) {
		return nil
	}
	if msg.err != nil {
		return a.failure(msg.err, a.view.loadFailure())
	}
	a.view.loaded(msg.data)
	return nil
}

func (a *App) onDone(msg doneMsg) tea.Cmd {
	if msg.err != nil {
		return a.failure(msg.err, msg.fallback)
	}
	cmds := []tea.Cmd{a.toaster.Show(ToastSuccess, msg.success)}
	if msg.after.reload && !a.stale(msg.gen, msg.tab) {
		cmds = append(cmds, a.view.load(a.viewEnv))
	}
	if msg.after.notifications {
		cmds = append(cmds, a.refreshNotifications())
	}
	if msg.after.profile {
		cmds = append(cmds, a.resolveProfile())
	}
	return tea.Batch(cmds...)
}

// failure reports a feature-level error. A rejected token logs out
// silently; cancellation is ignored; anything else is toasted.
func (a *App) failure(err error, fallback string) tea.Cmd {
	switch {
	case stderrors.Is(err, context.Canceled):
		return nil
	case api.IsUnauthorized(err) && !isForbidden(err):
		a.logger.WithError(err).Info("token rejected, logging out")
		_ = a.controller.Logout()
		return a.showAuth(authLogin)
	}
	a.logger.WithError(err).Warn("view request failed", "tab", string(a.tab))
	return a.toaster.Show(ToastError, api.UserMessage(err, fallback))
}

func isForbidden(err error) bool {
	var ae *api.APIError
	return stderrors.As(err, &ae) && ae.StatusCode == 403
}

func (a *App) openModal(m *modal, e env) tea.Cmd {
	a.modal = m
	a.modalEnv = e
	return m.form.Init()
}

func (a *App) updateModal(msg tea.Msg) tea.Cmd {
	model, cmd := a.modal.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		a.modal.form = f
	}

	switch a.modal.form.State {
	case huh.StateCompleted:
		m := a.modal
		a.modal = nil
		if a.screen == screenAuth {
			a.authBusy = true
		}
		return tea.Batch(cmd, m.submit(a.modalEnv))
	case huh.StateAborted:
		a.modal = nil
		if a.screen == screenAuth {
			return a.showAuth(a.authMode)
		}
	}
	return cmd
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		a.quitting = true
		return tea.Quit
	}

	if a.screen == screenAuth {
		if msg.String() == "ctrl+t" && !a.authBusy {
			if a.authMode == authLogin {
				return a.showAuth(authRegister)
			}
			return a.showAuth(authLogin)
		}
		if a.modal != nil {
			return a.updateModal(msg)
		}
		return nil
	}

	if a.screen != screenShell {
		return nil
	}
	if a.modal != nil {
		return a.updateModal(msg)
	}
	if a.view != nil && a.view.capturing() {
		cmd, m := a.view.update(msg, a.viewEnv)
		return a.withModal(cmd, m)
	}

	if a.controller.State().PanelOpen {
		if handled, cmd := a.handlePanelKey(msg); handled {
			return cmd
		}
	}

	switch key := msg.String(); key {
	case "q":
		a.quitting = true
		return tea.Quit
	case "s":
		a.controller.ToggleSidebar()
	case "b":
		a.panelCursor = 0
		a.controller.TogglePanel()
	case "p":
		a.controller.ClickAvatar()
	case "L":
		_ = a.controller.Logout()
		return a.showAuth(authLogin)
	case "tab", "shift+tab":
		a.cycleTab(key == "tab")
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		items := a.menu()
		if i := int(key[0] - '1'); i < len(items) {
			a.controller.Select(items[i].Key)
		}
	default:
		if a.view != nil {
			cmd, m := a.view.update(msg, a.viewEnv)
			return a.withModal(cmd, m)
		}
	}
	return nil
}

func (a *App) withModal(cmd tea.Cmd, m *modal) tea.Cmd {
	if m == nil {
		return cmd
	}
	return tea.Batch(cmd, a.openModal(m, a.viewEnv))
}

func (a *App) handlePanelKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	list := a.controller.Notifications()
	switch msg.String() {
	case "esc", "b":
		a.controller.ClosePanel()
	case "up", "k":
		if a.panelCursor > 0 {
			a.panelCursor--
		}
	case "down", "j":
		if a.panelCursor < len(list)-1 {
			a.panelCursor++
		}
	case "enter":
		if a.panelCursor < len(list) {
			a.controller.OpenNotification(list[a.panelCursor])
		}
	default:
		return false, nil
	}
	return true, nil
}

// menu is the sidebar for the signed-in role, bottom items included.
func (a *App) menu() []nav.Item {
	var role api.Role
	if s := a.store.Current(); s.User != nil {
		role = s.User.Role
	}
	return append(nav.ItemsFor(role), nav.Bottom()...)
}

func (a *App) cycleTab(forward bool) {
	items := nav.ItemsFor(a.roleOrEmpty())
	items = append(items, nav.Item{Key: nav.Profile})
	cur := 0
	for i, it := range items {
		if it.Key == a.controller.ActiveTab() {
			cur = i
		}
	}
	step := 1
	if !forward {
		step = len(items) - 1
	}
	a.controller.Select(items[(cur+step)%len(items)].Key)
}

func (a *App) roleOrEmpty() api.Role {
	if s := a.store.Current(); s.User != nil {
		return s.User.Role
	}
	return ""
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	if a.screen != screenShell || a.modal != nil {
		return nil
	}

	l := a.layout()
	panelWasOpen := a.controller.State().PanelOpen
	a.bus.Dispatch(shell.PointerEvent{X: msg.X, Y: msg.Y})

	switch {
	case l.bell.Contains(msg.X, msg.Y):
		a.panelCursor = 0
		a.controller.TogglePanel()
		return nil
	case l.avatar.Contains(msg.X, msg.Y):
		a.controller.ClickAvatar()
		return nil
	}

	if panelWasOpen {
		list := a.controller.Notifications()
		for _, hit := range l.notes {
			if hit.rect.Contains(msg.X, msg.Y) && hit.index < len(list) {
				a.controller.OpenNotification(list[hit.index])
				return nil
			}
		}
	}

	for _, hit := range l.items {
		if hit.rect.Contains(msg.X, msg.Y) {
			if hit.tab == nav.Logout {
				_ = a.controller.Logout()
				return a.showAuth(authLogin)
			}
			a.controller.Select(hit.tab)
			return nil
		}
	}
	return nil
}
