// Package shell is the application shell's state machine, independent of
// any UI toolkit: which section is active, whether the sidebar is
// expanded, whether the notification panel is open, and the context
// handed to feature views.
package shell

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/pulsehr/internal/api"
	"github.com/felixgeelhaar/pulsehr/internal/nav"
	"github.com/felixgeelhaar/pulsehr/internal/notify"
	"github.com/felixgeelhaar/pulsehr/internal/session"
)

// ViewContext is everything a feature view may know about the session.
// Views read it; they never reach into the session store.
type ViewContext struct {
	Token   string
	User    api.UserProfile
	IsAdmin bool
}

// UIState is the shell's presentational state.
type UIState struct {
	ActiveTab       nav.Tab
	SidebarExpanded bool
	PanelOpen       bool
}

// DefaultUIState is the state after start-up and after every logout.
func DefaultUIState() UIState {
	return UIState{ActiveTab: nav.Dashboard}
}

type Controller struct {
	mu sync.Mutex

	store *session.Store
	bus   *PointerBus
	base  context.Context

	ui            UIState
	panelBounds   Rect
	panelSub      *Subscription
	notifications []notify.Notification

	viewCancel context.CancelFunc
	generation uint64

	unsubscribe func()
	closed      bool
}

// NewController wires a controller to the session store and pointer bus.
// base bounds every view scope; cancelling it cancels all view work.
// Callers must Close the controller.
func NewController(base context.Context, store *session.Store, bus *PointerBus) *Controller {
	c := &Controller{
		store: store,
		bus:   bus,
		base:  base,
		ui:    DefaultUIState(),
	}
	c.unsubscribe = store.OnChange(func(s session.Session) {
		if !s.Authenticated() {
			c.reset()
		}
	})
	return c
}

// State returns a copy of the UI state.
func (c *Controller) State() UIState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ui
}

func (c *Controller) ActiveTab() nav.Tab {
	return c.State().ActiveTab
}

// Context returns the view context, or false when no profile is resolved.
func (c *Controller) Context() (ViewContext, bool) {
	s := c.store.Current()
	if !s.Resolved() {
		return ViewContext{}, false
	}
	return ViewContext{Token: s.Token, User: *s.User, IsAdmin: s.IsAdmin()}, true
}

// Select makes tab active. It refuses unknown tabs and tabs the current
// role may not open. Selecting Logout logs out.
func (c *Controller) Select(tab nav.Tab) bool {
	if tab == nav.Logout {
		_ = c.Logout()
		return true
	}
	if !nav.Valid(tab) {
		return false
	}
	role := api.Role("")
	if s := c.store.Current(); s.User != nil {
		role = s.User.Role
	}
	if !nav.CanAccess(role, tab) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ui.ActiveTab = tab
	return true
}

// ClickAvatar opens the profile.
func (c *Controller) ClickAvatar() {
	c.Select(nav.Profile)
}

// OpenNotification jumps to the notification's section and closes the panel.
func (c *Controller) OpenNotification(n notify.Notification) {
	c.Select(n.SourceTab)
	c.ClosePanel()
}

func (c *Controller) ToggleSidebar() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ui.SidebarExpanded = !c.ui.SidebarExpanded
}

// TogglePanel opens or closes the notification panel.
func (c *Controller) TogglePanel() {
	if c.State().PanelOpen {
		c.ClosePanel()
		return
	}
	c.OpenPanel()
}

// OpenPanel opens the panel and subscribes to pointer presses so that a
// press outside PanelBounds closes it.
func (c *Controller) OpenPanel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ui.PanelOpen || c.closed {
		return
	}
	c.ui.PanelOpen = true
	c.panelSub = c.bus.Subscribe(c.onPointer)
}

// ClosePanel closes the panel and releases its pointer subscription.
func (c *Controller) ClosePanel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closePanelLocked()
}

func (c *Controller) closePanelLocked() {
	c.ui.PanelOpen = false
	c.panelSub.Release()
	c.panelSub = nil
}

// SetPanelBounds records where the panel (including its bell toggle) is
// drawn. The renderer calls it on every layout.
func (c *Controller) SetPanelBounds(r Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.panelBounds = r
}

func (c *Controller) onPointer(ev PointerEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ui.PanelOpen || c.panelBounds.Contains(ev.X, ev.Y) {
		return
	}
	c.closePanelLocked()
}

// Visible returns the tab to render. It returns false when nothing may be
// rendered: no resolved profile, or Employees for a non-admin.
func (c *Controller) Visible() (nav.Tab, bool) {
	s := c.store.Current()
	if !s.Resolved() {
		return "", false
	}
	tab := c.ActiveTab()
	if !nav.CanAccess(s.User.Role, tab) {
		return "", false
	}
	return tab, true
}

// SetNotifications replaces the notification list.
func (c *Controller) SetNotifications(list []notify.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = append([]notify.Notification(nil), list...)
}

func (c *Controller) Notifications() []notify.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notify.Notification(nil), c.notifications...)
}

// Badge is the count on the bell.
func (c *Controller) Badge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return notify.Badge(c.notifications)
}

// BeginView starts a scope for the view about to load tab's data. The
// previous scope is cancelled. Results must be checked with Current
// before they are applied.
func (c *Controller) BeginView(tab nav.Tab) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.viewCancel != nil {
		c.viewCancel()
	}
	ctx, cancel := context.WithCancel(c.base)
	if c.closed {
		cancel()
	}
	c.viewCancel = cancel
	c.generation++
	return ctx, c.generation
}

// Current reports whether gen is still the live view scope.
func (c *Controller) Current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && gen == c.generation
}

// Logout resets the UI to its defaults and clears the session.
func (c *Controller) Logout() error {
	c.reset()
	return c.store.Logout()
}

func (c *Controller) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closePanelLocked()
	c.ui = DefaultUIState()
	c.notifications = nil
	c.endViewLocked()
}

func (c *Controller) endViewLocked() {
	if c.viewCancel != nil {
		c.viewCancel()
		c.viewCancel = nil
	}
	c.generation++
}

// Close releases the pointer subscription, cancels the view scope and
// detaches from the session store. It is safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.closePanelLocked()
	c.endViewLocked()
	unsubscribe := c.unsubscribe
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
