package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastDuration is how long a toast stays on the status line.
const ToastDuration = 4 * time.Second

type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastError
)

type Toast struct {
	ID   int
	Kind ToastKind
	Text string
}

// Toaster shows transient messages. Show returns the command that will
// expire the toast.
type Toaster interface {
	Show(kind ToastKind, text string) tea.Cmd
	Current() (Toast, bool)
	Expire(id int)
}

// toastExpiredMsg clears toast ID if it is still showing.
type toastExpiredMsg struct{ id int }

// StatusToaster keeps a single toast on the status line. A newer toast
// replaces the current one; an older expiry never clears a newer toast.
type StatusToaster struct {
	ttl     time.Duration
	nextID  int
	current *Toast
}

func NewStatusToaster(ttl time.Duration) *StatusToaster {
	if ttl <= 0 {
		ttl = ToastDuration
	}
	return &StatusToaster{ttl: ttl}
}

func (t *StatusToaster) Show(kind ToastKind, text string) tea.Cmd {
	if text == "" {
		return nil
	}
	t.nextID++
	id := t.nextID
	t.current = &Toast{ID: id, Kind: kind, Text: text}
	return tea.Tick(t.ttl, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

func (t *StatusToaster) Current() (Toast, bool) {
	if t.current == nil {
		return Toast{}, false
	}
	return *t.current, true
}

// Expire removes toast id if it is the one showing.
func (t *StatusToaster) Expire(id int) {
	if t.current != nil && t.current.ID == id {
		t.current = nil
	}
}
