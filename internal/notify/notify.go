// Package notify turns pending leave requests and unreviewed feedback into
// the notifications shown behind the bell.
package notify

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/pulsehr/internal/api"
	"github.com/felixgeelhaar/pulsehr/internal/log"
	"github.com/felixgeelhaar/pulsehr/internal/nav"
)

type Category string

const (
	Warning Category = "warning"
	Info    Category = "info"
)

const (
	LeavesID   = "leaves"
	FeedbackID = "feedback"
)

// Notification is derived, never stored. Each refresh replaces the list.
type Notification struct {
	ID        string   `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	Message   string   `json:"message" yaml:"message"`
	Category  Category `json:"category" yaml:"category"`
	SourceTab nav.Tab  `json:"source_tab" yaml:"source_tab"`
}

// Source is the part of the API the aggregator reads. *api.Client with a
// token satisfies it.
type Source interface {
	ListLeaves(ctx context.Context) ([]api.Leave, error)
	EmployeeLeaves(ctx context.Context, employeeID string) ([]api.Leave, error)
	PendingFeedbackCount(ctx context.Context) (int, error)
}

// Recorder is told the outcome of each refresh.
type Recorder interface {
	NotificationsRefreshed(count, failures int)
}

type Aggregator struct {
	logger   *log.Logger
	recorder Recorder
}

func New(logger *log.Logger, recorder Recorder) *Aggregator {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Aggregator{logger: logger.With("component", "notify"), recorder: recorder}
}

// Refresh builds a fresh list for user. Fetch failures are logged and
// skipped, so the result may be partial or empty but never an error. The
// leave notification, when present, always comes first. The feedback
// count is requested for admins only.
func (a *Aggregator) Refresh(ctx context.Context, src Source, user *api.UserProfile) []Notification {
	if user == nil {
		return nil
	}

	var (
		out      []Notification
		failures int
		leaves   []api.Leave
		err      error
	)

	if user.Role.IsAdmin() {
		leaves, err = src.ListLeaves(ctx)
	} else {
		leaves, err = src.EmployeeLeaves(ctx, user.ID)
	}
	if err != nil {
		failures++
		a.logger.WithError(err).Warn("failed to load leaves for notifications")
	} else if n := api.CountLeaves(leaves, api.LeavePending); n > 0 {
		out = append(out, Notification{
			ID:        LeavesID,
			Title:     "Pending Leave Requests",
			Message:   fmt.Sprintf("%d leave request(s) awaiting approval", n),
			Category:  Warning,
			SourceTab: nav.Leaves,
		})
	}

	if user.Role.IsAdmin() {
		count, err := src.PendingFeedbackCount(ctx)
		if err != nil {
			failures++
			a.logger.WithError(err).Warn("failed to load feedback count for notifications")
		} else if count > 0 {
			out = append(out, Notification{
				ID:        FeedbackID,
				Title:     "New Feedback",
				Message:   fmt.Sprintf("%d feedback item(s) pending review", count),
				Category:  Info,
				SourceTab: nav.Feedback,
			})
		}
	}

	if a.recorder != nil {
		a.recorder.NotificationsRefreshed(len(out), failures)
	}
	return out
}

// Badge is the number shown on the bell.
func Badge(list []Notification) int {
	return len(list)
}
