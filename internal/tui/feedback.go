package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/pulsehr/internal/api"
)

type feedbackView struct {
	admin bool
	items []api.Feedback
	table table.Model
	open  *api.Feedback
	ready bool
}

func (v *feedbackView) init(admin bool) {
	if v.ready {
		return
	}
	v.admin = admin
	cols := []table.Column{{Title: "Type", Width: 11}, {Title: "Subject", Width: 28}}
	if admin {
		cols = append(cols, table.Column{Title: "From", Width: 18})
	}
	cols = append(cols, table.Column{Title: "Status", Width: 10}, table.Column{Title: "Date", Width: 11})
	v.table = newTable(cols, nil)
	v.ready = true
}

func (v *feedbackView) load(e env) tea.Cmd {
	v.init(e.vc.IsAdmin)
	if e.vc.IsAdmin {
		return e.fetch(func(ctx context.Context) (any, error) {
			return e.client.ListFeedback(ctx)
		})
	}
	return e.fetch(func(ctx context.Context) (any, error) {
		return e.client.MyFeedback(ctx)
	})
}

func (v *feedbackView) loaded(data any) {
	list, ok := data.([]api.Feedback)
	if !ok {
		return
	}
	v.items = list
	rows := make([]table.Row, len(list))
	for i, fb := range list {
		row := table.Row{string(fb.Type), fb.Subject, api.OrDash(fb.Status), api.FormatDate(fb.CreatedAt)}
		if v.admin {
			row = table.Row{string(fb.Type), fb.Subject, fb.Author(), api.OrDash(fb.Status), api.FormatDate(fb.CreatedAt)}
		}
		rows[i] = row
	}
	v.table.SetRows(rows)
	if v.table.Cursor() >= len(rows) {
		v.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (v *feedbackView) loadFailure() string { return "Failed to load feedback" }

func (v *feedbackView) capturing() bool { return false }

func (v *feedbackView) update(msg tea.KeyMsg, e env) (tea.Cmd, *modal) {
	switch msg.String() {
	case "r":
		return v.load(e), nil
	case "n":
		if !v.admin {
			return nil, v.submitForm()
		}
	case "enter":
		if fb, ok := selected(v.table, v.items); ok {
			v.open = &fb
		}
		return nil, nil
	case "esc":
		v.open = nil
		return nil, nil
	}
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return cmd, nil
}

func (v *feedbackView) submitForm() *modal {
	req := &api.FeedbackRequest{Type: api.FeedbackGeneral}
	types := []huh.Option[api.FeedbackType]{
		huh.NewOption("Feedback", api.FeedbackGeneral),
		huh.NewOption("Complaint", api.FeedbackComplaint),
		huh.NewOption("Suggestion", api.FeedbackSuggestion),
	}

	return newModal(func(e env) tea.Cmd {
		return e.act("Feedback submitted successfully!", "Failed to submit feedback", after{reload: true}, func(ctx context.Context) (string, error) {
			return "", e.client.SubmitFeedback(ctx, *req)
		})
	},
		huh.NewGroup(
			huh.NewSelect[api.FeedbackType]().Title("Type").Options(types...).Value(&req.Type),
			huh.NewInput().Title("Subject").Value(&req.Subject),
			huh.NewText().Title("Message").Value(&req.Message),
			huh.NewConfirm().Title("Submit anonymously?").Value(&req.IsAnonymous),
		).Title("Submit Feedback"),
	)
}

func (v *feedbackView) help() []keyHelp {
	if v.admin {
		return []keyHelp{{"enter", "read"}, {"r", "refresh"}}
	}
	return []keyHelp{{"n", "add"}, {"enter", "read"}, {"r", "refresh"}}
}

func (v *feedbackView) render(width, height int, s Styles) string {
	var b strings.Builder
	if v.admin {
		b.WriteString(s.Status.Render("All Feedback"))
	} else {
		b.WriteString(s.Status.Render("My Feedback"))
		b.WriteString(s.Muted.Render("   n to add"))
	}
	b.WriteString("\n\n")

	if len(v.items) == 0 {
		b.WriteString(s.Muted.Render("No feedback yet"))
		return b.String()
	}
	b.WriteString(renderTable(v.table, height-8))

	if fb := v.open; fb != nil {
		b.WriteString("\n")
		b.WriteString(s.Card.Width(min(max(width-4, 20), 80)).Render(
			s.Title.Render(fb.Subject) + "\n" +
				s.Muted.Render(string(fb.Type)+" from "+fb.Author()) + "\n\n" +
				fb.Message,
		))
	}
	return b.String()
}
