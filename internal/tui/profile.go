package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/pulsehr/internal/api"
)

// profileView shows the signed-in user. It has nothing to fetch: the
// profile comes with the view context and is reloaded after an edit.
type profileView struct {
	user api.UserProfile
}

func (v *profileView) load(e env) tea.Cmd {
	v.user = e.vc.User
	return nil
}

func (v *profileView) loaded(any) {}

func (v *profileView) loadFailure() string { return "Failed to load profile" }

func (v *profileView) capturing() bool { return false }

func (v *profileView) update(msg tea.KeyMsg, e env) (tea.Cmd, *modal) {
	if msg.String() == "e" {
		return nil, v.editForm()
	}
	return nil, nil
}

func (v *profileView) editForm() *modal {
	req := &api.ProfileUpdate{
		Name:       v.user.Name,
		Phone:      v.user.Phone,
		Department: v.user.Department,
		Position:   v.user.Position,
	}
	id := v.user.ID

	return newModal(func(e env) tea.Cmd {
		return e.act("Profile updated successfully!", "Failed to update profile", after{profile: true}, func(ctx context.Context) (string, error) {
			return "", e.client.UpdateProfile(ctx, id, *req)
		})
	},
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&req.Name),
			huh.NewInput().Title("Phone").Value(&req.Phone),
			huh.NewInput().Title("Department").Value(&req.Department),
			huh.NewInput().Title("Position").Value(&req.Position),
			huh.NewInput().Title("New Password (optional)").EchoMode(huh.EchoModePassword).Value(&req.Password),
		).Title("Edit Profile"),
	)
}

func (v *profileView) help() []keyHelp {
	return []keyHelp{{"e", "edit"}}
}

func (v *profileView) render(width, height int, s Styles) string {
	u := v.user
	lines := []string{
		s.Avatar.Render(" "+u.Initials()+" ") + "  " + s.Title.Render(u.Name),
		s.Muted.Render(string(u.Role)),
		"",
		s.Muted.Render("Email:      ") + u.Email,
		s.Muted.Render("Phone:      ") + api.OrDash(u.Phone),
		s.Muted.Render("Department: ") + api.OrDash(u.Department),
		s.Muted.Render("Position:   ") + api.OrDash(u.Position),
		s.Muted.Render("Status:     ") + s.statusStyle(u.DisplayStatus()).Render(u.DisplayStatus()),
	}
	return s.Card.Render(strings.Join(lines, "\n"))
}
