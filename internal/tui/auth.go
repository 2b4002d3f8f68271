package tui

import (
	"context"
	stderrors "errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/pulsehr/internal/api"
)

type authMode int

const (
	authLogin authMode = iota
	authRegister
)

type loginMsg struct {
	resp *api.LoginResponse
	err  error
}

type registerMsg struct {
	message string
	err     error
}

// authFailure is the toast text for a failed login or registration.
// Network failures get a fixed text; rejections show the server message.
func authFailure(err error, fallback string) string {
	var te *api.TransportError
	if stderrors.As(err, &te) {
		return "Error connecting to server"
	}
	return api.UserMessage(err, fallback)
}

func loginForm(email string) *modal {
	req := &api.LoginRequest{Email: email}
	return newModal(func(e env) tea.Cmd {
		return func() tea.Msg {
			resp, err := e.client.Login(e.ctx, *req)
			return loginMsg{resp: resp, err: err}
		}
	},
		huh.NewGroup(
			huh.NewInput().Title("Email").Placeholder("you@company.com").Value(&req.Email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&req.Password),
		).Title("Sign in to PulseHR").Description("ctrl+t to create an account"),
	)
}

func registerForm() *modal {
	req := &api.RegisterRequest{Role: api.RoleEmployee}
	return newModal(func(e env) tea.Cmd {
		return func() tea.Msg {
			msg, err := e.client.Register(e.ctx, *req)
			return registerMsg{message: msg, err: err}
		}
	},
		huh.NewGroup(
			huh.NewInput().Title("Full Name").Value(&req.Name),
			huh.NewInput().Title("Email").Value(&req.Email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&req.Password),
			huh.NewSelect[api.Role]().Title("Role").
				Options(huh.NewOption("Employee", api.RoleEmployee), huh.NewOption("Admin", api.RoleAdmin)).
				Value(&req.Role),
		).Title("Create Account").Description("ctrl+t to sign in instead"),
		huh.NewGroup(
			huh.NewInput().Title("Department").Value(&req.Department),
			huh.NewInput().Title("Position").Value(&req.Position),
			huh.NewInput().Title("Phone").Value(&req.Phone),
		).Title("Work Details"),
	)
}

func (a *App) authEnv() env {
	return env{ctx: a.ctx, client: a.client}
}

// showAuth replaces whatever is on screen with the login or register form.
func (a *App) showAuth(mode authMode) tea.Cmd {
	a.screen = screenAuth
	a.authMode = mode
	a.authBusy = false
	a.view = nil
	a.tab = ""
	if mode == authRegister {
		return a.openModal(registerForm(), a.authEnv())
	}
	return a.openModal(loginForm(a.lastEmail), a.authEnv())
}

func (a *App) onLogin(msg loginMsg) tea.Cmd {
	a.authBusy = false
	if msg.err != nil {
		if stderrors.Is(msg.err, context.Canceled) {
			return nil
		}
		a.logger.WithError(msg.err).Info("login failed")
		return tea.Batch(a.toaster.Show(ToastError, authFailure(msg.err, "Login failed")), a.showAuth(authLogin))
	}
	if err := a.store.Login(msg.resp.Token, msg.resp.Employee); err != nil && !a.store.Current().Authenticated() {
		return tea.Batch(a.toaster.Show(ToastError, api.UserMessage(err, "Login failed")), a.showAuth(authLogin))
	}
	a.lastEmail = msg.resp.Employee.Email
	return tea.Batch(a.toaster.Show(ToastSuccess, "Login successful!"), a.enterShell())
}

func (a *App) onRegister(msg registerMsg) tea.Cmd {
	a.authBusy = false
	if msg.err != nil {
		if stderrors.Is(msg.err, context.Canceled) {
			return nil
		}
		return tea.Batch(a.toaster.Show(ToastError, authFailure(msg.err, "Registration failed")), a.showAuth(authRegister))
	}
	return tea.Batch(a.toaster.Show(ToastSuccess, "Registration successful! Please login."), a.showAuth(authLogin))
}
