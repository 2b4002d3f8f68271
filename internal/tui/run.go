package tui

import (
	"context"
	stderrors "errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows app full-screen with mouse reporting until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, app *App, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	}, opts...)

	_, err := tea.NewProgram(app, opts...).Run()
	if stderrors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
