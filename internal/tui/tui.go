// Package tui is the terminal front end of the fact board.
package tui

import (
	"context"

	"factboard/internal/app"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Run shows the board until the user quits. The controller must not be used
// by anyone else while the program runs.
func Run(ctx context.Context, ctrl *app.Controller, opts Options, log *zap.Logger) error {
	applyColorProfilePreference()
	applyThemePreference()

	m := newAppModel(ctx, ctrl, opts, log)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
