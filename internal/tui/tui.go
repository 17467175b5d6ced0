package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"jatrack/internal/api"
)

// Options wires the TUI to the outside world. Logger should write to a file:
// stdout belongs to the terminal UI.
type Options struct {
	Client   *api.Client
	Tokens   api.TokenFile
	PageSize int
	Logger   *zap.Logger
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()

	m := newAppModel(opts.Client, opts.Tokens, opts.PageSize, opts.Logger)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
