// Package tui is a small dashboard that demonstrates driving a Bubbletea
// program from hook-bound streams: a retunable clock, a note log fed by a
// push channel, and an optional filesystem event panel.
package tui

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/Iron-Ham/teaiter/internal/config"
	"github.com/Iron-Ham/teaiter/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
}

// New creates a new TUI application
func New(cfg *config.Config, logger *logging.Logger) *App {
	return &App{
		model: NewModel(cfg, logger),
	}
}

// Run starts the TUI application and blocks until it exits
func (a *App) Run() error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	// The program exists now, so hook invalidations can reach it
	a.model.notifier.Attach(a.program.Send)

	// Translate termination signals into a clean quit
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		<-sigChan
		if a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	_, err := a.program.Run()

	signal.Stop(sigChan)

	// The quit path unmounts the scope; cover exits that skipped it
	if a.model.scope.Mounted() {
		a.model.scope.Unmount()
	}

	return err
}
