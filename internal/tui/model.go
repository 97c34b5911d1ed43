package tui

import (
	"context"
	"strings"
	"time"

	"github.com/Iron-Ham/teaiter/hook"
	"github.com/Iron-Ham/teaiter/internal/config"
	"github.com/Iron-Ham/teaiter/internal/logging"
	"github.com/Iron-Ham/teaiter/repeater"
	"github.com/Iron-Ham/teaiter/teahook"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// minTickInterval is the fastest clock rate reachable with the +/- keys.
const minTickInterval = 100 * time.Millisecond

// Model holds the TUI application state
type Model struct {
	cfg      *config.Config
	logger   *logging.Logger
	scope    *hook.Scope
	notifier *teahook.Notifier

	input textinput.Model

	// interval is the current clock rate. It starts at the configured value
	// and is adjusted live with the +/- keys.
	interval time.Duration

	width    int
	height   int
	ready    bool
	quitting bool
	errMsg   string
}

// NewModel creates a new TUI model. Hook state is rooted in a single scope
// whose invalidations are bridged to the program through the notifier.
func NewModel(cfg *config.Config, logger *logging.Logger) Model {
	notifier := teahook.NewNotifier()
	scope := hook.NewScope(notifier.Invalidate,
		hook.WithLogger(logger.WithComponent("tui").Slog()))

	input := textinput.New()
	input.Placeholder = "jot a note and press enter"
	input.CharLimit = 120
	input.Focus()

	return Model{
		cfg:      cfg,
		logger:   logger,
		scope:    scope,
		notifier: notifier,
		input:    input,
		interval: cfg.TUI.TickInterval(),
	}
}

// panels is the result of one pass over every hook call site.
type panels struct {
	clock  hook.Latest[time.Time]
	notes  hook.Latest[[]string]
	events hook.Latest[[]string]
}

// renderHooks runs every hook call site once. Call sites are keyed, so
// repeated passes observe the same bindings; only the first pass mounts them.
func (m Model) renderHooks() panels {
	var p panels

	noteIter, _, _ := hook.UseRepeater[string](m.scope, "notes", m.noteOptions()...)
	p.notes = hook.UseResult(m.scope, "noteLog", foldNotes(noteIter))

	p.clock = hook.UseResult(m.scope, "clock", clockFactory(m.interval), m.interval)

	if m.cfg.Watch.Enabled {
		p.events = hook.UseResult(m.scope, "fileEvents",
			foldEvents(m.cfg.TUI.MaxEventLines, m.cfg.Watch.Paths...))
	}

	return p
}

// noteOptions translates the notes config into repeater options
func (m Model) noteOptions() []repeater.Option {
	if m.cfg.Notes.Capacity <= 0 {
		return nil
	}
	policy := repeater.OverflowBlock
	switch m.cfg.Notes.Overflow {
	case "drop_oldest":
		policy = repeater.OverflowDropOldest
	case "drop_newest":
		policy = repeater.OverflowDropNewest
	}
	return []repeater.Option{repeater.WithCapacity(m.cfg.Notes.Capacity, policy)}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case teahook.RefreshMsg:
		// Re-arm the notifier so the next hook result triggers another frame
		m.notifier.Flush()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeypress(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		m.scope.Unmount()
		return m, tea.Quit

	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.errMsg = ""
		if err := m.pushNote(text); err != nil {
			m.errMsg = err.Error()
		}
		m.input.Reset()
		return m, nil

	case "+", "=":
		if m.interval > minTickInterval {
			m.interval -= minTickInterval
		}
		return m, nil

	case "-", "_":
		m.interval += minTickInterval
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// pushNote delivers a note to the channel behind the notes panel. A bounded
// blocking channel could stall the UI on a full buffer, so the push is
// bounded by a short deadline instead.
func (m Model) pushNote(text string) error {
	_, push, _ := hook.UseRepeater[string](m.scope, "notes", m.noteOptions()...)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := push(ctx, text); err != nil {
		m.logger.Warn("note push failed", "error", err)
		return err
	}
	return nil
}
