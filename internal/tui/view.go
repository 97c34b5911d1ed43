package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor = lipgloss.Color("#A78BFA") // Purple
	errorColor   = lipgloss.Color("#F87171") // Red
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray
	borderColor  = lipgloss.Color("#6B7280") // Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)
)

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return "bye\n"
	}
	if !m.ready {
		return "starting...\n"
	}

	p := m.renderHooks()

	var b strings.Builder
	b.WriteString(titleStyle.Render("teaiter demo"))
	b.WriteString("\n")
	b.WriteString(m.clockPanel(p))
	b.WriteString("\n")
	b.WriteString(m.notesPanel(p))
	if m.cfg.Watch.Enabled {
		b.WriteString("\n")
		b.WriteString(m.eventsPanel(p))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("enter: add note • +/-: clock speed • esc: quit"))
	return b.String()
}

func (m Model) clockPanel(p panels) string {
	var body string
	switch {
	case !p.clock.Valid:
		body = mutedStyle.Render("waiting for first tick...")
	case p.clock.Err != nil:
		body = errorStyle.Render(fmt.Sprintf("clock failed: %v", p.clock.Err))
	default:
		body = p.clock.Result.Value.Format("15:04:05.000")
	}
	header := headerStyle.Render(fmt.Sprintf("clock (every %s)", m.interval))
	return panelStyle.Render(header + "\n" + body)
}

func (m Model) notesPanel(p panels) string {
	header := headerStyle.Render("notes")
	var body string
	switch {
	case p.notes.Err != nil:
		body = errorStyle.Render(fmt.Sprintf("notes failed: %v", p.notes.Err))
	case !p.notes.Valid || len(p.notes.Result.Value) == 0:
		body = mutedStyle.Render("no notes yet")
	default:
		body = strings.Join(p.notes.Result.Value, "\n")
	}
	return panelStyle.Render(header + "\n" + body)
}

func (m Model) eventsPanel(p panels) string {
	header := headerStyle.Render("file events")
	var body string
	switch {
	case p.events.Err != nil:
		body = errorStyle.Render(fmt.Sprintf("watcher failed: %v", p.events.Err))
	case !p.events.Valid || len(p.events.Result.Value) == 0:
		body = mutedStyle.Render("no activity")
	default:
		body = strings.Join(p.events.Result.Value, "\n")
	}
	return panelStyle.Render(header + "\n" + body)
}
