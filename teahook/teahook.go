// Package teahook connects a hook Scope to a Bubbletea program.
//
// The hook layer requests re-renders through a plain callback; in a
// Bubbletea application the equivalent is sending a message to the running
// program so its Update/View cycle runs again. [Notifier] bridges the two:
// it turns invalidate calls into [RefreshMsg] sends, coalescing bursts so a
// fast-producing iterator schedules at most one pending refresh at a time.
//
// Typical wiring, following the usual two-phase program construction
// (the model is built before the program exists):
//
//	notifier := teahook.NewNotifier()
//	model := newModel(hook.NewScope(notifier.Invalidate))
//
//	p := tea.NewProgram(model)
//	notifier.Attach(p.Send)
//	_, err := p.Run()
//
// Inside Update, handle [RefreshMsg] by calling [Notifier.Flush] and
// returning the model unchanged; Bubbletea re-runs View, which re-reads the
// hooks' latest results.
package teahook

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// RefreshMsg asks the program to re-render because a mounted iterator
// produced a new result. It carries no payload: the model re-reads the
// latest results from its hooks.
type RefreshMsg struct{}

// Notifier coalesces invalidate calls into RefreshMsg sends.
//
// Between a send and the matching [Notifier.Flush], further invalidates are
// dropped; the render that follows the flush observes the most recent
// results regardless of how many arrived in between. Invalidate calls that
// happen before Attach are remembered and delivered once a send function is
// available.
type Notifier struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	pending bool
}

// NewNotifier creates a detached Notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Attach supplies the program's Send function. If an invalidate arrived
// while detached, a refresh is sent immediately.
func (n *Notifier) Attach(send func(tea.Msg)) {
	n.mu.Lock()
	n.send = send
	deliver := n.pending && send != nil
	n.mu.Unlock()

	if deliver {
		send(RefreshMsg{})
	}
}

// Invalidate schedules a refresh. Safe to call from any goroutine.
func (n *Notifier) Invalidate() {
	n.mu.Lock()
	if n.pending {
		n.mu.Unlock()
		return
	}
	n.pending = true
	send := n.send
	n.mu.Unlock()

	if send != nil {
		send(RefreshMsg{})
	}
}

// Flush acknowledges a delivered refresh, re-arming the notifier. Call it
// when handling [RefreshMsg] in Update.
func (n *Notifier) Flush() {
	n.mu.Lock()
	n.pending = false
	n.mu.Unlock()
}
