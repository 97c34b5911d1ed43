package hook

import (
	"context"
	"slices"
	"sync"

	"github.com/Iron-Ham/teaiter/stream"
)

// Deps is a dependency snapshot: the values a hook call site declared on its
// most recent render. Snapshots are compared element-wise with ==, so
// dependency values must be comparable (strings, numbers, pointers, small
// comparable structs); an uncomparable value is caller misuse and panics at
// the comparison site.
type Deps []any

// shallowEqual reports element-wise equality without recursing into values.
func shallowEqual(a, b Deps) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// depTracker feeds dependency snapshots to a running iterator. It is a
// latest-value conflating stream: snapshots that arrive between pulls
// replace each other rather than queueing, and shallow-equal updates are
// dropped. Closing the tracker completes the stream, which is how factory
// bodies blocked on deps observe unmount.
type depTracker struct {
	mu      sync.Mutex
	current Deps
	pending *Deps
	closed  bool

	notify chan struct{}
	done   chan struct{}
}

func newDepTracker(initial Deps) *depTracker {
	return &depTracker{
		current: slices.Clone(initial),
		notify:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// set records a new snapshot if it differs from the last one seen. The
// snapshot is cloned so later caller mutation cannot leak in.
func (t *depTracker) set(next Deps) {
	t.mu.Lock()
	if t.closed || shallowEqual(t.current, next) {
		t.mu.Unlock()
		return
	}
	snap := slices.Clone(next)
	t.current = snap
	t.pending = &snap
	t.mu.Unlock()

	select {
	case t.notify <- struct{}{}:
	default:
	}
}

// close completes the stream. Idempotent.
func (t *depTracker) close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.mu.Unlock()
	close(t.done)
}

// Next implements [stream.Iterator]. A pending snapshot is delivered before
// completion is reported, so a change immediately followed by unmount is
// still observable.
func (t *depTracker) Next(ctx context.Context) (stream.Result[Deps], error) {
	for {
		t.mu.Lock()
		if t.pending != nil {
			snap := *t.pending
			t.pending = nil
			t.mu.Unlock()
			return stream.Result[Deps]{Value: snap}, nil
		}
		if t.closed {
			t.mu.Unlock()
			return stream.Result[Deps]{Done: true}, nil
		}
		t.mu.Unlock()

		select {
		case <-t.notify:
		case <-t.done:
		case <-ctx.Done():
			return stream.Result[Deps]{}, ctx.Err()
		}
	}
}
