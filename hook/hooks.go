package hook

import (
	"context"
	"fmt"

	"github.com/Iron-Ham/teaiter/repeater"
	"github.com/Iron-Ham/teaiter/stream"
)

// UseResult mounts factory's iterator at the call site identified by key
// and returns the latest observed result on every render.
//
// On the first call for a key the factory is invoked once and a background
// consumption loop starts; subsequent calls only feed dependency changes
// (detected by shallow comparison of deps) into the running iterator and
// project the stored state. Results arrive in production order; rapid
// results may coalesce into a single render, which then observes the most
// recent one.
func UseResult[T any](s *Scope, key string, factory Factory[T], deps ...any) Latest[T] {
	b := mountBinding(s, "UseResult", key, factory, Deps(deps), true)
	return b.snapshot()
}

// UseValue is UseResult collapsed to the value: it returns the most recent
// value produced (terminal or not; the zero value before the first
// emission) and the sequence's error once it has failed.
func UseValue[T any](s *Scope, key string, factory Factory[T], deps ...any) (T, error) {
	l := UseResult(s, key, factory, deps...)
	if l.Err != nil {
		var zero T
		return zero, l.Err
	}
	return l.Result.Value, nil
}

// UseAsyncIter invokes factory once per mount and returns the resulting
// iterator without consuming it. Ownership of pulling passes to the caller:
// typically another call site's factory captures the iterator by closure
// and consumes it there. Only one consumption loop may pull from the
// returned iterator at a time.
//
// A factory failure is surfaced through the returned iterator, which then
// yields the failure on every pull.
func UseAsyncIter[T any](s *Scope, key string, factory Factory[T], deps ...any) stream.Iterator[T] {
	b := mountBinding(s, "UseAsyncIter", key, factory, Deps(deps), false)
	return b.iter
}

// UseRepeater creates one [repeater.Repeater] on first call and returns the
// same instance on every render: an iterator view plus push and stop
// controls. The repeater is stopped when the scope unmounts. Malformed
// repeater options are caller misuse and panic.
func UseRepeater[T any](s *Scope, key string, opts ...repeater.Option) (stream.Iterator[T], func(context.Context, T) error, func()) {
	s.mu.Lock()
	s.mustLiveLocked("UseRepeater", key)

	if existing, ok := s.slots[key]; ok {
		rs, ok := existing.(*repeaterSlot[T])
		if !ok {
			s.mu.Unlock()
			panic(fmt.Sprintf("hook: UseRepeater key %q already in use as %s", key, existing.describe()))
		}
		s.mu.Unlock()
		return rs.r, rs.r.Push, rs.r.Stop
	}

	r, err := repeater.New[T](opts...)
	if err != nil {
		s.mu.Unlock()
		panic(fmt.Sprintf("hook: UseRepeater key %q: %v", key, err))
	}
	rs := &repeaterSlot[T]{r: r}
	s.registerLocked(key, rs)
	s.mu.Unlock()

	s.logger.Debug("repeater mounted", "hook", key)
	return r, r.Push, r.Stop
}

// mountBinding returns the binding for key, creating and mounting it on
// first use. consume selects whether the binding runs its own consumption
// loop (UseResult/UseValue) or hands the iterator to the caller
// (UseAsyncIter).
func mountBinding[T any](s *Scope, hookName, key string, factory Factory[T], deps Deps, consume bool) *binding[T] {
	s.mu.Lock()
	s.mustLiveLocked(hookName, key)

	if existing, ok := s.slots[key]; ok {
		b, ok := existing.(*binding[T])
		if !ok || b.consume != consume {
			s.mu.Unlock()
			panic(fmt.Sprintf("hook: %s key %q already in use as %s", hookName, key, existing.describe()))
		}
		s.mu.Unlock()
		b.updateDeps(deps)
		return b
	}

	b := newBinding[T](s, key, consume)
	s.registerLocked(key, b)
	s.mu.Unlock()

	// Hook calls are render-driven and single-goroutine per scope, so the
	// slot cannot be observed between registration and mount.
	b.mount(factory, deps)
	return b
}

// repeaterSlot holds a per-mount repeater instance.
type repeaterSlot[T any] struct {
	r *repeater.Repeater[T]
}

func (rs *repeaterSlot[T]) teardown() {
	rs.r.Stop()
}

func (rs *repeaterSlot[T]) phaseName() string {
	if rs.r.Stopped() {
		return "stopped"
	}
	return "live"
}

func (rs *repeaterSlot[T]) describe() string {
	return fmt.Sprintf("repeater hook (%T)", rs)
}
