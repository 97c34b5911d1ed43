package stream

import (
	"context"
	"sync"
)

// Signal is a resolve-once advisory cancellation signal.
//
// A Signal starts pending. Resolve moves it to the resolved state and
// releases every waiter blocked on Done; calling Resolve again has no
// further effect. There is no error state: resolution only ever means
// "the consumer wants the producer to stop", and it is the producer's
// responsibility to observe it.
//
// A Signal is safe for concurrent use.
type Signal struct {
	once sync.Once
	done chan struct{}
}

// NewSignal creates a pending Signal.
func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Resolve settles the signal, releasing all waiters. Idempotent.
func (s *Signal) Resolve() {
	s.once.Do(func() { close(s.done) })
}

// Done returns a channel that is closed once the signal resolves.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// Resolved reports whether Resolve has been called.
func (s *Signal) Resolved() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Context derives a context that is cancelled when the signal resolves or
// when parent is done, whichever happens first. The returned cancel func
// releases the bridging goroutine and should always be called.
func (s *Signal) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-s.done:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
