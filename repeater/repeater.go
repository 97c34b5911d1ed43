package repeater

import (
	"context"
	"errors"
	"sync"

	"github.com/Iron-Ham/teaiter/stream"
)

// ErrStopped is returned by Push after Stop, unless the repeater was built
// with [WithIgnoreAfterStop].
var ErrStopped = errors.New("repeater: push after stop")

// Repeater is a push/stop-controlled async iterator. See the package
// documentation for buffering and stop semantics.
type Repeater[T any] struct {
	cfg config

	mu      sync.Mutex
	buf     []T
	stopped bool
	final   *T

	// FIFO queues of parked operations, woken in order.
	pulls  []chan struct{}
	pushes []chan struct{}
}

// New creates a Repeater. It fails on malformed configuration (non-positive
// capacity, unknown overflow policy).
func New[T any](opts ...Option) (*Repeater[T], error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Repeater[T]{cfg: cfg}, nil
}

// Push enqueues v for delivery to consumers.
//
// On a full bounded buffer the configured [Overflow] policy applies; with
// [OverflowBlock] the call parks until a consumer frees space, Stop is
// called, or ctx is cancelled. Pushing after Stop returns [ErrStopped]
// (or nil with [WithIgnoreAfterStop]).
func (r *Repeater[T]) Push(ctx context.Context, v T) error {
	for {
		r.mu.Lock()
		if r.stopped {
			r.mu.Unlock()
			if r.cfg.ignoreAfterStop {
				return nil
			}
			return ErrStopped
		}

		if r.cfg.bounded && len(r.buf) >= r.cfg.capacity {
			switch r.cfg.overflow {
			case OverflowDropOldest:
				r.buf = r.buf[1:]
			case OverflowDropNewest:
				r.mu.Unlock()
				return nil
			case OverflowBlock:
				w := make(chan struct{}, 1)
				r.pushes = append(r.pushes, w)
				r.mu.Unlock()
				select {
				case <-w:
					continue
				case <-ctx.Done():
					r.abandon(&r.pushes, w)
					return ctx.Err()
				}
			}
		}

		r.buf = append(r.buf, v)
		r.wakeOne(&r.pulls)
		r.mu.Unlock()
		return nil
	}
}

// Stop closes the repeater with no terminal value. Idempotent.
func (r *Repeater[T]) Stop() {
	r.stop(nil)
}

// StopWith closes the repeater; final becomes the terminal result's Value.
// If the repeater is already stopped the call has no effect.
func (r *Repeater[T]) StopWith(final T) {
	r.stop(&final)
}

func (r *Repeater[T]) stop(final *T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	r.final = final

	// Release everything parked on the repeater: pullers drain the buffer
	// and then observe completion, pushers observe the stop.
	for _, w := range r.pulls {
		select {
		case w <- struct{}{}:
		default:
		}
	}
	r.pulls = nil
	for _, w := range r.pushes {
		select {
		case w <- struct{}{}:
		default:
		}
	}
	r.pushes = nil
}

// Stopped reports whether Stop has been called.
func (r *Repeater[T]) Stopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

// Len returns the number of currently buffered values.
func (r *Repeater[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf)
}

// Next implements [stream.Iterator]. It returns the next buffered value,
// or parks until a value is pushed, Stop is called, or ctx is cancelled.
// After Stop and buffer drain it keeps returning the terminal result.
func (r *Repeater[T]) Next(ctx context.Context) (stream.Result[T], error) {
	for {
		r.mu.Lock()
		if len(r.buf) > 0 {
			v := r.buf[0]
			r.buf = r.buf[1:]
			r.wakeOne(&r.pushes)
			r.mu.Unlock()
			return stream.Result[T]{Value: v}, nil
		}
		if r.stopped {
			res := stream.Result[T]{Done: true}
			if r.final != nil {
				res.Value = *r.final
			}
			r.mu.Unlock()
			return res, nil
		}

		w := make(chan struct{}, 1)
		r.pulls = append(r.pulls, w)
		r.mu.Unlock()

		select {
		case <-w:
		case <-ctx.Done():
			r.abandon(&r.pulls, w)
			return stream.Result[T]{}, ctx.Err()
		}
	}
}

// wakeOne signals the first parked waiter in q. Caller holds r.mu.
func (r *Repeater[T]) wakeOne(q *[]chan struct{}) {
	if len(*q) == 0 {
		return
	}
	w := (*q)[0]
	*q = (*q)[1:]
	select {
	case w <- struct{}{}:
	default:
	}
}

// abandon removes a waiter that gave up (context cancellation) so a later
// wake is not wasted on it. If the waiter had already been woken, the wake
// is passed on to the next parked waiter in the queue.
func (r *Repeater[T]) abandon(q *[]chan struct{}, w chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range *q {
		if c == w {
			*q = append((*q)[:i], (*q)[i+1:]...)
			return
		}
	}
	r.wakeOne(q)
}
