package hook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Iron-Ham/teaiter/stream"
)

// ErrUnmounted is the cancellation cause carried by a call site's context
// once its scope unmounts. Producers that want to distinguish unmount from
// other cancellation check it with context.Cause and errors.Is.
var ErrUnmounted = errors.New("hook: scope unmounted")

// Factory builds the iterator a hook call site consumes. It is invoked
// exactly once per mount of the call site. ctx is the call site's
// cancellation scope (cancelled at unmount); deps emits a snapshot each
// time the declared dependencies change, and completes at unmount.
// Dependency changes flow into the running iterator through deps — they
// never re-invoke the factory.
type Factory[T any] func(ctx context.Context, deps stream.Iterator[Deps]) stream.Iterator[T]

// Latest is the most recent outcome observed for a hook call site.
// Valid is false until the iterator produces its first result or fails;
// exactly one of Result and Err is meaningful once Valid is set.
type Latest[T any] struct {
	Result stream.Result[T]
	Err    error
	Valid  bool
}

// phase tracks a binding through its lifecycle.
type phase int

const (
	phaseMounting phase = iota
	phaseConsuming
	phaseSettled
	phaseTearingDown
	phaseUnmounted
)

// String returns a human-readable phase name.
func (p phase) String() string {
	switch p {
	case phaseMounting:
		return "mounting"
	case phaseConsuming:
		return "consuming"
	case phaseSettled:
		return "settled"
	case phaseTearingDown:
		return "tearing-down"
	case phaseUnmounted:
		return "unmounted"
	default:
		return "unknown"
	}
}

// binding owns one mounted iterator: its cancellation scope, its dependency
// tracker, the background consumption loop, and the latest result. At most
// one consumption loop runs per binding.
type binding[T any] struct {
	scope      *Scope
	key        string
	generation uint64
	consume    bool
	logger     *slog.Logger

	signal  *stream.Signal
	ctx     context.Context
	cancel  context.CancelFunc
	tracker *depTracker
	iter    stream.Iterator[T]

	mu     sync.Mutex
	phase  phase
	latest Latest[T]

	loopDone chan struct{}
}

func newBinding[T any](s *Scope, key string, consume bool) *binding[T] {
	gen := s.gens.Add(1)
	return &binding[T]{
		scope:      s,
		key:        key,
		generation: gen,
		consume:    consume,
		logger:     s.logger.With("hook", key, "generation", gen),
		loopDone:   make(chan struct{}),
	}
}

// mount invokes the factory once and, for consuming bindings, starts the
// background consumption loop. A synchronous factory failure (panic or nil
// iterator) settles the binding immediately with an error result.
func (b *binding[T]) mount(factory Factory[T], deps Deps) {
	b.tracker = newDepTracker(deps)
	b.signal = stream.NewSignal()

	// Like stream.Signal.Context, but the derived context names unmount as
	// its cancellation cause.
	ctx, cancel := context.WithCancelCause(context.Background())
	b.ctx = ctx
	b.cancel = func() { cancel(ErrUnmounted) }
	go func() {
		select {
		case <-b.signal.Done():
			cancel(ErrUnmounted)
		case <-ctx.Done():
		}
	}()

	b.logger.Debug("hook mounting")

	it, err := invokeFactory(b.key, factory, b.ctx, b.tracker)
	if err != nil {
		b.mu.Lock()
		b.latest = Latest[T]{Err: err, Valid: true}
		b.phase = phaseSettled
		b.mu.Unlock()
		// Erroring view for call sites that hand the iterator onward.
		b.iter = failingIterator[T](err)
		close(b.loopDone)
		b.logger.Warn("hook factory failed", "error", err)
		return
	}

	b.iter = it
	b.mu.Lock()
	b.phase = phaseConsuming
	b.mu.Unlock()

	if b.consume {
		go b.consumeLoop()
	} else {
		// Ownership of pulling passes to whoever consumes the returned
		// iterator; this binding only manages lifecycle.
		close(b.loopDone)
	}
}

// invokeFactory guards against panicking factories and nil iterators.
func invokeFactory[T any](key string, factory Factory[T], ctx context.Context, deps stream.Iterator[Deps]) (it stream.Iterator[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			it = nil
			err = fmt.Errorf("hook: factory for %q panicked: %v", key, r)
		}
	}()
	it = factory(ctx, deps)
	if it == nil {
		return nil, fmt.Errorf("hook: factory for %q returned a nil iterator", key)
	}
	return it, nil
}

// failingIterator returns err on every pull.
func failingIterator[T any](err error) stream.Iterator[T] {
	return stream.NextFunc[T](func(context.Context) (stream.Result[T], error) {
		return stream.Result[T]{}, err
	})
}

// consumeLoop is the binding's single background consumer. Each produced
// result is stored as the latest and a re-render is requested; production
// order is preserved, though the host may coalesce renders and observe only
// the most recent result. A terminal result or error settles the binding.
func (b *binding[T]) consumeLoop() {
	defer close(b.loopDone)
	for {
		res, err := b.iter.Next(b.ctx)

		if b.ctx.Err() != nil {
			// Teardown in progress: cancellation is advisory, never an
			// error result, and no render may be requested past this point.
			b.logger.Debug("hook consumption cancelled")
			return
		}

		if err != nil {
			b.mu.Lock()
			b.latest = Latest[T]{Err: err, Valid: true}
			b.phase = phaseSettled
			b.mu.Unlock()
			b.logger.Debug("hook settled with error", "error", err)
			b.scope.requestRender()
			return
		}

		b.mu.Lock()
		b.latest = Latest[T]{Result: res, Valid: true}
		if res.Done {
			b.phase = phaseSettled
		}
		b.mu.Unlock()
		b.scope.requestRender()

		if res.Done {
			b.logger.Debug("hook settled")
			return
		}
	}
}

// updateDeps pushes a new dependency snapshot into the tracker. Settled and
// tearing-down bindings ignore further updates.
func (b *binding[T]) updateDeps(next Deps) {
	b.mu.Lock()
	inert := b.phase >= phaseSettled
	b.mu.Unlock()
	if inert {
		return
	}
	b.tracker.set(next)
}

// snapshot returns the latest stored outcome.
func (b *binding[T]) snapshot() Latest[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest
}

// teardown resolves the cancellation signal, completes the dependency
// stream, and waits for the consumption loop's in-flight pull to settle.
// The binding is only fully unmounted once the loop has exited.
func (b *binding[T]) teardown() {
	b.mu.Lock()
	if b.phase == phaseTearingDown || b.phase == phaseUnmounted {
		b.mu.Unlock()
		return
	}
	b.phase = phaseTearingDown
	b.mu.Unlock()

	b.signal.Resolve()
	b.cancel()
	b.tracker.close()
	<-b.loopDone

	b.mu.Lock()
	b.phase = phaseUnmounted
	b.mu.Unlock()
	b.logger.Debug("hook unmounted")
}

// slot interface implementation.

func (b *binding[T]) phaseName() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.phase.String()
}

func (b *binding[T]) describe() string {
	if b.consume {
		return fmt.Sprintf("result hook (%T)", b)
	}
	return fmt.Sprintf("iterator hook (%T)", b)
}
