package stream

import (
	"context"
	"fmt"
	"sync"
)

// GeneratorFunc is the body of a generated iterator. It produces values by
// calling yield, which blocks until a consumer pulls the value or ctx is
// cancelled (in which case yield returns ctx's error and the body should
// return promptly). The returned value becomes the terminal result's Value;
// a non-nil error fails the sequence instead.
type GeneratorFunc[T any] func(ctx context.Context, yield func(T) error) (T, error)

// Generate builds an [Iterator] from a generator-style producer function.
//
// The body does not run until the first call to Next; it then runs in its
// own goroutine and receives the context of that first call, which governs
// the body for its whole lifetime. Consumers that pull with a per-lifecycle
// context (as the hook layer does) therefore hand the body their
// cancellation scope for free.
//
// A panic in the body is recovered and surfaced as the sequence's error.
func Generate[T any](fn GeneratorFunc[T]) Iterator[T] {
	return &generator[T]{fn: fn, ch: make(chan emission[T])}
}

// emission pairs a result with a failure; exactly one side is meaningful.
type emission[T any] struct {
	res Result[T]
	err error
}

type generator[T any] struct {
	fn    GeneratorFunc[T]
	start sync.Once
	ch    chan emission[T]

	mu       sync.Mutex
	terminal *emission[T]
}

func (g *generator[T]) Next(ctx context.Context) (Result[T], error) {
	g.mu.Lock()
	if t := g.terminal; t != nil {
		g.mu.Unlock()
		return t.res, t.err
	}
	g.mu.Unlock()

	g.start.Do(func() {
		go g.run(ctx)
	})

	select {
	case em := <-g.ch:
		if em.res.Done || em.err != nil {
			g.mu.Lock()
			g.terminal = &em
			g.mu.Unlock()
		}
		return em.res, em.err
	case <-ctx.Done():
		return Result[T]{}, ctx.Err()
	}
}

// run executes the generator body and delivers its terminal outcome.
func (g *generator[T]) run(ctx context.Context) {
	yield := func(v T) error {
		select {
		case g.ch <- emission[T]{res: Result[T]{Value: v}}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	var em emission[T]
	func() {
		defer func() {
			if r := recover(); r != nil {
				em = emission[T]{err: fmt.Errorf("stream: generator panicked: %v", r)}
			}
		}()
		final, err := g.fn(ctx, yield)
		if err != nil {
			em = emission[T]{err: err}
		} else {
			em = emission[T]{res: Result[T]{Value: final, Done: true}}
		}
	}()

	select {
	case g.ch <- em:
	case <-ctx.Done():
	}
}

// Of returns an iterator over a fixed sequence of values. The terminal
// result carries the zero value.
func Of[T any](values ...T) Iterator[T] {
	var (
		mu sync.Mutex
		i  int
	)
	return NextFunc[T](func(ctx context.Context) (Result[T], error) {
		if err := ctx.Err(); err != nil {
			return Result[T]{}, err
		}
		mu.Lock()
		defer mu.Unlock()
		if i >= len(values) {
			return Result[T]{Done: true}, nil
		}
		v := values[i]
		i++
		return Result[T]{Value: v}, nil
	})
}

// FromChan adopts a receive channel as an iterator. The sequence completes
// when the channel is closed; closing is the producer's responsibility.
func FromChan[T any](ch <-chan T) Iterator[T] {
	var (
		mu     sync.Mutex
		closed bool
	)
	return NextFunc[T](func(ctx context.Context) (Result[T], error) {
		mu.Lock()
		if closed {
			mu.Unlock()
			return Result[T]{Done: true}, nil
		}
		mu.Unlock()

		select {
		case v, ok := <-ch:
			if !ok {
				mu.Lock()
				closed = true
				mu.Unlock()
				return Result[T]{Done: true}, nil
			}
			return Result[T]{Value: v}, nil
		case <-ctx.Done():
			return Result[T]{}, ctx.Err()
		}
	})
}
