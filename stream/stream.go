package stream

import "context"

// Result is a single emission from an [Iterator].
//
// A Result with Done set is terminal: it ends the sequence, and its Value
// carries the iterator's return value when the producer supplied one (the
// zero value otherwise).
type Result[T any] struct {
	Value T
	Done  bool
}

// Iterator is a pull-based asynchronous sequence of values.
//
// Next blocks until the next result is available, the sequence fails, or ctx
// is cancelled. After a terminal outcome (a Done result or a non-nil error),
// implementations in this module keep returning that same outcome on
// subsequent calls.
//
// An iterator may be pulled from multiple goroutines, but results are handed
// out one at a time: concurrent pulls race for emissions rather than
// duplicating them. Only one consumption loop should own an iterator at a
// time.
type Iterator[T any] interface {
	Next(ctx context.Context) (Result[T], error)
}

// NextFunc adapts an ordinary function into an [Iterator].
type NextFunc[T any] func(ctx context.Context) (Result[T], error)

// Next calls f.
func (f NextFunc[T]) Next(ctx context.Context) (Result[T], error) {
	return f(ctx)
}

// Collect pulls from it until a terminal result or an error, returning the
// non-terminal values in order, the terminal result, and any error. Intended
// for short, finite sequences; Collect on an endless iterator blocks until
// ctx is cancelled.
func Collect[T any](ctx context.Context, it Iterator[T]) ([]T, Result[T], error) {
	var values []T
	for {
		res, err := it.Next(ctx)
		if err != nil {
			return values, Result[T]{}, err
		}
		if res.Done {
			return values, res, nil
		}
		values = append(values, res.Value)
	}
}
