// Package stream defines the asynchronous iterator contract used throughout
// teaiter, plus a handful of constructors for building iterators.
//
// An iterator is a pull-based sequence: each call to Next blocks until the
// next value is available, the sequence completes, or the supplied context is
// cancelled. Iterators are the glue between producers (tickers, file
// watchers, manual repeaters, user generator functions) and the hook layer
// that mounts them into a component's render lifecycle.
//
// # Main Types
//
//   - [Result]: one emission from an iterator; Done marks the terminal result
//   - [Iterator]: the pull contract, Next(ctx) (Result, error)
//   - [NextFunc]: adapts a plain function into an [Iterator]
//   - [Signal]: a resolve-once advisory cancellation signal
//
// # Constructors
//
//   - [Generate]: run a generator-style producer function with a blocking
//     yield, the closest Go analogue to an async generator
//   - [Of]: a fixed, finite sequence of values
//   - [FromChan]: adopt an existing receive channel
//
// # Cancellation
//
// Cancellation is cooperative. Resolving a [Signal] or cancelling the
// context passed to Next never preempts a producer; it is a value the
// producer is expected to observe and act on. Once an iterator has produced
// its terminal result (Done set, or an error), further calls to Next return
// that same terminal outcome.
//
// # Example
//
//	it := stream.Generate(func(ctx context.Context, yield func(int) error) (int, error) {
//	    for i := 1; i <= 2; i++ {
//	        if err := yield(i); err != nil {
//	            return 0, err
//	        }
//	    }
//	    return 3, nil // terminal value
//	})
//
//	values, final, _ := stream.Collect(ctx, it)
//	// values = [1 2], final = Result{Value: 3, Done: true}
package stream
