// Package repeater provides a manually driven async iterator: producers push
// values and stop the sequence by calling methods, consumers pull through the
// standard [github.com/Iron-Ham/teaiter/stream.Iterator] contract.
//
// A [Repeater] buffers pushed values in FIFO order. The buffer is unbounded
// by default; a maximum size can be set with [WithCapacity], which also
// requires choosing an explicit [Overflow] policy — blocking the pusher,
// dropping the oldest buffered value, or dropping the newly pushed one.
// There is no silent default for bounded buffers.
//
// Stopping is idempotent. Values buffered before Stop are still delivered,
// after which consumers receive the terminal result (carrying the value
// given to StopWith, if any). Pushing after Stop returns [ErrStopped] unless
// the repeater was built with [WithIgnoreAfterStop].
//
// # Basic Usage
//
//	r, err := repeater.New[string]()
//	if err != nil {
//	    return err
//	}
//
//	r.Push(ctx, "a")
//	r.Push(ctx, "b")
//	r.StopWith("done")
//
//	// Consumption yields "a", "b", then a terminal result with Value "done".
//	res, _ := r.Next(ctx)
//
// A Repeater is safe for concurrent use and may be shared by several
// producers and consumers; each buffered value is delivered to exactly one
// puller, in push order.
package repeater
