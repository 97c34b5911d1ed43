// Package source provides ready-made iterator producers for common inputs:
// time ticks and filesystem events. Each source is an endless stream that
// runs until the consumer's context is cancelled.
package source

import (
	"context"
	"time"

	"github.com/Iron-Ham/teaiter/stream"
)

// Ticker emits the current time every interval until cancelled. A
// non-positive interval is rejected on the first pull.
func Ticker(interval time.Duration) stream.Iterator[time.Time] {
	return stream.Generate(func(ctx context.Context, yield func(time.Time) error) (time.Time, error) {
		if interval <= 0 {
			return time.Time{}, errInterval(interval)
		}
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case tm := <-t.C:
				if err := yield(tm); err != nil {
					return time.Time{}, err
				}
			case <-ctx.Done():
				return time.Time{}, ctx.Err()
			}
		}
	})
}
