package tui

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Iron-Ham/teaiter/hook"
	"github.com/Iron-Ham/teaiter/source"
	"github.com/Iron-Ham/teaiter/stream"
)

// clockFactory produces a clock stream that ticks at interval. Interval
// changes arrive through the dependency stream and retune the live ticker
// without restarting it.
func clockFactory(interval time.Duration) hook.Factory[time.Time] {
	return func(ctx context.Context, deps stream.Iterator[hook.Deps]) stream.Iterator[time.Time] {
		return stream.Generate(func(ctx context.Context, yield func(time.Time) error) (time.Time, error) {
			updates := make(chan time.Duration, 1)
			go func() {
				for {
					res, err := deps.Next(ctx)
					if err != nil || res.Done {
						return
					}
					if len(res.Value) == 0 {
						continue
					}
					d, ok := res.Value[0].(time.Duration)
					if !ok {
						continue
					}
					// Keep only the latest interval
					select {
					case <-updates:
					default:
					}
					updates <- d
				}
			}()

			t := time.NewTicker(interval)
			defer t.Stop()
			for {
				select {
				case d := <-updates:
					t.Reset(d)
				case now := <-t.C:
					if err := yield(now); err != nil {
						return time.Time{}, err
					}
				case <-ctx.Done():
					return time.Time{}, ctx.Err()
				}
			}
		})
	}
}

// foldNotes accumulates every note pushed through src into a growing log.
// The stream completes when the note channel is stopped, carrying the full
// log as its final value.
func foldNotes(src stream.Iterator[string]) hook.Factory[[]string] {
	return func(ctx context.Context, _ stream.Iterator[hook.Deps]) stream.Iterator[[]string] {
		return stream.Generate(func(ctx context.Context, yield func([]string) error) ([]string, error) {
			var log []string
			for {
				res, err := src.Next(ctx)
				if err != nil {
					return nil, err
				}
				if res.Done {
					if res.Value != "" {
						log = append(log, res.Value)
					}
					return log, nil
				}
				log = append(log, res.Value)
				if err := yield(slices.Clone(log)); err != nil {
					return nil, err
				}
			}
		})
	}
}

// foldEvents watches paths and keeps the most recent file events, newest
// last, capped at keep lines.
func foldEvents(keep int, paths ...string) hook.Factory[[]string] {
	return func(ctx context.Context, _ stream.Iterator[hook.Deps]) stream.Iterator[[]string] {
		src := source.Files(paths...)
		return stream.Generate(func(ctx context.Context, yield func([]string) error) ([]string, error) {
			var lines []string
			for {
				res, err := src.Next(ctx)
				if err != nil {
					return nil, err
				}
				if res.Done {
					return lines, nil
				}
				lines = append(lines, fmt.Sprintf("%s %s", res.Value.Op, res.Value.Name))
				if len(lines) > keep {
					lines = lines[len(lines)-keep:]
				}
				if err := yield(slices.Clone(lines)); err != nil {
					return nil, err
				}
			}
		})
	}
}
