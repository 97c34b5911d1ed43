package source

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Iron-Ham/teaiter/stream"
)

func errInterval(d time.Duration) error {
	return fmt.Errorf("source: ticker interval must be positive, got %v", d)
}

// Files emits filesystem events for the given paths until cancelled. The
// watcher is created on the first pull and closed when the stream ends, so
// an unconsumed Files iterator costs nothing.
func Files(paths ...string) stream.Iterator[fsnotify.Event] {
	return stream.Generate(func(ctx context.Context, yield func(fsnotify.Event) error) (fsnotify.Event, error) {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fsnotify.Event{}, fmt.Errorf("source: create watcher: %w", err)
		}
		defer func() { _ = w.Close() }()

		for _, p := range paths {
			if err := w.Add(p); err != nil {
				return fsnotify.Event{}, fmt.Errorf("source: watch %s: %w", p, err)
			}
		}

		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return fsnotify.Event{}, nil
				}
				if err := yield(ev); err != nil {
					return fsnotify.Event{}, err
				}
			case err, ok := <-w.Errors:
				if !ok {
					return fsnotify.Event{}, nil
				}
				if err != nil {
					return fsnotify.Event{}, fmt.Errorf("source: watcher: %w", err)
				}
			case <-ctx.Done():
				return fsnotify.Event{}, ctx.Err()
			}
		}
	})
}
