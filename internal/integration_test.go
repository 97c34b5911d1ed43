// Package internal contains integration tests that verify the library
// packages work together correctly. These tests drive the full path a
// Bubbletea program would: hook scope to notifier to refresh message to
// re-render.
package internal

import (
	"context"
	"testing"
	"time"

	"github.com/Iron-Ham/teaiter/hook"
	"github.com/Iron-Ham/teaiter/stream"
	"github.com/Iron-Ham/teaiter/teahook"
	tea "github.com/charmbracelet/bubbletea"
)

// foldAll accumulates every value from src until it completes
func foldAll(src stream.Iterator[string]) hook.Factory[[]string] {
	return func(ctx context.Context, _ stream.Iterator[hook.Deps]) stream.Iterator[[]string] {
		return stream.Generate(func(ctx context.Context, yield func([]string) error) ([]string, error) {
			var all []string
			for {
				res, err := src.Next(ctx)
				if err != nil {
					return nil, err
				}
				if res.Done {
					if res.Value != "" {
						all = append(all, res.Value)
					}
					return all, nil
				}
				all = append(all, res.Value)
				if err := yield(append([]string(nil), all...)); err != nil {
					return nil, err
				}
			}
		})
	}
}

func waitMsg(t *testing.T, ch chan tea.Msg) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a refresh message")
	}
}

// TestPushToRenderPipeline walks the whole loop: a value pushed into a
// channel hook is consumed, invalidates the scope, surfaces as a refresh
// message, and appears in the next render pass.
func TestPushToRenderPipeline(t *testing.T) {
	ctx := t.Context()

	notifier := teahook.NewNotifier()
	refreshes := make(chan tea.Msg, 8)
	notifier.Attach(func(msg tea.Msg) { refreshes <- msg })

	scope := hook.NewScope(notifier.Invalidate)
	defer scope.Unmount()

	render := func() hook.Latest[[]string] {
		src, _, _ := hook.UseRepeater[string](scope, "inbox")
		return hook.UseResult(scope, "log", foldAll(src))
	}

	latest := render()
	if latest.Valid {
		t.Fatalf("no value should be visible before the first push, got %+v", latest)
	}

	_, push, stop := hook.UseRepeater[string](scope, "inbox")

	if err := push(ctx, "alpha"); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	waitMsg(t, refreshes)
	notifier.Flush()

	latest = render()
	if !latest.Valid || latest.Err != nil {
		t.Fatalf("expected a value after push, got %+v", latest)
	}
	if len(latest.Result.Value) != 1 || latest.Result.Value[0] != "alpha" {
		t.Errorf("log = %v, want [alpha]", latest.Result.Value)
	}

	if err := push(ctx, "beta"); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	waitMsg(t, refreshes)
	notifier.Flush()

	latest = render()
	if got := latest.Result.Value; len(got) != 2 || got[1] != "beta" {
		t.Errorf("log = %v, want [alpha beta]", got)
	}

	// Stopping the channel completes the log stream
	stop()
	waitMsg(t, refreshes)
	notifier.Flush()

	latest = render()
	if !latest.Result.Done {
		t.Errorf("log should complete after stop, got %+v", latest)
	}
	if got := latest.Result.Value; len(got) != 2 {
		t.Errorf("final log = %v, want [alpha beta]", got)
	}
}

// TestUnmountCancelsProducers verifies that unmounting the scope reaches
// all the way into a running generator body.
func TestUnmountCancelsProducers(t *testing.T) {
	notifier := teahook.NewNotifier()
	refreshes := make(chan tea.Msg, 8)
	notifier.Attach(func(msg tea.Msg) { refreshes <- msg })

	scope := hook.NewScope(notifier.Invalidate)

	bodyExited := make(chan struct{})
	factory := func(ctx context.Context, _ stream.Iterator[hook.Deps]) stream.Iterator[int] {
		return stream.Generate(func(ctx context.Context, yield func(int) error) (int, error) {
			defer close(bodyExited)
			if err := yield(1); err != nil {
				return 0, err
			}
			<-ctx.Done()
			return 0, ctx.Err()
		})
	}

	latest := hook.UseResult(scope, "counter", factory)
	if latest.Valid {
		t.Fatal("value should not be visible before consumption begins")
	}

	waitMsg(t, refreshes)
	notifier.Flush()

	latest = hook.UseResult(scope, "counter", factory)
	if !latest.Valid || latest.Result.Value != 1 {
		t.Fatalf("expected first value 1, got %+v", latest)
	}

	scope.Unmount()

	select {
	case <-bodyExited:
	case <-time.After(5 * time.Second):
		t.Fatal("generator body kept running after unmount")
	}

	if scope.Mounted() {
		t.Error("scope should report unmounted")
	}
}
