// Package hook mounts async iterator streams into a component's render
// lifecycle.
//
// A component owns a [Scope]. On every render it calls hooks against that
// scope, each with a stable string key identifying the call site. On the
// first render a hook's factory is invoked exactly once, producing an
// iterator that a background loop consumes; every produced result is stored
// and a re-render is requested through the scope's invalidate callback.
// Later renders with changed dependencies feed a new snapshot into the
// running iterator — the factory is never re-invoked for a dependency
// change. When the component goes away it calls [Scope.Unmount], which
// resolves each call site's cancellation signal, completes its dependency
// stream, and waits for in-flight pulls to settle.
//
// # Hooks
//
//   - [UseResult]: latest result (value, terminal flag, or error)
//   - [UseValue]: latest value only
//   - [UseAsyncIter]: the factory's iterator itself, left for the caller
//     to consume (typically from another call site's factory by closure)
//   - [UseRepeater]: a per-mount [github.com/Iron-Ham/teaiter/repeater.Repeater]
//     with push/stop controls
//
// # Lifecycle
//
// Each call site moves through mounting → consuming → settled (iterator
// completed or failed) and, at unmount, tearing-down → unmounted. A settled
// call site ignores further dependency updates; there is no automatic
// restart or retry. Iterator failures are captured as an error result and
// surfaced on the next render, never as an unhandled background failure.
//
// # Threading
//
// Hook calls and Unmount belong to the host's render/update goroutine.
// Consumption loops run in background goroutines and communicate back only
// through stored results and the invalidate callback, which must therefore
// be safe to call from any goroutine (see the teahook package for a
// bubbletea-ready implementation).
//
//	scope := hook.NewScope(notifier.Invalidate)
//
//	// inside View():
//	now, _ := hook.UseValue(scope, "clock",
//	    func(ctx context.Context, deps stream.Iterator[hook.Deps]) stream.Iterator[time.Time] {
//	        return source.Ticker(time.Second)
//	    })
package hook
