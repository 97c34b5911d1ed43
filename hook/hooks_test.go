package hook

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Iron-Ham/teaiter/stream"
)

// waitPhase polls until the call site reaches the wanted phase.
func waitPhase(t *testing.T, s *Scope, key, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got, ok := s.Phase(key); ok && got == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	got, _ := s.Phase(key)
	t.Fatalf("call site %q never reached phase %q (last seen %q)", key, want, got)
}

func countingFactory(values ...int) (Factory[int], *atomic.Int32) {
	var calls atomic.Int32
	f := func(ctx context.Context, deps stream.Iterator[Deps]) stream.Iterator[int] {
		calls.Add(1)
		return stream.Of(values...)
	}
	return f, &calls
}

func TestUseResult_ObservesProducedSequenceInOrder(t *testing.T) {
	release := make(chan struct{})
	factory := func(ctx context.Context, deps stream.Iterator[Deps]) stream.Iterator[int] {
		return stream.Generate(func(ctx context.Context, yield func(int) error) (int, error) {
			<-release
			for i := 1; i <= 2; i++ {
				if err := yield(i); err != nil {
					return 0, err
				}
			}
			return 3, nil
		})
	}

	var (
		s        *Scope
		mu       sync.Mutex
		observed []Latest[int]
	)
	render := func() Latest[int] {
		return UseResult(s, "gen", factory)
	}
	// The invalidate callback re-renders synchronously, so every produced
	// result is observed before the loop pulls the next one.
	s = NewScope(func() {
		mu.Lock()
		observed = append(observed, render())
		mu.Unlock()
	})

	initial := render()
	if initial.Valid {
		t.Fatalf("expected no result before the first emission, got %+v", initial)
	}

	close(release)
	waitPhase(t, s, "gen", "settled")

	mu.Lock()
	defer mu.Unlock()
	want := []Latest[int]{
		{Result: stream.Result[int]{Value: 1}, Valid: true},
		{Result: stream.Result[int]{Value: 2}, Valid: true},
		{Result: stream.Result[int]{Value: 3, Done: true}, Valid: true},
	}
	if diff := cmp.Diff(want, observed); diff != "" {
		t.Errorf("observed sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestUseResult_FactoryInvokedOncePerMount(t *testing.T) {
	factory, calls := countingFactory(1)
	s := NewScope(nil)

	for range 5 {
		UseResult(s, "once", factory)
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("factory invoked %d times, want 1", got)
	}
}

func TestUseResult_DependencyChangesReachRunningIterator(t *testing.T) {
	snapshots := make(chan Deps, 4)
	factory := func(ctx context.Context, deps stream.Iterator[Deps]) stream.Iterator[int] {
		return stream.Generate(func(ctx context.Context, yield func(int) error) (int, error) {
			for {
				res, err := deps.Next(ctx)
				if err != nil {
					return 0, err
				}
				if res.Done {
					return 0, nil
				}
				snapshots <- res.Value
			}
		})
	}

	s := NewScope(nil)

	UseResult(s, "deps", factory, 1)
	UseResult(s, "deps", factory, 1) // unchanged: no emission

	// First Next pull happens asynchronously; give the loop a moment to
	// park on the dependency stream before changing anything.
	time.Sleep(20 * time.Millisecond)
	select {
	case snap := <-snapshots:
		t.Fatalf("unchanged deps should not emit, got %v", snap)
	default:
	}

	UseResult(s, "deps", factory, 2)

	select {
	case snap := <-snapshots:
		if diff := cmp.Diff(Deps{2}, snap); diff != "" {
			t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
		}
	case <-time.After(time.Second):
		t.Fatal("changed deps never reached the iterator")
	}

	s.Unmount()
}

func TestUseResult_FactoryPanicSettlesWithError(t *testing.T) {
	var invalidates atomic.Int32
	s := NewScope(func() { invalidates.Add(1) })

	factory := func(ctx context.Context, deps stream.Iterator[Deps]) stream.Iterator[int] {
		panic("broken factory")
	}

	l := UseResult(s, "bad", factory)
	if !l.Valid || l.Err == nil {
		t.Fatalf("expected an error result, got %+v", l)
	}

	if phase, _ := s.Phase("bad"); phase != "settled" {
		t.Errorf("expected settled phase, got %q", phase)
	}

	// Re-renders keep projecting the same single error result.
	again := UseResult(s, "bad", factory)
	if again.Err == nil || again.Err.Error() != l.Err.Error() {
		t.Errorf("expected the stored error result, got %+v", again)
	}
}

func TestUseResult_MidStreamErrorIsSurfaced(t *testing.T) {
	boom := errors.New("boom")
	factory := func(ctx context.Context, deps stream.Iterator[Deps]) stream.Iterator[int] {
		return stream.Generate(func(ctx context.Context, yield func(int) error) (int, error) {
			if err := yield(1); err != nil {
				return 0, err
			}
			return 0, boom
		})
	}

	s := NewScope(nil)
	UseResult(s, "err", factory)
	waitPhase(t, s, "err", "settled")

	l := UseResult(s, "err", factory)
	if !errors.Is(l.Err, boom) {
		t.Fatalf("expected boom to be surfaced, got %+v", l)
	}
}

func TestUseResult_SettledBindingIgnoresDependencyUpdates(t *testing.T) {
	snapshots := make(chan Deps, 1)
	factory := func(ctx context.Context, deps stream.Iterator[Deps]) stream.Iterator[int] {
		go func() {
			for {
				res, err := deps.Next(context.Background())
				if err != nil || res.Done {
					return
				}
				snapshots <- res.Value
			}
		}()
		return stream.Of[int]() // completes immediately
	}

	s := NewScope(nil)
	UseResult(s, "settled", factory, 1)
	waitPhase(t, s, "settled", "settled")

	UseResult(s, "settled", factory, 2)

	select {
	case snap := <-snapshots:
		t.Fatalf("settled call site should ignore dependency updates, got %v", snap)
	case <-time.After(50 * time.Millisecond):
	}

	s.Unmount()
}

func TestUnmount_StopsConsumptionAndRenderRequests(t *testing.T) {
	var invalidates atomic.Int32
	bodyExited := make(chan struct{})

	factory := func(ctx context.Context, deps stream.Iterator[Deps]) stream.Iterator[int] {
		return stream.Generate(func(ctx context.Context, yield func(int) error) (int, error) {
			defer close(bodyExited)
			i := 0
			for {
				i++
				if err := yield(i); err != nil {
					return 0, err
				}
			}
		})
	}

	s := NewScope(func() { invalidates.Add(1) })
	UseResult(s, "endless", factory)

	// Let a few values flow before unmounting.
	deadline := time.Now().Add(2 * time.Second)
	for invalidates.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	s.Unmount()

	b := func() *binding[int] {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.slots["endless"].(*binding[int])
	}()
	if !b.signal.Resolved() {
		t.Error("cancellation signal should be resolved after Unmount")
	}
	if phase, _ := s.Phase("endless"); phase != "unmounted" {
		t.Errorf("expected unmounted phase, got %q", phase)
	}

	select {
	case <-bodyExited:
	case <-time.After(time.Second):
		t.Fatal("generator body did not observe cancellation")
	}

	// No render requests after teardown has completed.
	after := invalidates.Load()
	time.Sleep(50 * time.Millisecond)
	if got := invalidates.Load(); got != after {
		t.Errorf("re-render requested after Unmount: %d -> %d", after, got)
	}
}

func TestUnmount_IsIdempotent(t *testing.T) {
	factory, _ := countingFactory(1, 2)
	s := NewScope(nil)
	UseResult(s, "x", factory)

	s.Unmount()
	s.Unmount()
	s.Unmount()

	if s.Mounted() {
		t.Error("scope should report unmounted")
	}
}

func TestUseValue_ProjectsLatestValue(t *testing.T) {
	factory := func(ctx context.Context, deps stream.Iterator[Deps]) stream.Iterator[string] {
		return stream.Generate(func(ctx context.Context, yield func(string) error) (string, error) {
			if err := yield("hello"); err != nil {
				return "", err
			}
			return "bye", nil
		})
	}

	s := NewScope(nil)
	UseValue(s, "v", factory)
	waitPhase(t, s, "v", "settled")

	v, err := UseValue(s, "v", factory)
	if err != nil {
		t.Fatalf("UseValue failed: %v", err)
	}
	// Terminal value, done-ness collapsed.
	if v != "bye" {
		t.Errorf("expected %q, got %q", "bye", v)
	}
}

func TestUseAsyncIter_OwnershipPassesToConsumer(t *testing.T) {
	producer := func(ctx context.Context, deps stream.Iterator[Deps]) stream.Iterator[int] {
		return stream.Of(10, 20)
	}

	var (
		s        *Scope
		mu       sync.Mutex
		observed []int
	)
	render := func() {
		it := UseAsyncIter(s, "producer", producer)

		// A separate call site consumes the shared iterator by closure.
		UseResult(s, "consumer", func(ctx context.Context, deps stream.Iterator[Deps]) stream.Iterator[int] {
			return it
		})
	}
	s = NewScope(func() {
		mu.Lock()
		defer mu.Unlock()
		b := func() *binding[int] {
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.slots["consumer"].(*binding[int])
		}()
		l := b.snapshot()
		if l.Valid && !l.Result.Done {
			observed = append(observed, l.Result.Value)
		}
	})

	render()
	waitPhase(t, s, "consumer", "settled")

	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff([]int{10, 20}, observed); diff != "" {
		t.Errorf("consumed sequence mismatch (-want +got):\n%s", diff)
	}

	s.Unmount()
}

func TestUseAsyncIter_DoesNotConsume(t *testing.T) {
	pulled := make(chan struct{}, 1)
	factory := func(ctx context.Context, deps stream.Iterator[Deps]) stream.Iterator[int] {
		return stream.NextFunc[int](func(ctx context.Context) (stream.Result[int], error) {
			pulled <- struct{}{}
			return stream.Result[int]{Done: true}, nil
		})
	}

	s := NewScope(nil)
	it := UseAsyncIter(s, "lazy", factory)
	if it == nil {
		t.Fatal("expected an iterator")
	}

	select {
	case <-pulled:
		t.Fatal("UseAsyncIter must not run its own consumption loop")
	case <-time.After(50 * time.Millisecond):
	}

	s.Unmount()
}

func TestUseAsyncIter_FactoryErrorSurfacesThroughIterator(t *testing.T) {
	s := NewScope(nil)
	it := UseAsyncIter(s, "bad", func(ctx context.Context, deps stream.Iterator[Deps]) stream.Iterator[int] {
		return nil
	})

	_, err := it.Next(t.Context())
	if err == nil {
		t.Fatal("expected the factory failure to surface on pull")
	}
}

func TestUseRepeater_StableIdentityAcrossRenders(t *testing.T) {
	s := NewScope(nil)

	it1, push, _ := UseRepeater[string](s, "notes")
	it2, _, stop := UseRepeater[string](s, "notes")

	if it1 != it2 {
		t.Fatal("expected the same repeater across renders")
	}

	if err := push(t.Context(), "a"); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	stop()

	values, final, err := stream.Collect(t.Context(), it1)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(values) != 1 || values[0] != "a" || !final.Done {
		t.Errorf("unexpected drain: values=%v final=%+v", values, final)
	}
}

func TestUseRepeater_StoppedOnUnmount(t *testing.T) {
	s := NewScope(nil)
	_, push, _ := UseRepeater[int](s, "r")

	s.Unmount()

	if err := push(context.Background(), 1); err == nil {
		t.Error("expected pushes to fail after the scope unmounts")
	}
}

func TestHooks_KeyCollisionPanics(t *testing.T) {
	s := NewScope(nil)
	factory, _ := countingFactory(1)
	UseResult(s, "k", factory)

	defer func() {
		if recover() == nil {
			t.Error("expected a panic when reusing a key with a different hook")
		}
	}()
	UseRepeater[int](s, "k")
}

func TestHooks_UseAfterUnmountPanics(t *testing.T) {
	s := NewScope(nil)
	s.Unmount()

	defer func() {
		if recover() == nil {
			t.Error("expected a panic when calling a hook on an unmounted scope")
		}
	}()
	factory, _ := countingFactory(1)
	UseResult(s, "late", factory)
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase phase
		want  string
	}{
		{phaseMounting, "mounting"},
		{phaseConsuming, "consuming"},
		{phaseSettled, "settled"},
		{phaseTearingDown, "tearing-down"},
		{phaseUnmounted, "unmounted"},
		{phase(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("phase(%d).String() = %q, want %q", int(tt.phase), got, tt.want)
		}
	}
}

func TestUnmount_ContextCauseIsErrUnmounted(t *testing.T) {
	s := NewScope(nil)

	ctxCh := make(chan context.Context, 1)
	factory := func(ctx context.Context, deps stream.Iterator[Deps]) stream.Iterator[int] {
		ctxCh <- ctx
		return stream.Of(1)
	}

	_ = UseAsyncIter(s, "probe", factory)
	ctx := <-ctxCh

	if ctx.Err() != nil {
		t.Fatalf("context cancelled before unmount: %v", ctx.Err())
	}

	s.Unmount()

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled by unmount")
	}
	if cause := context.Cause(ctx); !errors.Is(cause, ErrUnmounted) {
		t.Errorf("context.Cause = %v, want ErrUnmounted", cause)
	}
}
