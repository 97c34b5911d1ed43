package stream

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestSignal_StartsPending(t *testing.T) {
	s := NewSignal()

	if s.Resolved() {
		t.Error("new signal should not be resolved")
	}

	select {
	case <-s.Done():
		t.Error("Done channel should not be closed before Resolve")
	default:
	}
}

func TestSignal_ResolveReleasesAllWaiters(t *testing.T) {
	s := NewSignal()

	const waiters = 5
	var wg sync.WaitGroup
	released := make(chan struct{}, waiters)

	for range waiters {
		wg.Go(func() {
			<-s.Done()
			released <- struct{}{}
		})
	}

	s.Resolve()
	wg.Wait()

	if len(released) != waiters {
		t.Errorf("expected %d waiters released, got %d", waiters, len(released))
	}
}

func TestSignal_ResolveIsIdempotent(t *testing.T) {
	s := NewSignal()

	// Calling Resolve multiple times should not panic
	s.Resolve()
	s.Resolve()
	s.Resolve()

	if !s.Resolved() {
		t.Error("signal should be resolved")
	}
}

func TestSignal_ContextCancelledOnResolve(t *testing.T) {
	s := NewSignal()

	ctx, cancel := s.Context(context.Background())
	defer cancel()

	if ctx.Err() != nil {
		t.Fatalf("context should start live, got %v", ctx.Err())
	}

	s.Resolve()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled after Resolve")
	}
}

func TestSignal_ContextCancelledByParent(t *testing.T) {
	s := NewSignal()

	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := s.Context(parent)
	defer cancel()

	cancelParent()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled by parent")
	}

	if s.Resolved() {
		t.Error("parent cancellation should not resolve the signal")
	}
}
