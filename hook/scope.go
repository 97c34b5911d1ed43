package hook

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// slot is one persistent hook call site owned by a Scope.
type slot interface {
	teardown()
	phaseName() string
	describe() string
}

// Scope is the per-component store that gives hook call sites state
// persisting across renders. A component creates one Scope when it is
// constructed, calls hooks with stable keys on every render, and calls
// Unmount exactly once when it goes away.
//
// Hook calls and Unmount must come from the host's render/update goroutine;
// the invalidate callback is invoked from background consumption loops and
// must be safe to call from any goroutine.
type Scope struct {
	mu        sync.Mutex
	slots     map[string]slot
	order     []string
	unmounted bool

	invalidate func()
	logger     *slog.Logger
	gens       atomic.Uint64
}

// ScopeOption configures a Scope.
type ScopeOption func(*Scope)

// WithLogger routes the scope's lifecycle logging (mounts, settlements,
// teardowns) to logger. Logging is off by default.
func WithLogger(logger *slog.Logger) ScopeOption {
	return func(s *Scope) {
		s.logger = logger
	}
}

// NewScope creates a Scope. invalidate is called whenever a mounted
// iterator produces a new result and the owning component should re-render;
// requests are idempotent signals and may be coalesced by the host. A nil
// invalidate drops render requests.
func NewScope(invalidate func(), opts ...ScopeOption) *Scope {
	s := &Scope{
		slots:      make(map[string]slot),
		invalidate: invalidate,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Mounted reports whether the scope is still live.
func (s *Scope) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.unmounted
}

// Phase returns the lifecycle phase of the call site registered under key,
// and whether such a call site exists. Intended for logging and tests.
func (s *Scope) Phase(key string) (string, bool) {
	s.mu.Lock()
	sl, ok := s.slots[key]
	s.mu.Unlock()
	if !ok {
		return "", false
	}
	return sl.phaseName(), true
}

// Unmount tears down every hook call site: cancellation signals are
// resolved, dependency streams completed, and each consumption loop's
// in-flight pull awaited. After Unmount returns, no further re-render
// requests are issued. Idempotent.
func (s *Scope) Unmount() {
	s.mu.Lock()
	if s.unmounted {
		s.mu.Unlock()
		return
	}
	s.unmounted = true
	order := slices.Clone(s.order)
	slots := s.slots
	s.mu.Unlock()

	// Reverse mount order, so call sites that consume iterators produced
	// by earlier call sites are stopped first.
	for i := len(order) - 1; i >= 0; i-- {
		slots[order[i]].teardown()
	}
	s.logger.Debug("scope unmounted", "hooks", len(order))
}

// requestRender forwards a re-render request to the host, unless the scope
// has already been unmounted.
func (s *Scope) requestRender() {
	s.mu.Lock()
	unmounted := s.unmounted
	fn := s.invalidate
	s.mu.Unlock()
	if unmounted || fn == nil {
		return
	}
	fn()
}

// register stores a newly created slot under key. Caller holds s.mu.
func (s *Scope) registerLocked(key string, sl slot) {
	s.slots[key] = sl
	s.order = append(s.order, key)
}

// mustLiveLocked panics if the scope was unmounted. Caller holds s.mu.
func (s *Scope) mustLiveLocked(hookName, key string) {
	if s.unmounted {
		panic(fmt.Sprintf("hook: %s called with key %q on an unmounted scope", hookName, key))
	}
}
