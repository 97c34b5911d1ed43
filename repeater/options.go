package repeater

import "fmt"

// Overflow selects what Push does when a bounded buffer is full.
type Overflow int

const (
	// OverflowBlock blocks the push until a consumer frees buffer space.
	OverflowBlock Overflow = iota

	// OverflowDropOldest evicts the oldest buffered value to make room.
	OverflowDropOldest

	// OverflowDropNewest discards the pushed value.
	OverflowDropNewest
)

// String returns a human-readable name for an overflow policy.
func (o Overflow) String() string {
	switch o {
	case OverflowBlock:
		return "block"
	case OverflowDropOldest:
		return "drop-oldest"
	case OverflowDropNewest:
		return "drop-newest"
	default:
		return "unknown"
	}
}

// config holds constructor settings shared by all value types.
type config struct {
	bounded         bool
	capacity        int
	overflow        Overflow
	ignoreAfterStop bool
}

// Option configures a Repeater at construction time.
type Option func(*config)

// WithCapacity bounds the buffer to at most n values and sets the policy
// applied when a push finds the buffer full. n must be positive.
func WithCapacity(n int, policy Overflow) Option {
	return func(c *config) {
		c.bounded = true
		c.capacity = n
		c.overflow = policy
	}
}

// WithIgnoreAfterStop makes Push a silent no-op after Stop instead of
// returning [ErrStopped].
func WithIgnoreAfterStop() Option {
	return func(c *config) {
		c.ignoreAfterStop = true
	}
}

// validate rejects malformed configurations up front.
func (c *config) validate() error {
	if c.bounded && c.capacity <= 0 {
		return fmt.Errorf("repeater: capacity must be positive, got %d", c.capacity)
	}
	switch c.overflow {
	case OverflowBlock, OverflowDropOldest, OverflowDropNewest:
	default:
		return fmt.Errorf("repeater: unknown overflow policy %d", int(c.overflow))
	}
	return nil
}
