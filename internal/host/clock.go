package host

import "time"

// SystemClock adapts wall time to the host's logical clock contract.
type SystemClock struct{}

// Now returns the current Unix time in whole seconds.
func (SystemClock) Now() uint64 {
	now := time.Now().Unix()
	if now < 0 {
		return 0
	}
	return uint64(now)
}

var _ Clock = SystemClock{}

// FixedClock is a clock pinned to a settable instant, for tests and tools.
type FixedClock struct {
	Time uint64
}

// Now returns the pinned instant.
func (c *FixedClock) Now() uint64 {
	return c.Time
}

// Advance moves the pinned instant forward by d seconds.
func (c *FixedClock) Advance(d uint64) {
	c.Time += d
}

var _ Clock = (*FixedClock)(nil)
