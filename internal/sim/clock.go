package sim

import "time"

// DefaultMaxFrameDelay bounds a single frame after a stall, such as a
// suspended terminal or a slow render.
const DefaultMaxFrameDelay = 100 * time.Millisecond

// Clock turns wall-clock frame times into the delay handed to
// Universe.Advance. Time beyond MaxDelay is dropped.
type Clock struct {
	MaxDelay time.Duration

	last    time.Time
	started bool
}

func NewClock(maxDelay time.Duration) *Clock {
	if maxDelay <= 0 {
		maxDelay = DefaultMaxFrameDelay
	}
	return &Clock{MaxDelay: maxDelay}
}

// Tick returns the microseconds elapsed since the previous tick, clamped to
// [0, MaxDelay]. The first tick returns zero.
func (c *Clock) Tick(now time.Time) int64 {
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}
	d := now.Sub(c.last)
	c.last = now
	if d < 0 {
		return 0
	}
	if c.MaxDelay > 0 && d > c.MaxDelay {
		d = c.MaxDelay
	}
	return d.Microseconds()
}

// Reset forgets the previous tick, so the next one returns zero.
func (c *Clock) Reset() {
	c.started = false
}
