package testfixtures

import (
	"sync"
	"time"
)

// Clock is a manual time source for result cache expiry and event import
// timestamps. A non-zero tick moves it forward after every read so
// consecutive runs observe distinct instants.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	tick time.Duration
}

// NewClock returns a stopped clock at start, or at ReferenceTime when start
// is zero.
func NewClock(start time.Time) *Clock {
	return NewTickingClock(start, 0)
}

// NewTickingClock returns a clock that advances by tick after each Now.
func NewTickingClock(start time.Time, tick time.Duration) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{now: start, tick: tick}
}

// Now reports the current instant and applies the tick.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.tick)
	return t
}

// NowFunc returns Now for injection; a nil clock falls back to wall time.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Advance moves the clock forward by d and returns the new instant.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// Expire moves the clock just past ttl so entries stored at the current
// instant are stale.
func (c *Clock) Expire(ttl time.Duration) time.Time {
	return c.Advance(ttl + time.Nanosecond)
}
