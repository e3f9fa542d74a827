// Package clock abstracts "now" so commands that reason about the current
// day can be pinned in tests.
package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

// Today returns the local calendar day containing c.Now(), truncated to
// midnight.
func Today(c Clock) time.Time {
	y, m, d := c.Now().Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FakeClock serves a pinned instant and only moves when told to.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
