// Package timectrl supplies the clock the pointing session reads "now"
// from. Production code uses SystemClock; tests and replays pin time with
// ManualClock.
package timectrl

import (
	"sync"
	"time"
)

// Clock is the time source consulted when a target is locked and when an
// event time-of-day is resolved to its next occurrence.
type Clock interface {
	// Now returns the current instant in UTC.
	Now() time.Time
}

// Notifier is implemented by clocks that report when they move.
type Notifier interface {
	AddListener(fn func(time.Time))
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

var _ Notifier = (*ManualClock)(nil)

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	mu      sync.RWMutex
	current time.Time

	listeners []func(time.Time)
}

// NewManualClock constructs a clock pinned at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{current: start.UTC()}
}

// Now implements Clock.
func (c *ManualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// SetTime moves the clock to t and notifies listeners.
func (c *ManualClock) SetTime(t time.Time) {
	c.mu.Lock()
	c.current = t.UTC()
	now := c.current
	listeners := append([]func(time.Time){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(now)
	}
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.SetTime(c.Now().Add(d))
}

// AddListener registers a callback invoked whenever the clock moves.
func (c *ManualClock) AddListener(fn func(time.Time)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}
