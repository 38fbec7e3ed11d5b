// Package clock provides a manually advanced clock for tests that
// depend on the current time, such as bill due-date checks.
package clock

import "time"

// FakeClock reports a fixed instant until Advance moves it forward.
type FakeClock struct {
	now time.Time
}

// NewFakeClock starts a clock frozen at t, normalized to UTC.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

// Now returns the clock's current instant.
func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
