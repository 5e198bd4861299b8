package core

import "time"

// DefaultTickInterval is the playback speed a level starts with.
const DefaultTickInterval = time.Second

// SpeedPresets are the playback intervals offered by the front-ends.
var SpeedPresets = []time.Duration{
	time.Second,
	500 * time.Millisecond,
	125 * time.Millisecond,
}

// Clock accumulates elapsed time and fires a simulation tick each time the
// configured interval has passed.
type Clock struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	paused      bool
}

// NewClock constructs a paused Clock firing once per interval.
func NewClock(interval time.Duration) *Clock {
	c := &Clock{paused: true}
	c.SetInterval(interval)
	return c
}

// SetInterval changes the tick interval. Non-positive values fall back to
// DefaultTickInterval.
func (c *Clock) SetInterval(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	c.step = interval
}

// Interval returns the current tick interval.
func (c *Clock) Interval() time.Duration { return c.step }

// Pause stops the clock from firing. Accumulated time is kept.
func (c *Clock) Pause() { c.paused = true }

// Resume lets the clock fire again.
func (c *Clock) Resume() {
	c.paused = false
	c.last = time.Time{}
}

// Paused reports whether the clock is stopped.
func (c *Clock) Paused() bool { return c.paused }

// Reset drops any accumulated time.
func (c *Clock) Reset() {
	c.accumulator = 0
	c.last = time.Time{}
}

// Advance feeds delta into the accumulator and reports whether a tick is due.
// At most one tick fires per call.
func (c *Clock) Advance(delta time.Duration) bool {
	if c.paused {
		return false
	}
	if delta > 0 {
		c.accumulator += delta
	}
	if c.accumulator >= c.step {
		c.accumulator -= c.step
		return true
	}
	return false
}

// ShouldStep reports whether the simulation should advance by one tick using
// wall-clock time since the previous call.
func (c *Clock) ShouldStep() bool {
	now := time.Now()
	if c.last.IsZero() {
		c.last = now
	}
	delta := now.Sub(c.last)
	c.last = now
	return c.Advance(delta)
}
