package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockStartsPaused(t *testing.T) {
	c := NewClock(time.Second)
	assert.True(t, c.Paused())
	assert.False(t, c.Advance(5*time.Second))
}

func TestClockFiresOncePerInterval(t *testing.T) {
	c := NewClock(time.Second)
	c.Resume()

	assert.False(t, c.Advance(400*time.Millisecond))
	assert.False(t, c.Advance(400*time.Millisecond))
	assert.True(t, c.Advance(400*time.Millisecond))
	// 200ms carried over.
	assert.False(t, c.Advance(700*time.Millisecond))
	assert.True(t, c.Advance(100*time.Millisecond))
}

func TestClockFiresAtMostOncePerAdvance(t *testing.T) {
	c := NewClock(125 * time.Millisecond)
	c.Resume()

	assert.True(t, c.Advance(time.Second))
	assert.True(t, c.Advance(0))
}

func TestClockPauseKeepsAccumulator(t *testing.T) {
	c := NewClock(time.Second)
	c.Resume()
	assert.False(t, c.Advance(900*time.Millisecond))
	c.Pause()
	assert.False(t, c.Advance(time.Second))
	c.Resume()
	assert.True(t, c.Advance(100*time.Millisecond))
}

func TestClockIntervalFallback(t *testing.T) {
	c := NewClock(0)
	assert.Equal(t, DefaultTickInterval, c.Interval())
	c.SetInterval(500 * time.Millisecond)
	assert.Equal(t, 500*time.Millisecond, c.Interval())
	c.SetInterval(-1)
	assert.Equal(t, DefaultTickInterval, c.Interval())
}

func TestClockReset(t *testing.T) {
	c := NewClock(time.Second)
	c.Resume()
	c.Advance(900 * time.Millisecond)
	c.Reset()
	assert.False(t, c.Advance(900*time.Millisecond))
}
