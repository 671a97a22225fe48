package scheduler

import (
	"sync"
	"time"
)

// Clock is the time source of a scheduler.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the monotonic wall clock.
func SystemClock() Clock {
	return systemClock{}
}

// ManualClock is a Clock that only moves when told to.
//
// Thread-safety: all methods are safe for concurrent use.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// manualEpoch is an arbitrary fixed origin so that tests never depend on the wall clock.
var manualEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

func NewManualClock() *ManualClock {
	return &ManualClock{now: manualEpoch}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
