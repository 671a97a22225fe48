package scheduler

import (
	"sync"
	"time"
)

// Loop is the host side of the scheduler: it runs ticks and fires timers,
// always on a single logical thread.
type Loop interface {
	// RequestTick asks the loop to call fn soon, after the current tick returns.
	RequestTick(fn func())

	// RequestTimeout asks the loop to call fn once d has elapsed.
	// The returned function cancels the timer if it has not fired yet.
	RequestTimeout(d time.Duration, fn func()) (cancel func())
}

// GoroutineLoop runs every tick on one dedicated goroutine.
//
// Ticks are kept in an unbounded FIFO so that a tick may request further ticks
// without blocking. A panicking tick is not recovered and takes the process down.
type GoroutineLoop struct {
	mu     sync.Mutex
	ticks  []func()
	closed bool
	signal chan struct{} // buffered, size 1
	done   chan struct{}
}

func NewGoroutineLoop() *GoroutineLoop {
	l := &GoroutineLoop{
		ticks:  make([]func(), 0, 16),
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *GoroutineLoop) RequestTick(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.ticks = append(l.ticks, fn)

	// non-blocking, the buffer coalesces multiple signals
	select {
	case l.signal <- struct{}{}:
	default:
	}
}

func (l *GoroutineLoop) RequestTimeout(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() { l.RequestTick(fn) })
	return func() { t.Stop() }
}

// Close stops the loop. Pending ticks are dropped.
func (l *GoroutineLoop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.closed = true
	close(l.done)
}

func (l *GoroutineLoop) run() {
	for {
		select {
		case <-l.done:
			return
		case <-l.signal:
		}

		for {
			fn, ok := l.next()
			if !ok {
				break
			}
			fn()
		}
	}
}

func (l *GoroutineLoop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || len(l.ticks) == 0 {
		return nil, false
	}

	fn := l.ticks[0]
	l.ticks[0] = nil
	if len(l.ticks) == 1 {
		l.ticks = l.ticks[:0]
	} else {
		l.ticks = l.ticks[1:]
	}
	return fn, true
}

// ManualLoop is a deterministic Loop driven by the caller, paired with a
// ManualClock. Nothing runs until RunUntilIdle or Advance is called.
type ManualLoop struct {
	mu     sync.Mutex
	clock  *ManualClock
	ticks  []func()
	timers []*manualTimer
	seq    uint64
}

type manualTimer struct {
	when      time.Time
	seq       uint64
	fn        func()
	cancelled bool
}

func NewManualLoop(clock *ManualClock) *ManualLoop {
	return &ManualLoop{clock: clock}
}

func (l *ManualLoop) RequestTick(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ticks = append(l.ticks, fn)
}

func (l *ManualLoop) RequestTimeout(d time.Duration, fn func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	t := &manualTimer{when: l.clock.Now().Add(d), seq: l.seq, fn: fn}
	l.timers = append(l.timers, t)

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		t.cancelled = true
	}
}

// Step runs the oldest pending tick, if any.
func (l *ManualLoop) Step() bool {
	l.mu.Lock()
	if len(l.ticks) == 0 {
		l.mu.Unlock()
		return false
	}
	fn := l.ticks[0]
	l.ticks = l.ticks[1:]
	l.mu.Unlock()

	fn()
	return true
}

// RunUntilIdle runs pending ticks and due timers until neither is left.
// The clock does not move.
func (l *ManualLoop) RunUntilIdle() {
	for {
		if l.Step() {
			continue
		}
		if l.fireDueTimer() {
			continue
		}
		return
	}
}

// Advance moves the clock forward by d and runs everything that became due.
func (l *ManualLoop) Advance(d time.Duration) {
	l.clock.Advance(d)
	l.RunUntilIdle()
}

// Pending reports the number of queued ticks and armed timers.
func (l *ManualLoop) Pending() (ticks, timers int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, t := range l.timers {
		if !t.cancelled {
			timers++
		}
	}
	return len(l.ticks), timers
}

func (l *ManualLoop) fireDueTimer() bool {
	l.mu.Lock()
	now := l.clock.Now()

	var due *manualTimer
	dueIdx := -1
	live := l.timers[:0]
	for _, t := range l.timers {
		if t.cancelled {
			continue
		}
		live = append(live, t)
	}
	l.timers = live

	for i, t := range l.timers {
		if t.when.After(now) {
			continue
		}
		if due == nil || t.when.Before(due.when) || (t.when.Equal(due.when) && t.seq < due.seq) {
			due, dueIdx = t, i
		}
	}
	if due == nil {
		l.mu.Unlock()
		return false
	}
	l.timers = append(l.timers[:dueIdx], l.timers[dueIdx+1:]...)
	l.mu.Unlock()

	due.fn()
	return true
}
