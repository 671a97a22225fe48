package scheduler

import (
	"math/rand"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManual(t *testing.T, opts ...Option) (*Scheduler, *ManualLoop, *ManualClock) {
	t.Helper()

	clock := NewManualClock()
	loop := NewManualLoop(clock)
	s := New(append([]Option{WithClock(clock), WithLoop(loop)}, opts...)...)
	return s, loop, clock
}

func record(log *[]string, name string) Callback {
	return func(bool) Result {
		*log = append(*log, name)
		return Done()
	}
}

func TestTaskQueue(t *testing.T) {
	t.Run("pops in (sortIndex, id) order", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		q := newTaskQueue()
		base := time.Unix(0, 0)

		for i := 1; i <= 200; i++ {
			q.Push(&Task{ID: uint64(i), sortIndex: base.Add(time.Duration(rng.Intn(20)) * time.Millisecond)})
			if i%7 == 0 {
				q.Pop()
			}
		}

		var prev *Task
		for q.Len() > 0 {
			next := q.Pop()
			if prev != nil {
				assert.LessOrEqual(t, compareTasks(prev, next), 0, "task %d popped before %d", prev.ID, next.ID)
			}
			prev = next
		}
		assert.Nil(t, q.Peek())
		assert.Nil(t, q.Pop())
	})

	t.Run("ties broken by id", func(t *testing.T) {
		q := newTaskQueue()
		at := time.Unix(10, 0)
		q.Push(&Task{ID: 3, sortIndex: at})
		q.Push(&Task{ID: 1, sortIndex: at})
		q.Push(&Task{ID: 2, sortIndex: at})

		assert.Equal(t, uint64(1), q.Pop().ID)
		assert.Equal(t, uint64(2), q.Pop().ID)
		assert.Equal(t, uint64(3), q.Pop().ID)
	})
}

func TestSchedule(t *testing.T) {
	t.Run("equal priority runs in scheduling order", func(t *testing.T) {
		s, loop, clock := newManual(t)
		log := []string{}

		s.Schedule(NormalPriority, record(&log, "first"))
		clock.Advance(time.Millisecond)
		s.Schedule(NormalPriority, record(&log, "second"))

		loop.RunUntilIdle()
		assert.Equal(t, []string{"first", "second"}, log)
	})

	t.Run("priorities run in expiration order", func(t *testing.T) {
		s, loop, _ := newManual(t)
		log := []string{}

		s.Schedule(IdlePriority, record(&log, "idle"))
		s.Schedule(NormalPriority, record(&log, "normal"))
		s.Schedule(ImmediatePriority, record(&log, "immediate"))

		loop.RunUntilIdle()
		assert.Equal(t, []string{"immediate", "normal", "idle"}, log)
	})

	t.Run("didTimeout reflects expiration", func(t *testing.T) {
		s, loop, _ := newManual(t)
		timeouts := map[string]bool{}

		s.Schedule(ImmediatePriority, func(didTimeout bool) Result {
			timeouts["immediate"] = didTimeout
			return Done()
		})
		s.Schedule(NormalPriority, func(didTimeout bool) Result {
			timeouts["normal"] = didTimeout
			return Done()
		})

		loop.RunUntilIdle()
		assert.Equal(t, map[string]bool{"immediate": true, "normal": false}, timeouts)
	})

	t.Run("current priority follows the running task", func(t *testing.T) {
		s, loop, _ := newManual(t)
		var seen Priority

		s.Schedule(UserBlockingPriority, func(bool) Result {
			seen = s.CurrentPriority()
			return Done()
		})

		assert.Equal(t, NormalPriority, s.CurrentPriority())
		loop.RunUntilIdle()
		assert.Equal(t, UserBlockingPriority, seen)
		assert.Equal(t, NormalPriority, s.CurrentPriority())
	})

	t.Run("cancelled task never runs", func(t *testing.T) {
		s, loop, _ := newManual(t)
		log := []string{}

		task := s.Schedule(NormalPriority, record(&log, "cancelled"))
		s.Schedule(NormalPriority, record(&log, "kept"))
		s.Cancel(task)

		loop.RunUntilIdle()
		assert.Equal(t, []string{"kept"}, log)
		assert.True(t, task.Cancelled())
		assert.Equal(t, Stats{}, s.Stats())
	})

	t.Run("tasks scheduled from a callback run in the same flush", func(t *testing.T) {
		s, loop, _ := newManual(t)
		log := []string{}

		s.Schedule(NormalPriority, func(bool) Result {
			log = append(log, "outer")
			s.Schedule(ImmediatePriority, record(&log, "inner"))
			return Done()
		})

		require.True(t, loop.Step())
		assert.Equal(t, []string{"outer", "inner"}, log)
	})
}

func TestContinuation(t *testing.T) {
	s, loop, _ := newManual(t)
	log := []string{}

	s.Schedule(NormalPriority, func(bool) Result {
		log = append(log, "a1")
		return Continue(func(bool) Result {
			log = append(log, "a2")
			return Done()
		})
	})
	s.Schedule(NormalPriority, record(&log, "b"))

	require.True(t, loop.Step())
	assert.Equal(t, []string{"a1"}, log, "a continuation ends the flush")

	loop.RunUntilIdle()
	assert.Equal(t, []string{"a1", "a2", "b"}, log, "the continued task keeps its position")
}

func TestShouldYield(t *testing.T) {
	t.Run("flush yields once the frame budget is spent", func(t *testing.T) {
		s, loop, clock := newManual(t)
		log := []string{}

		for _, name := range []string{"a", "b", "c"} {
			s.Schedule(NormalPriority, func(bool) Result {
				clock.Advance(3 * time.Millisecond)
				log = append(log, name)
				return Done()
			})
		}

		require.True(t, loop.Step())
		assert.Equal(t, []string{"a", "b"}, log)

		loop.RunUntilIdle()
		assert.Equal(t, []string{"a", "b", "c"}, log)
	})

	t.Run("expired tasks ignore the budget", func(t *testing.T) {
		s, loop, clock := newManual(t)
		count := 0

		for range 4 {
			s.Schedule(ImmediatePriority, func(bool) Result {
				clock.Advance(10 * time.Millisecond)
				count++
				return Done()
			})
		}

		require.True(t, loop.Step())
		assert.Equal(t, 4, count)
	})

	t.Run("custom budget", func(t *testing.T) {
		s, _, clock := newManual(t, WithFrameBudget(20*time.Millisecond))
		var early, late bool

		s.mu.Lock()
		s.sliceStart = clock.Now()
		s.mu.Unlock()

		clock.Advance(19 * time.Millisecond)
		early = s.ShouldYield()
		clock.Advance(time.Millisecond)
		late = s.ShouldYield()

		assert.False(t, early)
		assert.True(t, late)
	})
}

func TestDelayedTasks(t *testing.T) {
	t.Run("promoted no earlier than start time", func(t *testing.T) {
		s, loop, clock := newManual(t)
		log := []string{}

		task := s.Schedule(NormalPriority, record(&log, "delayed"), WithDelay(10*time.Millisecond))
		assert.Equal(t, Stats{Delayed: 1}, s.Stats())

		readyHead := func() *Task {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.advanceTimers(clock.Now())
			return s.taskQueue.Peek()
		}

		clock.Advance(9 * time.Millisecond)
		assert.Nil(t, readyHead())
		loop.RunUntilIdle()
		assert.Empty(t, log)

		clock.Advance(time.Millisecond)
		assert.Same(t, task, readyHead())
		loop.RunUntilIdle()
		assert.Equal(t, []string{"delayed"}, log)
	})

	t.Run("timer is re-armed for an earlier task", func(t *testing.T) {
		s, loop, _ := newManual(t)
		log := []string{}

		s.Schedule(NormalPriority, record(&log, "late"), WithDelay(100*time.Millisecond))
		s.Schedule(NormalPriority, record(&log, "early"), WithDelay(10*time.Millisecond))

		_, timers := loop.Pending()
		assert.Equal(t, 1, timers)

		loop.Advance(10 * time.Millisecond)
		assert.Equal(t, []string{"early"}, log)

		loop.Advance(90 * time.Millisecond)
		assert.Equal(t, []string{"early", "late"}, log)
	})

	t.Run("promoted tasks are ordered by expiration only", func(t *testing.T) {
		s, loop, _ := newManual(t)
		log := []string{}

		s.Schedule(LowPriority, record(&log, "low-delayed"), WithDelay(5*time.Millisecond))
		s.Schedule(LowPriority, record(&log, "low-later"), WithDelay(6*time.Millisecond))

		loop.Advance(6 * time.Millisecond)
		assert.Equal(t, []string{"low-delayed", "low-later"}, log)
	})

	t.Run("timer waits for pending ready work", func(t *testing.T) {
		s, loop, _ := newManual(t)
		log := []string{}

		s.Schedule(NormalPriority, record(&log, "ready"))
		s.Schedule(NormalPriority, record(&log, "delayed"), WithDelay(5*time.Millisecond))

		_, timers := loop.Pending()
		assert.Equal(t, 0, timers)

		loop.RunUntilIdle()
		assert.Equal(t, []string{"ready"}, log)
		_, timers = loop.Pending()
		assert.Equal(t, 1, timers)

		loop.Advance(5 * time.Millisecond)
		assert.Equal(t, []string{"ready", "delayed"}, log)
	})

	t.Run("cancelled timer is skipped", func(t *testing.T) {
		s, loop, _ := newManual(t)
		log := []string{}

		task := s.Schedule(NormalPriority, record(&log, "gone"), WithDelay(time.Millisecond))
		s.Cancel(task)

		loop.Advance(5 * time.Millisecond)
		assert.Empty(t, log)
		assert.Equal(t, Stats{}, s.Stats())
	})
}

func TestPanics(t *testing.T) {
	t.Run("panicking callback propagates and state is restored", func(t *testing.T) {
		s, loop, _ := newManual(t)
		log := []string{}

		s.Schedule(UserBlockingPriority, func(bool) Result {
			panic("boom")
		})
		s.Schedule(NormalPriority, record(&log, "after"))

		assert.PanicsWithValue(t, "boom", func() { loop.Step() })
		assert.Equal(t, NormalPriority, s.CurrentPriority())

		s.mu.Lock()
		assert.Nil(t, s.currentTask)
		assert.False(t, s.isPerformingWork)
		s.mu.Unlock()

		loop.RunUntilIdle()
		assert.Equal(t, []string{"after"}, log)
	})

	t.Run("RunWithPriority restores on panic", func(t *testing.T) {
		s, _, _ := newManual(t)

		assert.Panics(t, func() {
			s.RunWithPriority(IdlePriority, func() {
				assert.Equal(t, IdlePriority, s.CurrentPriority())
				panic("boom")
			})
		})
		assert.Equal(t, NormalPriority, s.CurrentPriority())
	})
}

func TestGoroutineLoop(t *testing.T) {
	loop := NewGoroutineLoop()
	defer loop.Close()

	s := New(WithLoop(loop))
	done := make(chan []string, 1)
	log := []string{}

	s.Schedule(NormalPriority, record(&log, "a"))
	s.Schedule(NormalPriority, func(bool) Result {
		log = append(log, "b")
		done <- log
		return Done()
	}, WithDelay(time.Millisecond))

	select {
	case got := <-done:
		assert.Equal(t, []string{"a", "b"}, got)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not run the tasks")
	}
}

func TestScheduleDuringFlushEnd(t *testing.T) {
	s, loop, _ := newManual(t)
	log := []string{}

	// the running flush already saw an empty ready queue
	s.mu.Lock()
	s.isMessageLoopRunning = true
	s.isPerformingWork = true
	s.mu.Unlock()

	s.Schedule(NormalPriority, record(&log, "late"))
	ticks, _ := loop.Pending()
	assert.Equal(t, 0, ticks)

	s.finishFlush(NormalPriority)
	s.finishTick(false)

	ticks, _ = loop.Pending()
	assert.Equal(t, 1, ticks)

	loop.RunUntilIdle()
	assert.Equal(t, []string{"late"}, log)

	s.mu.Lock()
	assert.False(t, s.isMessageLoopRunning)
	s.mu.Unlock()
}

func TestGoroutineLoopCrossGoroutine(t *testing.T) {
	loop := NewGoroutineLoop()
	defer loop.Close()

	s := New(WithLoop(loop))
	const n = 200

	var wg sync.WaitGroup
	wg.Add(n)
	go func() {
		for range n {
			s.Schedule(NormalPriority, func(bool) Result {
				wg.Done()
				return Done()
			})
			runtime.Gosched()
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("tasks left behind: %+v", s.Stats())
	}
}
