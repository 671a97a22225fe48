package scheduler

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

// DefaultFrameBudget is how long a flush may run ready tasks before yielding.
const DefaultFrameBudget = 5 * time.Millisecond

// Scheduler orders and time-slices callbacks on a single logical thread.
//
// Ready tasks live in a min-heap ordered by (expiration time, id); delayed
// tasks live in a second min-heap ordered by (start time, id) until they are
// promoted. Both heaps are owned by the scheduler and guarded by mu; callbacks
// always run with mu released so they may schedule or cancel other tasks.
type Scheduler struct {
	mu sync.Mutex

	clock       Clock
	loop        Loop
	logger      *slog.Logger
	frameBudget time.Duration

	taskQueue  *taskQueue
	timerQueue *taskQueue

	taskIDCounter uint64

	currentTask     *Task
	currentPriority Priority

	// start of the current time slice
	sliceStart time.Time

	isPerformingWork        bool
	isHostCallbackScheduled bool
	isMessageLoopRunning    bool

	isHostTimeoutScheduled bool
	hostTimeoutToken       uint64
	cancelHostTimeout      func()
}

type Option func(*Scheduler)

// WithClock sets the time source. Default: SystemClock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithLoop sets the host loop providing ticks and timers. Default: a new GoroutineLoop.
func WithLoop(l Loop) Option {
	return func(s *Scheduler) {
		s.loop = l
	}
}

// WithFrameBudget sets the time slice length. Default: DefaultFrameBudget.
func WithFrameBudget(d time.Duration) Option {
	return func(s *Scheduler) {
		s.frameBudget = d
	}
}

// WithLogger sets the debug logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		frameBudget:     DefaultFrameBudget,
		taskQueue:       newTaskQueue(),
		timerQueue:      newTaskQueue(),
		currentPriority: NormalPriority,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.clock == nil {
		s.clock = SystemClock()
	}
	if s.loop == nil {
		s.loop = NewGoroutineLoop()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return s
}

var (
	defaultOnce      sync.Once
	defaultScheduler *Scheduler
)

// Default returns the process-wide scheduler, created on first use with a
// GoroutineLoop and the system clock.
func Default() *Scheduler {
	defaultOnce.Do(func() {
		defaultScheduler = New()
	})

	return defaultScheduler
}

type scheduleOptions struct {
	delay time.Duration
}

type ScheduleOption func(*scheduleOptions)

// WithDelay makes the task eligible only once d has elapsed.
func WithDelay(d time.Duration) ScheduleOption {
	return func(o *scheduleOptions) {
		o.delay = d
	}
}

// Schedule queues cb at the given priority and returns its task.
func (s *Scheduler) Schedule(priority Priority, cb Callback, opts ...ScheduleOption) *Task {
	var o scheduleOptions
	for _, opt := range opts {
		opt(&o)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	startTime := now
	if o.delay > 0 {
		startTime = now.Add(o.delay)
	}

	s.taskIDCounter++
	task := &Task{
		ID:             s.taskIDCounter,
		Priority:       priority,
		StartTime:      startTime,
		ExpirationTime: startTime.Add(priority.Timeout()),
		callback:       cb,
	}

	if startTime.After(now) {
		task.sortIndex = startTime
		s.timerQueue.Push(task)

		// with ready work pending, the flush arms the timer when it drains
		if s.taskQueue.Peek() == nil && s.timerQueue.Peek() == task {
			s.requestHostTimeout(startTime.Sub(now))
		}
		return task
	}

	task.sortIndex = task.ExpirationTime
	s.taskQueue.Push(task)

	if !s.isHostCallbackScheduled && !s.isPerformingWork {
		s.isHostCallbackScheduled = true
		s.requestHostCallback()
	}

	return task
}

// Cancel tombstones the task. A task that already started is not interrupted.
func (s *Scheduler) Cancel(task *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task.callback = nil
}

// CurrentPriority returns the priority of the running task, NormalPriority
// when none is running.
func (s *Scheduler) CurrentPriority() Priority {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPriority
}

// RunWithPriority runs fn with CurrentPriority reporting p, restoring the
// previous priority on every exit path.
func (s *Scheduler) RunWithPriority(p Priority, fn func()) {
	s.mu.Lock()
	prev := s.currentPriority
	s.currentPriority = p
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.currentPriority = prev
		s.mu.Unlock()
	}()

	fn()
}

// ShouldYield reports whether the current time slice is used up.
func (s *Scheduler) ShouldYield() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shouldYieldLocked()
}

func (s *Scheduler) shouldYieldLocked() bool {
	return s.clock.Now().Sub(s.sliceStart) >= s.frameBudget
}

// Stats is a point-in-time view of the queues.
type Stats struct {
	Ready   int
	Delayed int
}

func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Ready: s.taskQueue.Len(), Delayed: s.timerQueue.Len()}
}

// requestHostCallback starts the message loop if it is not already running.
func (s *Scheduler) requestHostCallback() {
	if !s.isMessageLoopRunning {
		s.isMessageLoopRunning = true
		s.loop.RequestTick(s.performWorkUntilDeadline)
	}
}

// requestHostTimeout (re)arms the single host timer.
func (s *Scheduler) requestHostTimeout(d time.Duration) {
	if s.cancelHostTimeout != nil {
		s.cancelHostTimeout()
	}

	s.isHostTimeoutScheduled = true
	s.hostTimeoutToken++
	token := s.hostTimeoutToken

	s.logger.Debug("arming host timer", "delay", d)
	s.cancelHostTimeout = s.loop.RequestTimeout(d, func() { s.handleTimeout(token) })
}

func (s *Scheduler) clearHostTimeout() {
	if s.cancelHostTimeout != nil {
		s.cancelHostTimeout()
		s.cancelHostTimeout = nil
	}
	s.isHostTimeoutScheduled = false
}

func (s *Scheduler) handleTimeout(token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// a newer timer replaced this one
	if token != s.hostTimeoutToken {
		return
	}
	s.isHostTimeoutScheduled = false
	s.cancelHostTimeout = nil

	now := s.clock.Now()
	s.advanceTimers(now)

	if s.isHostCallbackScheduled {
		return
	}
	if s.taskQueue.Peek() != nil {
		s.isHostCallbackScheduled = true
		s.requestHostCallback()
	} else if first := s.timerQueue.Peek(); first != nil {
		s.requestHostTimeout(first.StartTime.Sub(now))
	}
}

// advanceTimers promotes every delayed task whose start time has come.
func (s *Scheduler) advanceTimers(now time.Time) {
	for timer := s.timerQueue.Peek(); timer != nil; timer = s.timerQueue.Peek() {
		switch {
		case timer.callback == nil:
			s.timerQueue.Pop()
		case !timer.StartTime.After(now):
			s.timerQueue.Pop()
			timer.sortIndex = timer.ExpirationTime
			s.taskQueue.Push(timer)
		default:
			return
		}
	}
}

// performWorkUntilDeadline is one host tick.
func (s *Scheduler) performWorkUntilDeadline() {
	s.mu.Lock()
	if !s.isMessageLoopRunning {
		s.mu.Unlock()
		return
	}
	now := s.clock.Now()
	s.sliceStart = now
	s.mu.Unlock()

	hasMoreWork := true
	defer func() { s.finishTick(hasMoreWork) }()

	hasMoreWork = s.flushWork(now)
}

// finishTick keeps the message loop running while work is left. A task
// scheduled from another goroutine after the flush's last look at the ready
// queue did not request a tick, so the queue is checked again here.
func (s *Scheduler) finishTick(hasMoreWork bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if hasMoreWork || s.taskQueue.Peek() != nil {
		s.loop.RequestTick(s.performWorkUntilDeadline)
		return
	}
	s.isMessageLoopRunning = false
}

func (s *Scheduler) flushWork(initialTime time.Time) bool {
	s.mu.Lock()
	s.isHostCallbackScheduled = false
	if s.isHostTimeoutScheduled {
		// the flush re-arms the timer for whatever is left
		s.clearHostTimeout()
	}
	s.isPerformingWork = true
	previousPriority := s.currentPriority
	s.mu.Unlock()

	defer s.finishFlush(previousPriority)

	return s.workLoop(initialTime)
}

func (s *Scheduler) finishFlush(previousPriority Priority) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentTask = nil
	s.currentPriority = previousPriority
	s.isPerformingWork = false
}

func (s *Scheduler) workLoop(initialTime time.Time) bool {
	s.mu.Lock()
	locked := true
	defer func() {
		if locked {
			s.mu.Unlock()
		}
	}()

	currentTime := initialTime
	s.advanceTimers(currentTime)
	s.currentTask = s.taskQueue.Peek()

	for s.currentTask != nil {
		task := s.currentTask
		if task.ExpirationTime.After(currentTime) && s.shouldYieldLocked() {
			s.logger.Debug("yielding", "task", task.ID)
			break
		}

		callback := task.callback
		if callback == nil {
			s.taskQueue.Pop()
			s.currentTask = s.taskQueue.Peek()
			continue
		}

		task.callback = nil
		s.currentPriority = task.Priority
		didTimeout := !task.ExpirationTime.After(currentTime)

		s.mu.Unlock()
		locked = false
		result := callback(didTimeout)
		s.mu.Lock()
		locked = true

		currentTime = s.clock.Now()
		if !result.IsDone() {
			task.callback = result.next
			s.advanceTimers(currentTime)
			return true
		}

		// the callback may have scheduled something more urgent
		if s.taskQueue.Peek() == task {
			s.taskQueue.Pop()
		}
		s.advanceTimers(currentTime)
		s.currentTask = s.taskQueue.Peek()
	}

	if s.currentTask != nil {
		return true
	}

	if first := s.timerQueue.Peek(); first != nil {
		s.requestHostTimeout(first.StartTime.Sub(currentTime))
	}
	return false
}
