package weft

import (
	"log/slog"
	"time"

	"github.com/AnatoleLucet/weft/internal/scheduler"
)

type (
	Scheduler       = scheduler.Scheduler
	SchedulerOption = scheduler.Option
	Priority        = scheduler.Priority
	Task            = scheduler.Task
	Callback        = scheduler.Callback
	Result          = scheduler.Result
	ScheduleOption  = scheduler.ScheduleOption

	// Loop provides ticks and timers to a scheduler.
	Loop  = scheduler.Loop
	Clock = scheduler.Clock

	GoroutineLoop = scheduler.GoroutineLoop
	ManualLoop    = scheduler.ManualLoop
	ManualClock   = scheduler.ManualClock
)

const (
	ImmediatePriority    = scheduler.ImmediatePriority
	UserBlockingPriority = scheduler.UserBlockingPriority
	NormalPriority       = scheduler.NormalPriority
	LowPriority          = scheduler.LowPriority
	IdlePriority         = scheduler.IdlePriority
)

// NewScheduler creates a scheduler independent from the default one.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	return scheduler.New(opts...)
}

// DefaultScheduler is shared by roots created without WithScheduler.
func DefaultScheduler() *Scheduler {
	return scheduler.Default()
}

func WithLoop(l Loop) SchedulerOption { return scheduler.WithLoop(l) }
func WithClock(c Clock) SchedulerOption { return scheduler.WithClock(c) }
func WithFrameBudget(d time.Duration) SchedulerOption { return scheduler.WithFrameBudget(d) }

// WithSchedulerLogger sets the debug logger of a scheduler.
func WithSchedulerLogger(l *slog.Logger) SchedulerOption { return scheduler.WithLogger(l) }

// WithDelay makes a scheduled callback eligible only after d.
func WithDelay(d time.Duration) ScheduleOption { return scheduler.WithDelay(d) }

func Done() Result { return scheduler.Done() }
func Continue(next Callback) Result { return scheduler.Continue(next) }

func NewGoroutineLoop() *GoroutineLoop { return scheduler.NewGoroutineLoop() }
func NewManualClock() *ManualClock { return scheduler.NewManualClock() }

// NewManualLoop creates a loop that only runs when told to, for tests and
// tools that want renders to complete synchronously.
func NewManualLoop(clock *ManualClock) *ManualLoop { return scheduler.NewManualLoop(clock) }
