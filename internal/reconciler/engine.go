package reconciler

import (
	"io"
	"log/slog"

	"github.com/AnatoleLucet/weft/internal/scheduler"
)

// Engine renders descriptions into one host container. It owns the work unit
// arena, the pass state (what used to be module-level globals) and the hook
// cursor. Engines sharing a scheduler never overlap: each pass step is a task.
type Engine struct {
	lock reentrantMutex

	host      Host
	scheduler *scheduler.Scheduler
	logger    *slog.Logger

	arena *Arena
	root  *RootContainer

	executionContext executionContext

	// pass in progress
	workInProgressRoot *RootContainer
	workInProgress     UnitID
	passStart          UnitID
	ascending          bool
	savedRootChild     UnitID

	hooks   hookCursor
	passive passiveEffects
}

type Option func(*Engine)

// WithScheduler sets the scheduler running the engine's passes.
// Default: scheduler.Default().
func WithScheduler(s *scheduler.Scheduler) Option {
	return func(e *Engine) {
		e.scheduler = s
	}
}

// WithLogger sets the debug logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine creates an engine rendering into container through host.
func NewEngine(container any, host Host, opts ...Option) *Engine {
	e := &Engine{
		host:  host,
		arena: NewArena(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.scheduler == nil {
		e.scheduler = scheduler.Default()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e.root = e.createRootContainer(container)
	return e
}

// Root returns the engine's root container.
func (e *Engine) Root() *RootContainer {
	return e.root
}

// Arena exposes the unit store, mainly for inspection.
func (e *Engine) Arena() *Arena {
	return e.arena
}

// Scheduler returns the scheduler running the engine's passes.
func (e *Engine) Scheduler() *scheduler.Scheduler {
	return e.scheduler
}
