package reconciler

import "github.com/AnatoleLucet/weft/internal/scheduler"

// passiveEffects collects work deferred past a commit. Nothing in the core
// enqueues into it yet: the flush is scheduled after every commit and runs
// whatever is there, which today is nothing.
type passiveEffects struct {
	effects []func()
	task    *scheduler.Task
}

func (q *passiveEffects) Enqueue(fn func()) {
	q.effects = append(q.effects, fn)
}

func (q *passiveEffects) Run() {
	effects := q.effects
	q.effects = nil

	for _, effect := range effects {
		effect()
	}
}

func (e *Engine) schedulePassiveEffects() {
	if e.passive.task != nil {
		return
	}
	e.passive.task = e.scheduler.Schedule(scheduler.NormalPriority, e.flushPassiveEffects)
}

func (e *Engine) flushPassiveEffects(bool) scheduler.Result {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.passive.task = nil
	e.passive.Run()
	return scheduler.Done()
}
