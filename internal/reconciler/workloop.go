package reconciler

import (
	"github.com/AnatoleLucet/weft/internal/scheduler"
)

// performWorkOnRoot is the scheduler task of a root. Each call renders until
// the time slice is spent; a finished render is committed in the same call.
func (e *Engine) performWorkOnRoot(didTimeout bool) scheduler.Result {
	e.lock.Lock()
	defer e.lock.Unlock()

	root := e.root

	finished := false
	defer func() {
		if !finished {
			// a component or the host panicked, leave the engine usable
			e.resetAfterPanic(root)
		}
	}()

	if e.workInProgressRoot == nil || root.restart {
		if !e.prepareFreshStack(root) {
			root.callbackTask = nil
			finished = true
			return scheduler.Done()
		}
	}

	// an expired pass runs to completion
	e.runInContext(renderContext, func() {
		e.workLoop(!didTimeout)
	})

	if e.workInProgress != NoUnit || root.restart {
		finished = true
		return scheduler.Continue(e.performWorkOnRoot)
	}

	e.finishRender(root)
	e.runInContext(commitContext, func() {
		e.commitRoot(root)
	})

	finished = true
	if len(root.queue) > 0 {
		return scheduler.Continue(e.performWorkOnRoot)
	}

	root.callbackTask = nil
	return scheduler.Done()
}

// prepareFreshStack starts the pass at the head of the root's queue, dropping
// requests whose unit is gone. It reports false when nothing is left to do.
func (e *Engine) prepareFreshStack(root *RootContainer) bool {
	if e.workInProgressRoot != nil {
		e.abandonPass(root)
	}
	root.restart = false
	root.FinishedWork = NoUnit

	for len(root.queue) > 0 {
		req := root.queue[0]
		if req.root {
			break
		}

		id, ok := e.arena.Resolve(req.ref)
		if ok && e.isMounted(root, id) {
			break
		}

		e.logger.Debug("dropping update for unmounted unit", "unit", req.ref.ID)
		root.queue = root.queue[1:]
	}
	if len(root.queue) == 0 {
		return false
	}

	req := root.queue[0]
	e.workInProgressRoot = root
	e.ascending = false

	if req.root {
		e.savedRootChild = e.arena.Get(root.Current).Child
		wip := e.createWorkInProgress(root.Current, nil)
		e.passStart = wip
		e.workInProgress = wip
		e.logger.Debug("starting root pass", "unit", wip)
		return true
	}

	id, _ := e.arena.Resolve(req.ref)
	e.resetFromAlternate(id)
	e.passStart = id
	e.workInProgress = id
	e.logger.Debug("starting component pass", "unit", id)
	return true
}

// isMounted reports whether id belongs to the committed tree of root.
func (e *Engine) isMounted(root *RootContainer, id UnitID) bool {
	u := e.arena.Get(id)
	if u.detached {
		return false
	}
	for u.Return != NoUnit {
		id = u.Return
		u = e.arena.Get(id)
	}
	return id == root.Current
}

// abandonPass discards an uncommitted pass so the committed tree is intact
// for the next one.
func (e *Engine) abandonPass(root *RootContainer) {
	start := e.arena.Get(e.passStart)
	switch {
	case start == nil:
	case start.Kind == KindRoot:
		// beginWork already pointed the current root at the new children
		e.arena.Get(root.Current).Child = e.savedRootChild
	default:
		e.resetFromAlternate(e.passStart)
	}

	e.workInProgressRoot = nil
	e.workInProgress = NoUnit
	e.passStart = NoUnit
	e.savedRootChild = NoUnit
	e.ascending = false
}

func (e *Engine) resetAfterPanic(root *RootContainer) {
	if e.workInProgressRoot != nil {
		e.abandonPass(root)
	}
	if len(root.queue) > 0 {
		root.queue = root.queue[1:]
	}
	root.restart = false
	root.FinishedWork = NoUnit
	root.callbackTask = nil
	e.hooks = hookCursor{}
	e.executionContext = noContext

	if len(root.queue) > 0 {
		e.ensureRootIsScheduled(root)
	}
}

// workLoop performs units until the tree is done, or the slice is spent when
// timeSlice is set.
func (e *Engine) workLoop(timeSlice bool) {
	for e.workInProgress != NoUnit {
		if timeSlice && e.scheduler.ShouldYield() {
			return
		}
		e.performUnitOfWork(e.workInProgress)
	}
}

func (e *Engine) performUnitOfWork(id UnitID) {
	u := e.arena.Get(id)

	next := e.beginWork(u.Alternate, id)
	u.MemoizedProps = u.PendingProps

	if next == NoUnit {
		e.completeUnitOfWork(id)
	} else {
		e.workInProgress = next
	}
}

// completeUnitOfWork completes id, then moves to its sibling, or completes its
// parents until one has a sibling. Once the pass start is completed, only the
// return path up to the root is completed.
func (e *Engine) completeUnitOfWork(id UnitID) {
	completed := id
	for completed != NoUnit {
		u := e.arena.Get(completed)
		e.completeWork(u.Alternate, completed)

		if completed == e.passStart {
			e.ascending = true
		}

		if !e.ascending && u.Sibling != NoUnit {
			e.workInProgress = u.Sibling
			return
		}

		completed = u.Return
		e.workInProgress = completed
	}
}

// finishRender hands the finished tree over to the commit.
func (e *Engine) finishRender(root *RootContainer) {
	if e.arena.Get(e.passStart).Kind == KindRoot {
		root.FinishedWork = e.passStart
	} else {
		// component passes render inside the committed tree
		root.FinishedWork = root.Current
	}
}
