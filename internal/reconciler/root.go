package reconciler

import (
	"slices"

	"github.com/AnatoleLucet/weft/internal/scheduler"
)

// RootContainer is the unit of last-write-wins for one mount point.
type RootContainer struct {
	Container any

	// root unit of the committed tree
	Current UnitID

	// set only between the end of a render and its commit
	FinishedWork UnitID

	// pending passes, the head being the one in progress if any
	queue []passRequest

	// a newer request targets the pass in progress
	restart bool

	callbackTask *scheduler.Task
}

// passRequest is where a pass starts: the root, or a component whose state changed.
type passRequest struct {
	root bool
	ref  UnitRef
}

type rootState struct {
	element Node
}

func (e *Engine) createRootContainer(container any) *RootContainer {
	root := &RootContainer{Container: container}

	id := e.arena.Alloc()
	u := e.arena.Get(id)
	u.Kind = KindRoot
	u.StateNode = root
	u.MemoizedState = &rootState{}

	root.Current = id
	return root
}

// Render replaces the description rendered into the container.
func (e *Engine) Render(element Node) {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.updateContainer(element, e.root)
}

func (e *Engine) updateContainer(element Node, root *RootContainer) {
	current := e.arena.Get(root.Current)
	current.MemoizedState = &rootState{element: element}

	e.scheduleUpdate(root, root.Current)
}

// scheduleUpdate is the only way a pass starts. unit is either the root's
// current unit or a component whose state changed.
func (e *Engine) scheduleUpdate(root *RootContainer, unit UnitID) {
	var req passRequest
	if u := e.arena.Get(unit); u.Kind == KindRoot {
		req.root = true
	} else {
		req.ref = e.arena.Ref(unit)
	}

	inProgress := e.workInProgressRoot == root

	switch {
	case req.root:
		// a root pass rebuilds everything, queued component passes included
		root.queue = append(root.queue[:0], req)
		if inProgress {
			root.restart = true
		}
	case inProgress && len(root.queue) > 0 && root.queue[0] == req:
		root.restart = true
	case !slices.Contains(root.queue, req):
		root.queue = append(root.queue, req)
	}

	e.ensureRootIsScheduled(root)
}

func (e *Engine) ensureRootIsScheduled(root *RootContainer) {
	if root.callbackTask != nil {
		return
	}

	root.callbackTask = e.scheduler.Schedule(scheduler.NormalPriority, e.performWorkOnRoot)
}
