package reconciler

import "fmt"

// commitRoot applies the finished pass to the host tree and makes it the
// committed tree.
func (e *Engine) commitRoot(root *RootContainer) {
	finished := root.FinishedWork
	e.logger.Debug("committing", "unit", finished, "live", e.arena.Live())

	e.commitMutationEffects(finished)

	root.Current = finished
	root.FinishedWork = NoUnit
	if len(root.queue) > 0 {
		root.queue = root.queue[1:]
	}

	e.workInProgressRoot = nil
	e.workInProgress = NoUnit
	e.passStart = NoUnit
	e.savedRootChild = NoUnit
	e.ascending = false

	e.sweep(root)
	e.schedulePassiveEffects()
}

// commitMutationEffects removes deletions first, then visits the children,
// then applies the unit's own flags.
func (e *Engine) commitMutationEffects(id UnitID) {
	u := e.arena.Get(id)

	if u.Flags.Has(ChildDeletion) {
		for _, deleted := range u.Deletions {
			e.commitDeletion(deleted)
		}
		u.Deletions = nil
		u.Flags &^= ChildDeletion
	}

	for child := u.Child; child != NoUnit; child = e.arena.Get(child).Sibling {
		e.commitMutationEffects(child)
	}

	if u.Flags.Has(Placement) {
		e.commitPlacement(id)
		u.Flags &^= Placement
	}
	if u.Flags.Has(Update) {
		e.commitWork(id)
		u.Flags &^= Update
	}
}

func (e *Engine) commitWork(id UnitID) {
	u := e.arena.Get(id)
	switch u.Kind {
	case KindHostElement:
		e.commitUpdate(u.StateNode, u.updatePayload)
		u.updatePayload = nil
	case KindHostText:
		text, _ := u.PendingProps.(string)
		e.host.SetText(u.StateNode, text)
	}
}

func (e *Engine) commitPlacement(id UnitID) {
	parent := e.hostParentObject(id)
	before := e.getHostSibling(id)

	for _, obj := range e.topLevelHosts(id) {
		if before != nil {
			e.host.InsertBefore(parent, obj, before)
		} else {
			e.host.AppendChild(parent, obj)
		}
	}
}

func (e *Engine) commitDeletion(id UnitID) {
	parent := e.hostParentObject(id)
	for _, obj := range e.topLevelHosts(id) {
		e.host.RemoveChild(parent, obj)
	}

	e.markDetached(id)
}

func (e *Engine) markDetached(id UnitID) {
	u := e.arena.Get(id)
	u.detached = true
	for child := u.Child; child != NoUnit; child = e.arena.Get(child).Sibling {
		e.markDetached(child)
	}
}

// hostParentObject returns the host object of the nearest ancestor able to
// hold host children.
func (e *Engine) hostParentObject(id UnitID) any {
	for parent := e.arena.Get(id).Return; parent != NoUnit; parent = e.arena.Get(parent).Return {
		p := e.arena.Get(parent)
		if !p.isHostParent() {
			continue
		}
		if p.Kind == KindRoot {
			return p.StateNode.(*RootContainer).Container
		}
		return p.StateNode
	}

	panic(fmt.Errorf("%w: unit %d", ErrNoHostParent, id))
}

// getHostSibling finds the host object to insert before: the first host
// object after id, in tree order within the same host parent, that is not
// being placed itself.
func (e *Engine) getHostSibling(id UnitID) any {
	node := e.arena.Get(id)

siblings:
	for {
		for node.Sibling == NoUnit {
			if node.Return == NoUnit {
				return nil
			}
			parent := e.arena.Get(node.Return)
			if parent.isHostParent() {
				return nil
			}
			node = parent
		}

		node = e.arena.Get(node.Sibling)
		for !node.isHost() {
			if node.Flags.Has(Placement) || node.Child == NoUnit {
				continue siblings
			}
			node = e.arena.Get(node.Child)
		}

		if !node.Flags.Has(Placement) {
			return node.StateNode
		}
	}
}

// topLevelHosts returns the host objects of id's subtree that attach directly
// to its host parent.
func (e *Engine) topLevelHosts(id UnitID) []any {
	u := e.arena.Get(id)
	if u.isHost() {
		return []any{u.StateNode}
	}

	var out []any
	for child := u.Child; child != NoUnit; child = e.arena.Get(child).Sibling {
		out = append(out, e.topLevelHosts(child)...)
	}
	return out
}

// sweep drops the generations nobody needs anymore and reclaims unreachable
// units. The root keeps its alternate for the next root pass, and units with
// a queued pass keep a snapshot of what was just committed.
func (e *Engine) sweep(root *RootContainer) {
	queued := make(map[UnitID]bool, len(root.queue))
	for _, req := range root.queue {
		if req.root {
			continue
		}
		if id, ok := e.arena.Resolve(req.ref); ok {
			queued[id] = true
		}
	}

	current := e.arena.Get(root.Current)
	keep := []UnitID{current.Alternate}

	var visit func(id UnitID)
	visit = func(id UnitID) {
		for ; id != NoUnit; id = e.arena.Get(id).Sibling {
			u := e.arena.Get(id)
			if u.Alternate != NoUnit {
				e.arena.Get(u.Alternate).Alternate = NoUnit
				u.Alternate = NoUnit
			}
			if queued[id] {
				keep = append(keep, e.snapshotAlternate(id))
			}
			visit(u.Child)
		}
	}
	visit(current.Child)

	freed := e.arena.Sweep([]UnitID{root.Current}, keep)
	e.logger.Debug("swept arena", "freed", freed, "live", e.arena.Live())
}
