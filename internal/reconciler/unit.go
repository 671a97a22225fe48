package reconciler

import "fmt"

// UnitID addresses a WorkUnit in the arena. NoUnit is the "none" sentinel.
type UnitID uint32

const NoUnit UnitID = 0

// Kind is fixed when a unit is created.
type Kind uint8

const (
	KindRoot Kind = iota + 1
	KindHostElement
	KindHostText
	KindFunctionComponent
	KindClassComponent
	KindFragment
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindHostElement:
		return "host-element"
	case KindHostText:
		return "host-text"
	case KindFunctionComponent:
		return "function-component"
	case KindClassComponent:
		return "class-component"
	case KindFragment:
		return "fragment"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Flags is the effect bitset of a unit.
type Flags uint32

const (
	NoFlags       Flags = 0
	Placement     Flags = 1 << 1
	Update        Flags = 1 << 2
	ChildDeletion Flags = 1 << 4
)

func (f Flags) Has(flag Flags) bool { return f&flag != 0 }

// WorkUnit is one tree position during a render pass. Links are arena ids.
type WorkUnit struct {
	Kind        Kind
	Key         string
	ElementType any

	// Props for elements, the text for host text units.
	PendingProps  any
	MemoizedProps any

	// Hook list head for function components, *rootState for roots.
	MemoizedState any

	// Host object, component instance, or *RootContainer for roots.
	StateNode any

	Return  UnitID
	Child   UnitID
	Sibling UnitID
	Index   int

	Flags     Flags
	Alternate UnitID
	Deletions []UnitID

	// host mutations computed by completeWork, applied with Update
	updatePayload []propChange

	// set once the unit's subtree was removed from the host tree
	detached bool
}

func (u *WorkUnit) isHost() bool {
	return u.Kind == KindHostElement || u.Kind == KindHostText
}

func (u *WorkUnit) isHostParent() bool {
	return u.Kind == KindHostElement || u.Kind == KindRoot
}

func (u *WorkUnit) props() Props {
	p, _ := u.PendingProps.(Props)
	return p
}

// createWorkInProgress returns the alternate of current, creating it when
// missing, with the current generation's links and state copied over.
func (e *Engine) createWorkInProgress(current UnitID, pendingProps any) UnitID {
	cur := e.arena.Get(current)

	id := cur.Alternate
	if id == NoUnit {
		id = e.arena.Alloc()
		wip := e.arena.Get(id)
		wip.Kind = cur.Kind
		wip.Key = cur.Key
		wip.ElementType = cur.ElementType
		wip.StateNode = cur.StateNode
		wip.Alternate = current
		cur.Alternate = id
	}

	wip := e.arena.Get(id)
	wip.PendingProps = pendingProps
	wip.Flags = NoFlags
	wip.Deletions = nil
	wip.updatePayload = nil
	wip.detached = false

	wip.Child = cur.Child
	wip.MemoizedProps = cur.MemoizedProps
	wip.MemoizedState = cur.MemoizedState
	wip.Index = cur.Index
	wip.Sibling = cur.Sibling
	wip.Return = cur.Return

	return id
}

// snapshotAlternate gives a committed unit a copy of itself to act as the
// current generation while the unit is rendered again in place. A pending
// snapshot is kept as is: it still holds the committed state.
func (e *Engine) snapshotAlternate(id UnitID) UnitID {
	u := e.arena.Get(id)
	if u.Alternate != NoUnit {
		return u.Alternate
	}

	sid := e.arena.Alloc()
	snap := e.arena.Get(sid)
	*snap = *u
	snap.Deletions = nil
	snap.updatePayload = nil
	snap.Flags = NoFlags
	snap.Alternate = id
	u.Alternate = sid

	return sid
}

// resetFromAlternate restores the committed child list of a unit that is
// about to be rendered again from its snapshot.
func (e *Engine) resetFromAlternate(id UnitID) {
	u := e.arena.Get(id)
	if u.Alternate == NoUnit {
		return
	}

	snap := e.arena.Get(u.Alternate)
	u.Child = snap.Child
	u.MemoizedState = snap.MemoizedState
	u.Deletions = nil
	u.updatePayload = nil
	u.Flags = NoFlags
}
