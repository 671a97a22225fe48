package reconciler

import "fmt"

// reconcileChildUnits builds the child list of parent for the next children
// description and returns its first unit.
//
// Children are never matched against the previous list: every entry gets a
// brand-new unit. With trackEffects, new units are flagged for placement and
// the previous list is queued on the parent for removal.
func (e *Engine) reconcileChildUnits(parent, prevFirst UnitID, next Node, trackEffects bool) UnitID {
	if trackEffects && prevFirst != NoUnit {
		e.deleteRemainingChildren(parent, prevFirst)
	}

	first, prev := NoUnit, NoUnit
	for i, entry := range normalizeChildren(next) {
		id := e.createChild(entry)

		u := e.arena.Get(id)
		u.Return = parent
		u.Index = i
		e.placeChild(id, trackEffects)

		if prev == NoUnit {
			first = id
		} else {
			e.arena.Get(prev).Sibling = id
		}
		prev = id
	}

	return first
}

func (e *Engine) deleteRemainingChildren(parent, first UnitID) {
	p := e.arena.Get(parent)
	for id := first; id != NoUnit; id = e.arena.Get(id).Sibling {
		p.Deletions = append(p.Deletions, id)
	}
	p.Flags |= ChildDeletion
}

func (e *Engine) placeChild(id UnitID, trackEffects bool) {
	u := e.arena.Get(id)
	if trackEffects && u.Alternate == NoUnit {
		u.Flags |= Placement
	}
}

// createChild allocates the unit for one normalized children entry.
func (e *Engine) createChild(entry Node) UnitID {
	if text, ok := textOf(entry); ok {
		id := e.arena.Alloc()
		u := e.arena.Get(id)
		u.Kind = KindHostText
		u.PendingProps = text
		return id
	}

	switch el := entry.(type) {
	case *Element:
		if el != nil {
			return e.createFromElement(el)
		}
	case Element:
		return e.createFromElement(&el)
	}

	panic(fmt.Errorf("%w: %T", ErrInvalidChild, entry))
}

func (e *Engine) createFromElement(el *Element) UnitID {
	kind, typ, err := classify(el.Type)
	if err != nil {
		panic(err)
	}

	props := el.Props
	if props == nil {
		props = Props{}
	}

	id := e.arena.Alloc()
	u := e.arena.Get(id)
	u.Kind = kind
	u.Key = el.Key
	u.ElementType = typ
	u.PendingProps = props
	return id
}
