package reconciler

import "fmt"

// completeWork finalizes the host side of a unit once its children are done.
func (e *Engine) completeWork(current, id UnitID) {
	switch u := e.arena.Get(id); u.Kind {
	case KindRoot, KindFragment, KindFunctionComponent, KindClassComponent:
		return
	case KindHostElement:
		e.completeHostComponent(current, id)
	case KindHostText:
		e.completeHostText(current, id)
	default:
		panic(fmt.Errorf("%w: %v in complete phase", ErrUnknownKind, u.Kind))
	}
}

func (e *Engine) completeHostComponent(current, id UnitID) {
	u := e.arena.Get(id)
	props := u.props()

	if u.StateNode != nil {
		prev, _ := u.MemoizedProps.(Props)
		if cur := e.arena.Get(current); cur != nil {
			prev, _ = cur.MemoizedProps.(Props)
		}
		if SameValue(prev, props) {
			return
		}

		if changes := diffProperties(prev, props); len(changes) > 0 {
			u.updatePayload = changes
			u.Flags |= Update
		}
		return
	}

	tag, _ := u.ElementType.(string)
	el := e.host.CreateElement(tag)
	e.setInitialProperties(el, props)
	e.appendAllChildren(el, id)
	u.StateNode = el
}

func (e *Engine) completeHostText(current, id UnitID) {
	u := e.arena.Get(id)
	text, _ := u.PendingProps.(string)

	if u.StateNode != nil {
		prev, _ := u.MemoizedProps.(string)
		if cur := e.arena.Get(current); cur != nil {
			prev, _ = cur.MemoizedProps.(string)
		}
		if prev != text {
			u.Flags |= Update
		}
		return
	}

	u.StateNode = e.host.CreateText(text)
}

// appendAllChildren attaches the top-level host objects below id to el,
// looking through components and fragments but not into host elements.
func (e *Engine) appendAllChildren(el any, id UnitID) {
	node := e.arena.Get(id).Child
	for node != NoUnit {
		n := e.arena.Get(node)

		if n.isHost() {
			e.host.AppendChild(el, n.StateNode)
		} else if n.Child != NoUnit {
			node = n.Child
			continue
		}

		for n.Sibling == NoUnit {
			if n.Return == id || n.Return == NoUnit {
				return
			}
			node = n.Return
			n = e.arena.Get(node)
		}
		node = n.Sibling
	}
}
