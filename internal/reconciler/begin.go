package reconciler

import "fmt"

// beginWork renders one unit and returns the child to descend into, NoUnit
// when the unit is a leaf. current is the unit's committed generation, if any.
func (e *Engine) beginWork(current, id UnitID) UnitID {
	switch u := e.arena.Get(id); u.Kind {
	case KindRoot:
		return e.updateHostRoot(current, id)
	case KindHostElement:
		return e.updateHostComponent(current, id)
	case KindHostText:
		return NoUnit
	case KindFragment:
		return e.updateFragment(current, id)
	case KindClassComponent:
		return e.updateClassComponent(current, id)
	case KindFunctionComponent:
		return e.updateFunctionComponent(current, id)
	default:
		panic(fmt.Errorf("%w: %v in begin phase", ErrUnknownKind, u.Kind))
	}
}

func (e *Engine) updateHostRoot(current, id UnitID) UnitID {
	u := e.arena.Get(id)
	state, _ := u.MemoizedState.(*rootState)

	var next Node
	if state != nil {
		next = state.element
	}

	e.reconcileChildren(current, id, next)

	// the committed root follows the new children right away
	if cur := e.arena.Get(current); cur != nil {
		cur.Child = u.Child
	}
	return u.Child
}

func (e *Engine) updateHostComponent(current, id UnitID) UnitID {
	u := e.arena.Get(id)
	tag, _ := u.ElementType.(string)
	props := u.props()

	if shouldSetTextContent(tag, props) {
		// content is applied as a host property in completeWork
		if cur := e.arena.Get(current); cur != nil && cur.Child != NoUnit {
			e.deleteRemainingChildren(id, cur.Child)
		}
		u.Child = NoUnit
		return NoUnit
	}

	e.reconcileChildren(current, id, props.Children())
	return u.Child
}

func (e *Engine) updateFragment(current, id UnitID) UnitID {
	u := e.arena.Get(id)
	e.reconcileChildren(current, id, u.props().Children())
	return u.Child
}

func (e *Engine) updateClassComponent(current, id UnitID) UnitID {
	u := e.arena.Get(id)
	props := u.props()

	instance, _ := u.StateNode.(Instance)
	if current == NoUnit || instance == nil {
		ctor := u.ElementType.(ClassType)
		instance = ctor(props)
		u.StateNode = instance
	}
	if r, ok := instance.(PropsReceiver); ok {
		r.SetProps(props)
	}
	if c, ok := instance.(ContextConsumer); ok {
		if src := c.ContextType(); src != nil {
			c.SetContext(src.CurrentValue())
		}
	}

	e.reconcileChildren(current, id, instance.Render())
	return u.Child
}

func (e *Engine) updateFunctionComponent(current, id UnitID) UnitID {
	u := e.arena.Get(id)
	fn := u.ElementType.(FunctionComponent)

	children := e.renderWithHooks(current, id, fn, u.props())
	e.reconcileChildren(current, id, children)
	return u.Child
}

// reconcileChildren tracks effects only when the unit has a committed
// generation. Subtrees mounted from scratch are attached by their nearest
// placed ancestor instead.
func (e *Engine) reconcileChildren(current, id UnitID, next Node) {
	u := e.arena.Get(id)

	if cur := e.arena.Get(current); cur != nil {
		u.Child = e.reconcileChildUnits(id, cur.Child, next, true)
		return
	}
	u.Child = e.reconcileChildUnits(id, NoUnit, next, false)
}

// shouldSetTextContent reports whether a host element renders its content
// itself rather than through child units.
func shouldSetTextContent(tag string, props Props) bool {
	if tag == "textarea" || tag == "noscript" {
		return true
	}
	if _, ok := textOf(props.Children()); ok {
		return true
	}
	return props[RawHTMLProp] != nil
}
