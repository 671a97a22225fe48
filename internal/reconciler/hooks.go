package reconciler

import "fmt"

// hook is one slot of a function component's hook list. Slots are matched
// by call position only.
type hook struct {
	memoizedState any
	next          *hook
}

// hookCursor tracks the component being evaluated and the last slot handed out.
type hookCursor struct {
	unit    UnitID
	current UnitID

	workInProgressHook *hook
}

// renderWithHooks evaluates a function component with the hooks bound to id.
func (e *Engine) renderWithHooks(current, id UnitID, fn FunctionComponent, props Props) Node {
	e.arena.Get(id).MemoizedState = nil
	e.hooks = hookCursor{unit: id, current: current}

	unbind := bindRenderer(e)
	defer func() {
		unbind()
		e.hooks = hookCursor{}
	}()

	return fn(props)
}

// nextHook returns the slot for the next hook call and whether it was just
// created. On update the committed list is reused slot by slot; calls beyond
// its end get fresh slots.
func (e *Engine) nextHook() (*hook, bool) {
	u := e.arena.Get(e.hooks.unit)
	prev := e.hooks.workInProgressHook

	var h *hook
	if cur := e.arena.Get(e.hooks.current); cur != nil {
		if prev == nil {
			u.MemoizedState = cur.MemoizedState
			h, _ = cur.MemoizedState.(*hook)
		} else {
			h = prev.next
		}
	}

	mount := h == nil
	if mount {
		h = &hook{}
		if prev == nil {
			u.MemoizedState = h
		} else {
			prev.next = h
		}
	}

	e.hooks.workInProgressHook = h
	return h, mount
}

func mustRender(name string) *Engine {
	e := Rendering()
	if e == nil || e.hooks.unit == NoUnit {
		panic(fmt.Errorf("%w: %s", ErrHookOutsideRender, name))
	}
	return e
}

type reducerSlot[S, A any] struct {
	state    S
	reducer  func(S, A) S
	dispatch func(A)
}

// UseReducer returns the slot's state and a dispatch function that stays
// the same across renders.
func UseReducer[S, A any](reducer func(S, A) S, initial S) (S, func(A)) {
	return useReducer("UseReducer", reducer, func() S { return initial })
}

// UseReducerInit is UseReducer with the initial state computed by init on
// first render only.
func UseReducerInit[S, A, I any](reducer func(S, A) S, initialArg I, init func(I) S) (S, func(A)) {
	return useReducer("UseReducer", reducer, func() S { return init(initialArg) })
}

// UseState is a reducer that replaces the state with the dispatched value.
func UseState[S any](initial S) (S, func(S)) {
	return useReducer("UseState", replaceState[S], func() S { return initial })
}

// UseStateFunc is UseState with a lazily computed initial state.
func UseStateFunc[S any](init func() S) (S, func(S)) {
	return useReducer("UseState", replaceState[S], init)
}

func replaceState[S any](_ S, next S) S {
	return next
}

func useReducer[S, A any](name string, reducer func(S, A) S, initial func() S) (S, func(A)) {
	e := mustRender(name)
	h, mount := e.nextHook()

	slot, ok := h.memoizedState.(*reducerSlot[S, A])
	if mount || !ok {
		slot = &reducerSlot[S, A]{state: initial()}
		ref := e.arena.Ref(e.hooks.unit)
		slot.dispatch = func(action A) {
			e.dispatchAction(ref, func() {
				slot.state = slot.reducer(slot.state, action)
			})
		}
		h.memoizedState = slot
	}
	slot.reducer = reducer

	return slot.state, slot.dispatch
}

// dispatchAction applies a state change to the unit behind ref and requests
// a pass starting at it. Changes to units that left the tree are dropped.
func (e *Engine) dispatchAction(ref UnitRef, apply func()) {
	e.lock.Lock()
	defer e.lock.Unlock()

	id, ok := e.arena.Resolve(ref)
	if !ok || e.arena.Get(id).detached {
		e.logger.Debug("dropping dispatch to unmounted unit", "unit", ref.ID)
		return
	}

	apply()
	e.snapshotAlternate(id)
	e.scheduleUpdate(e.root, id)
}

type memoSlot[T any] struct {
	value T
	deps  []any
}

// UseMemo returns the value computed on a previous render while deps are
// unchanged element-wise. nil deps recompute on every render.
func UseMemo[T any](compute func() T, deps []any) T {
	e := mustRender("UseMemo")
	return useMemo(e, compute, deps)
}

// UseCallback is UseMemo for a function value.
func UseCallback[F any](fn F, deps []any) F {
	e := mustRender("UseCallback")
	return useMemo(e, func() F { return fn }, deps)
}

func useMemo[T any](e *Engine, compute func() T, deps []any) T {
	h, mount := e.nextHook()

	if prev, ok := h.memoizedState.(*memoSlot[T]); ok && !mount && deps != nil {
		if areHookInputsEqual(deps, prev.deps) {
			return prev.value
		}
	}

	value := compute()
	h.memoizedState = &memoSlot[T]{value: value, deps: deps}
	return value
}

// Ref is a mutable box that survives renders.
type Ref[T any] struct {
	Current T
}

// UseRef returns the same box on every render, created on the first one.
func UseRef[T any](initial T) *Ref[T] {
	e := mustRender("UseRef")
	h, _ := e.nextHook()

	ref, ok := h.memoizedState.(*Ref[T])
	if !ok {
		ref = &Ref[T]{Current: initial}
		h.memoizedState = ref
	}
	return ref
}
