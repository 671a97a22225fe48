package weft

import "github.com/AnatoleLucet/weft/internal/reconciler"

// Hooks may only be called while a function component is rendered, always in
// the same order: slots are matched by call position. Calling one anywhere
// else panics with ErrHookOutsideRender.

// UseState returns the current state and a setter. The setter stays the same
// across renders and triggers a new render of the component.
func UseState[S any](initial S) (S, func(S)) {
	return reconciler.UseState(initial)
}

// UseStateFunc is UseState with the initial state computed on first render.
func UseStateFunc[S any](init func() S) (S, func(S)) {
	return reconciler.UseStateFunc(init)
}

// UseReducer returns the current state and a dispatch function applying
// reducer to it. Dispatches issued before the next render all apply, in order.
func UseReducer[S, A any](reducer func(S, A) S, initial S) (S, func(A)) {
	return reconciler.UseReducer(reducer, initial)
}

// UseReducerInit is UseReducer with the initial state computed by init.
func UseReducerInit[S, A, I any](reducer func(S, A) S, initialArg I, init func(I) S) (S, func(A)) {
	return reconciler.UseReducerInit(reducer, initialArg, init)
}

// UseMemo returns the previous value while every element of deps is
// identical to the previous render's. nil deps recompute every time.
func UseMemo[T any](compute func() T, deps []any) T {
	return reconciler.UseMemo(compute, deps)
}

// UseCallback returns the previous fn while deps are unchanged.
func UseCallback[F any](fn F, deps []any) F {
	return reconciler.UseCallback(fn, deps)
}

// UseRef returns a box that is the same on every render of the component.
func UseRef[T any](initial T) *Ref[T] {
	return reconciler.UseRef(initial)
}

type Ref[T any] = reconciler.Ref[T]

var (
	ErrHookOutsideRender  = reconciler.ErrHookOutsideRender
	ErrUnknownKind        = reconciler.ErrUnknownKind
	ErrNoHostParent       = reconciler.ErrNoHostParent
	ErrInvalidElementType = reconciler.ErrInvalidElementType
	ErrInvalidChild       = reconciler.ErrInvalidChild
)
