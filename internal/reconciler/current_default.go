//go:build !wasm

package reconciler

import (
	"sync"

	"github.com/petermattis/goid"
)

// engine evaluating a function component, per goroutine
var renderers sync.Map

// bindRenderer marks e as the engine rendering on this goroutine and returns
// the function restoring the previous binding.
func bindRenderer(e *Engine) func() {
	gid := currentGoroutine()

	prev, had := renderers.Load(gid)
	renderers.Store(gid, e)

	return func() {
		if had {
			renderers.Store(gid, prev)
		} else {
			renderers.Delete(gid)
		}
	}
}

// Rendering returns the engine evaluating a function component on the calling
// goroutine, or nil.
func Rendering() *Engine {
	if e, ok := renderers.Load(currentGoroutine()); ok {
		return e.(*Engine)
	}
	return nil
}

func currentGoroutine() int64 {
	return goid.Get()
}
