//go:build wasm

package reconciler

var renderer *Engine

func bindRenderer(e *Engine) func() {
	prev := renderer
	renderer = e
	return func() { renderer = prev }
}

func Rendering() *Engine {
	return renderer
}

// wasm runs a single thread
func currentGoroutine() int64 {
	return 1
}
