package reconciler

type executionContext uint8

const (
	noContext     executionContext = 0
	renderContext executionContext = 1 << 1
	commitContext executionContext = 1 << 2
)

func (c executionContext) String() string {
	switch c {
	case noContext:
		return "idle"
	case renderContext:
		return "rendering"
	case commitContext:
		return "committing"
	}
	return "invalid"
}

// runInContext runs fn with the execution context set, restoring the previous
// one on every exit path.
func (e *Engine) runInContext(ctx executionContext, fn func()) {
	prev := e.executionContext
	e.executionContext = ctx
	defer func() { e.executionContext = prev }()

	fn()
}
