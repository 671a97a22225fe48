package reconciler

import "errors"

var (
	// ErrUnknownKind is raised when a traversal phase meets a unit kind it
	// does not handle. The pass is aborted.
	ErrUnknownKind = errors.New("reconciler: unknown work unit kind")

	// ErrNoHostParent is raised when a placed or deleted unit has no host
	// parent among its ancestors, meaning the tree is malformed.
	ErrNoHostParent = errors.New("reconciler: expected to find a host parent")

	// ErrHookOutsideRender is raised when a hook is called while no function
	// component is being evaluated on the calling goroutine.
	ErrHookOutsideRender = errors.New("reconciler: hooks can only be called inside a function component")

	// ErrInvalidElementType is raised for an element whose type is neither a
	// host tag, a component, nor the fragment type.
	ErrInvalidElementType = errors.New("reconciler: invalid element type")

	// ErrInvalidChild is raised for a description value that cannot be rendered.
	ErrInvalidChild = errors.New("reconciler: invalid child description")
)
