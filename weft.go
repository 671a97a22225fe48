// Package weft renders declarative descriptions onto a host tree and keeps
// the host tree in sync as descriptions and component state change. Work is
// split into small steps run by a cooperative priority scheduler.
package weft

import (
	"log/slog"

	"github.com/AnatoleLucet/weft/internal/reconciler"
)

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

type (
	// Node is anything that can be rendered: *Element, string, numbers,
	// slices of Nodes, nil and bools (which render nothing).
	Node = reconciler.Node

	Props   = reconciler.Props
	Element = reconciler.Element

	// Host is the platform binding a root renders onto.
	Host = reconciler.Host

	FunctionComponent = reconciler.FunctionComponent
	ClassType         = reconciler.ClassType
	Instance          = reconciler.Instance

	// Component is an embeddable base for class components, storing the
	// latest props and context value.
	Component = reconciler.Component

	ContextSource = reconciler.ContextSource
)

const (
	ChildrenProp = reconciler.ChildrenProp
	RawHTMLProp  = reconciler.RawHTMLProp
)

// El describes an element. typ is a host tag, a FunctionComponent (or a
// func(Props) Node), a ClassType (or a func(Props) Instance) or FragmentType.
// A single child is stored as is, several as a slice.
func El(typ any, props Props, children ...Node) *Element {
	p := make(Props, len(props)+1)
	for k, v := range props {
		p[k] = v
	}

	switch len(children) {
	case 0:
	case 1:
		p[ChildrenProp] = children[0]
	default:
		p[ChildrenProp] = children
	}

	return &Element{Type: typ, Props: p}
}

// Keyed is El with a key. Keys are carried on units but not used for matching.
func Keyed(key string, typ any, props Props, children ...Node) *Element {
	el := El(typ, props, children...)
	el.Key = key
	return el
}

// Fragment groups children without a host element.
func Fragment(children ...Node) *Element {
	return El(FragmentType, nil, children...)
}

// FragmentType is the element type of fragments.
var FragmentType = reconciler.FragmentType

type Option = reconciler.Option

// WithScheduler runs the root's passes on s instead of the default scheduler.
func WithScheduler(s *Scheduler) Option {
	return reconciler.WithScheduler(s)
}

// WithLogger sets the debug logger of the root.
func WithLogger(l *slog.Logger) Option {
	return reconciler.WithLogger(l)
}

// Root is a mount point.
type Root struct {
	engine *reconciler.Engine
}

// CreateRoot prepares container for rendering through host.
func CreateRoot(container any, host Host, opts ...Option) *Root {
	return &Root{reconciler.NewEngine(container, host, opts...)}
}

// Render replaces what the root shows. The host tree is updated once the
// scheduler has run the pass; a later Render before that wins.
func (r *Root) Render(node Node) {
	r.engine.Render(node)
}

// Unmount removes everything the root rendered.
func (r *Root) Unmount() {
	r.engine.Render(nil)
}

// Scheduler returns the scheduler running the root's passes.
func (r *Root) Scheduler() *Scheduler {
	return r.engine.Scheduler()
}

// Context holds a value that class components read on every render.
type Context[T any] struct {
	ctx *reconciler.Context
}

// NewContext creates a context holding initial.
func NewContext[T any](initial T) *Context[T] {
	return &Context[T]{reconciler.NewContext(initial)}
}

// Value returns the current value, the zero T for a nil context.
func (c *Context[T]) Value() T {
	return as[T](c.CurrentValue())
}

// Set replaces the value. Components see it on their next render.
func (c *Context[T]) Set(value T) {
	c.ctx.Set(value)
}

// CurrentValue makes the context usable as a class component's ContextType.
func (c *Context[T]) CurrentValue() any {
	if c == nil {
		return nil
	}
	return c.ctx.CurrentValue()
}

// ContextValue returns a class component's context value as T.
func ContextValue[T any](c *Component) T {
	return as[T](c.Context)
}
