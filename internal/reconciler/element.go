package reconciler

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"
)

// Node is a description value: *Element (or Element), a string, a number,
// a slice of Nodes, or nil / a bool which render nothing.
type Node = any

// Props are an element's declared properties. Children live under ChildrenProp.
type Props map[string]any

const (
	ChildrenProp = "children"

	// RawHTMLProp is the raw-content directive: its value is handed to the
	// host as the element's inner markup and the element gets no child units.
	RawHTMLProp = "rawHTML"
)

// Children returns the declared children.
func (p Props) Children() Node {
	return p[ChildrenProp]
}

// Element describes one host element, component or fragment.
type Element struct {
	Type  any
	Key   string
	Props Props
}

// FunctionComponent is evaluated with hooks active and returns its children.
type FunctionComponent func(props Props) Node

// ClassType constructs a component instance on first mount.
type ClassType func(props Props) Instance

// Instance is a class component instance.
type Instance interface {
	Render() Node
}

// ContextSource is something a class component can declare as its context
// dependency.
type ContextSource interface {
	CurrentValue() any
}

// ContextConsumer is implemented by instances that read a context on every render.
type ContextConsumer interface {
	ContextType() ContextSource
	SetContext(value any)
}

// PropsReceiver is implemented by instances that want the latest props when
// they are rendered again.
type PropsReceiver interface {
	SetProps(props Props)
}

// Component is an embeddable base for class components.
type Component struct {
	Props   Props
	Context any
}

func (c *Component) SetProps(props Props) { c.Props = props }
func (c *Component) SetContext(value any) { c.Context = value }
func (c *Component) Prop(name string) any { return c.Props[name] }
func (c *Component) Children() Node       { return c.Props.Children() }

type fragmentType struct{}

// FragmentType is the element type of fragments.
var FragmentType = fragmentType{}

// Context holds a value read by class components that declare it.
type Context struct {
	mu    sync.RWMutex
	value any
}

func NewContext(initial any) *Context {
	return &Context{value: initial}
}

// CurrentValue returns the held value, nil for a nil context.
func (c *Context) CurrentValue() any {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

func (c *Context) Set(value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
}

// classify fixes the kind of a unit from its element type.
func classify(typ any) (Kind, any, error) {
	switch t := typ.(type) {
	case string:
		return KindHostElement, t, nil
	case FunctionComponent:
		return KindFunctionComponent, t, nil
	case func(Props) Node:
		return KindFunctionComponent, FunctionComponent(t), nil
	case ClassType:
		return KindClassComponent, t, nil
	case func(Props) Instance:
		return KindClassComponent, ClassType(t), nil
	case fragmentType:
		return KindFragment, t, nil
	}

	return 0, nil, fmt.Errorf("%w: %T", ErrInvalidElementType, typ)
}

// textOf reports whether the value renders as text, and that text.
func textOf(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int:
		return strconv.Itoa(t), true
	case int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(t).Int(), 10), true
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return strconv.FormatUint(reflect.ValueOf(t).Uint(), 10), true
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	}

	return "", false
}

// normalizeChildren flattens a children description into the ordered list of
// entries that each get a unit. nil and bools contribute nothing.
func normalizeChildren(next Node) []Node {
	var out []Node
	appendChildren(&out, next)
	return out
}

func appendChildren(out *[]Node, next Node) {
	switch v := next.(type) {
	case nil, bool:
		return
	case []Node:
		for _, child := range v {
			appendChildren(out, child)
		}
		return
	case *Element:
		if v != nil {
			*out = append(*out, v)
		}
		return
	case string, Element:
		*out = append(*out, v)
		return
	}

	if rv := reflect.ValueOf(next); rv.Kind() == reflect.Slice {
		for i := range rv.Len() {
			appendChildren(out, rv.Index(i).Interface())
		}
		return
	}

	*out = append(*out, next)
}
