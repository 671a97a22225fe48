// Package memhost is an in-memory host binding: elements and text are plain
// Go structs, which makes rendered trees easy to inspect and print.
package memhost

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
	"unsafe"
)

// Node is an element, a text object or a container.
type Node struct {
	// Tag is empty for text nodes.
	Tag  string
	Text string

	Props     map[string]any
	Listeners map[string][]any

	Parent   *Node
	Children []*Node
}

const containerTag = "#container"

// NewContainer returns an empty mount point.
func NewContainer() *Node {
	return &Node{Tag: containerTag}
}

func (n *Node) IsText() bool { return n.Tag == "" }

// Find returns the first node in depth-first order matching pred.
func (n *Node) Find(pred func(*Node) bool) *Node {
	if pred(n) {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(pred); found != nil {
			return found
		}
	}
	return nil
}

// FindByID returns the first element whose "id" property is id.
func (n *Node) FindByID(id string) *Node {
	return n.Find(func(c *Node) bool {
		v, ok := c.Props["id"]
		return ok && v == id
	})
}

// TextContent concatenates every text below n.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}

	var s string
	for _, c := range n.Children {
		s += c.TextContent()
	}
	return s
}

func (n *Node) indexOf(child *Node) int {
	return slices.Index(n.Children, child)
}

func (n *Node) detach(child *Node) {
	if i := n.indexOf(child); i >= 0 {
		n.Children = slices.Delete(n.Children, i, i+1)
	}
	child.Parent = nil
}

// Host implements the engine's host binding over Nodes. Every mutation is
// recorded so tests can assert on the exact sequence.
type Host struct {
	mu  sync.Mutex
	ops []string
}

func New() *Host {
	return &Host{}
}

// Ops returns the mutations applied so far.
func (h *Host) Ops() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.ops)
}

// ResetOps forgets the recorded mutations.
func (h *Host) ResetOps() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ops = nil
}

func (h *Host) record(format string, args ...any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ops = append(h.ops, fmt.Sprintf(format, args...))
}

func node(v any) *Node {
	n, ok := v.(*Node)
	if !ok {
		panic(fmt.Sprintf("memhost: not a node: %T", v))
	}
	return n
}

func (h *Host) CreateElement(tag string) any {
	h.record("create %s", tag)
	return &Node{Tag: tag, Props: map[string]any{}, Listeners: map[string][]any{}}
}

func (h *Host) CreateText(text string) any {
	h.record("text %q", text)
	return &Node{Text: text}
}

func (h *Host) SetText(text any, value string) {
	h.record("set-text %q", value)
	node(text).Text = value
}

func (h *Host) SetTextContent(el any, value string) {
	h.record("text-content %s %q", label(node(el)), value)

	n := node(el)
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = nil
	if value != "" {
		n.Children = []*Node{{Text: value, Parent: n}}
	}
}

func (h *Host) SetProperty(el any, name string, value any) {
	h.record("set %s %s", label(node(el)), name)
	node(el).Props[name] = value
}

func (h *Host) RemoveProperty(el any, name string) {
	h.record("remove %s %s", label(node(el)), name)
	delete(node(el).Props, name)
}

func (h *Host) AddEventListener(el any, event string, handler any) {
	h.record("listen %s %s", label(node(el)), event)
	n := node(el)
	n.Listeners[event] = append(n.Listeners[event], handler)
}

func (h *Host) RemoveEventListener(el any, event string, handler any) {
	h.record("unlisten %s %s", label(node(el)), event)
	n := node(el)
	n.Listeners[event] = slices.DeleteFunc(n.Listeners[event], func(l any) bool {
		return sameHandler(l, handler)
	})
	if len(n.Listeners[event]) == 0 {
		delete(n.Listeners, event)
	}
}

func (h *Host) AppendChild(parent, child any) {
	p, c := node(parent), node(child)
	h.record("append %s > %s", label(p), label(c))

	if c.Parent != nil {
		c.Parent.detach(c)
	}
	c.Parent = p
	p.Children = append(p.Children, c)
}

func (h *Host) InsertBefore(parent, child, before any) {
	p, c, b := node(parent), node(child), node(before)
	h.record("insert %s > %s before %s", label(p), label(c), label(b))

	if c.Parent != nil {
		c.Parent.detach(c)
	}
	i := p.indexOf(b)
	if i < 0 {
		panic(fmt.Sprintf("memhost: %s is not a child of %s", label(b), label(p)))
	}
	c.Parent = p
	p.Children = slices.Insert(p.Children, i, c)
}

func (h *Host) RemoveChild(parent, child any) {
	p, c := node(parent), node(child)
	h.record("remove-child %s > %s", label(p), label(c))

	if p.indexOf(c) < 0 {
		panic(fmt.Sprintf("memhost: %s is not a child of %s", label(c), label(p)))
	}
	p.detach(c)
}

// Dispatch calls the listeners registered on n for event. Handlers may take
// no argument or a single argument receiving arg.
func Dispatch(n *Node, event string, arg any) int {
	handlers := slices.Clone(n.Listeners[event])
	for _, handler := range handlers {
		switch fn := handler.(type) {
		case func():
			fn()
		case func(any):
			fn(arg)
		default:
			v := reflect.ValueOf(handler)
			if v.Kind() != reflect.Func || v.Type().NumIn() > 1 {
				panic(fmt.Sprintf("memhost: unsupported handler %T", handler))
			}
			if v.Type().NumIn() == 0 {
				v.Call(nil)
			} else {
				in := reflect.Zero(v.Type().In(0))
				if arg != nil {
					in = reflect.ValueOf(arg)
				}
				v.Call([]reflect.Value{in})
			}
		}
	}
	return len(handlers)
}

type eface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// sameHandler compares handlers by closure identity.
func sameHandler(a, b any) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if reflect.TypeOf(a).Kind() == reflect.Func {
		return (*eface)(unsafe.Pointer(&a)).data == (*eface)(unsafe.Pointer(&b)).data
	}
	return reflect.TypeOf(a).Comparable() && a == b
}

func label(n *Node) string {
	if n.IsText() {
		return fmt.Sprintf("%q", n.Text)
	}
	return n.Tag
}
