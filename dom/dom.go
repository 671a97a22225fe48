//go:build js && wasm

// Package dom renders onto the browser document through syscall/js.
package dom

import (
	"fmt"
	"reflect"
	"syscall/js"
	"unsafe"
)

// Node wraps a DOM node together with the listeners weft attached to it.
type Node struct {
	Value     js.Value
	listeners []listener
}

type listener struct {
	event   string
	handler any
	fn      js.Func
}

// Wrap makes an existing DOM node usable as a root container.
func Wrap(v js.Value) *Node {
	return &Node{Value: v}
}

// ByID wraps the element with the given id.
func ByID(id string) *Node {
	return Wrap(js.Global().Get("document").Call("getElementById", id))
}

// Host creates and mutates nodes of a document.
type Host struct {
	doc js.Value
}

func New() *Host {
	return &Host{doc: js.Global().Get("document")}
}

func node(v any) *Node {
	n, ok := v.(*Node)
	if !ok {
		panic(fmt.Sprintf("dom: not a node: %T", v))
	}
	return n
}

func (h *Host) CreateElement(tag string) any {
	return Wrap(h.doc.Call("createElement", tag))
}

func (h *Host) CreateText(text string) any {
	return Wrap(h.doc.Call("createTextNode", text))
}

func (h *Host) SetText(text any, value string) {
	node(text).Value.Set("nodeValue", value)
}

func (h *Host) SetTextContent(el any, value string) {
	node(el).Value.Set("textContent", value)
}

// properties are set on the node itself rather than as attributes
var properties = map[string]bool{
	"value":     true,
	"checked":   true,
	"selected":  true,
	"innerHTML": true,
	"className": true,
}

func (h *Host) SetProperty(el any, name string, value any) {
	v := node(el).Value
	if properties[name] {
		v.Set(name, value)
		return
	}

	switch value := value.(type) {
	case nil:
		v.Call("removeAttribute", name)
	case bool:
		if value {
			v.Call("setAttribute", name, "")
		} else {
			v.Call("removeAttribute", name)
		}
	default:
		v.Call("setAttribute", name, fmt.Sprint(value))
	}
}

func (h *Host) RemoveProperty(el any, name string) {
	v := node(el).Value
	if properties[name] {
		v.Set(name, js.Null())
		return
	}
	v.Call("removeAttribute", name)
}

func (h *Host) AddEventListener(el any, event string, handler any) {
	n := node(el)
	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		call(handler, args)
		return nil
	})

	n.Value.Call("addEventListener", event, fn)
	n.listeners = append(n.listeners, listener{event: event, handler: handler, fn: fn})
}

func (h *Host) RemoveEventListener(el any, event string, handler any) {
	n := node(el)
	for i, l := range n.listeners {
		if l.event != event || !sameFunc(l.handler, handler) {
			continue
		}

		n.Value.Call("removeEventListener", event, l.fn)
		l.fn.Release()
		n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
		return
	}
}

func (h *Host) AppendChild(parent, child any) {
	node(parent).Value.Call("appendChild", node(child).Value)
}

func (h *Host) InsertBefore(parent, child, before any) {
	node(parent).Value.Call("insertBefore", node(child).Value, node(before).Value)
}

func (h *Host) RemoveChild(parent, child any) {
	node(parent).Value.Call("removeChild", node(child).Value)
}

// call invokes a handler of type func(), func(js.Value) or func(any) with
// the event object.
func call(handler any, args []js.Value) {
	event := js.Undefined()
	if len(args) > 0 {
		event = args[0]
	}

	switch fn := handler.(type) {
	case func():
		fn()
	case func(js.Value):
		fn(event)
	case func(any):
		fn(event)
	default:
		panic(fmt.Sprintf("dom: unsupported handler %T", handler))
	}
}

type eface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

func sameFunc(a, b any) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return (*eface)(unsafe.Pointer(&a)).data == (*eface)(unsafe.Pointer(&b)).data
}
