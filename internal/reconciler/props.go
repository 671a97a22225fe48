package reconciler

import (
	"reflect"
	"slices"
	"strings"
	"unicode"
)

// propChange is one host mutation of an updated element.
type propChange struct {
	name   string
	prev   any
	next   any
	remove bool
}

// isEventProp reports whether name is an on<Event> key holding a handler.
func isEventProp(name string, value any) bool {
	if len(name) < 3 || !strings.HasPrefix(name, "on") {
		return false
	}
	if !unicode.IsUpper(rune(name[2])) {
		return false
	}
	return value != nil && reflect.TypeOf(value).Kind() == reflect.Func
}

func eventName(prop string) string {
	return strings.ToLower(prop[2:])
}

func sortedKeys(p Props) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// setInitialProperties applies every declared property of a new element, in
// key order so that hosts observe a deterministic sequence.
func (e *Engine) setInitialProperties(el any, props Props) {
	for _, name := range sortedKeys(props) {
		e.setProperty(el, name, props[name])
	}
}

func (e *Engine) setProperty(el any, name string, value any) {
	switch {
	case name == ChildrenProp:
		if text, ok := textOf(value); ok {
			e.host.SetTextContent(el, text)
		}
	case name == RawHTMLProp:
		if value != nil {
			e.host.SetProperty(el, "innerHTML", value)
		}
	case isEventProp(name, value):
		e.host.AddEventListener(el, eventName(name), value)
	default:
		e.host.SetProperty(el, name, value)
	}
}

func (e *Engine) removeProperty(el any, name string, prev any) {
	switch {
	case name == ChildrenProp:
		if _, ok := textOf(prev); ok {
			e.host.SetTextContent(el, "")
		}
	case name == RawHTMLProp:
		e.host.RemoveProperty(el, "innerHTML")
	case isEventProp(name, prev):
		e.host.RemoveEventListener(el, eventName(name), prev)
	default:
		e.host.RemoveProperty(el, name)
	}
}

// diffProperties lists the mutations turning prev into next: removals first,
// replaced listeners included, then additions and replacements.
func diffProperties(prev, next Props) []propChange {
	var changes []propChange

	for _, name := range sortedKeys(prev) {
		old := prev[name]
		cur, ok := next[name]
		switch {
		case !ok:
			changes = append(changes, propChange{name: name, prev: old, remove: true})
		case !SameValue(old, cur) && isEventProp(name, old):
			changes = append(changes, propChange{name: name, prev: old, remove: true})
		}
	}

	for _, name := range sortedKeys(next) {
		cur := next[name]
		old, ok := prev[name]
		if ok && SameValue(old, cur) {
			continue
		}
		if name == ChildrenProp {
			// element children are units, not properties
			if _, text := textOf(cur); !text {
				if _, wasText := textOf(old); wasText {
					changes = append(changes, propChange{name: name, prev: old, remove: true})
				}
				continue
			}
		}
		changes = append(changes, propChange{name: name, prev: old, next: cur})
	}

	return changes
}

func (e *Engine) commitUpdate(el any, changes []propChange) {
	for _, c := range changes {
		if c.remove {
			e.removeProperty(el, c.name, c.prev)
		} else {
			e.setProperty(el, c.name, c.next)
		}
	}
}
