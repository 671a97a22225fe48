package memhost

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Tree is a plain copy of a Node subtree, comparable with go-cmp.
type Tree struct {
	Tag      string
	Text     string
	Attrs    map[string]string
	Events   []string
	Children []Tree
}

// Snapshot copies the subtree rooted at n. Attribute values are formatted
// the way Dump prints them.
func Snapshot(n *Node) Tree {
	t := Tree{Tag: n.Tag, Text: n.Text}
	if len(n.Props) > 0 {
		t.Attrs = make(map[string]string, len(n.Props))
		for k, v := range n.Props {
			t.Attrs[k] = formatValue(v)
		}
	}
	for event := range n.Listeners {
		t.Events = append(t.Events, event)
	}
	slices.Sort(t.Events)

	for _, c := range n.Children {
		t.Children = append(t.Children, Snapshot(c))
	}
	return t
}

// Text builds the Tree of a text node.
func Text(s string) Tree {
	return Tree{Text: s}
}

// El builds the Tree of an element without attributes.
func El(tag string, children ...Tree) Tree {
	return Tree{Tag: tag, Children: children}
}

// Dump prints the subtree rooted at n, one node per line, indented by depth.
func Dump(n *Node) string {
	return DumpStyled(n, nil)
}

// DumpStyled is Dump with tag names passed through style.
func DumpStyled(n *Node, style func(string) string) string {
	var b strings.Builder
	dump(&b, n, 0, style)
	return b.String()
}

func dump(b *strings.Builder, n *Node, depth int, style func(string) string) {
	b.WriteString(strings.Repeat("  ", depth))

	if n.IsText() {
		fmt.Fprintf(b, "%q\n", n.Text)
		return
	}

	tag := n.Tag
	if style != nil {
		tag = style(tag)
	}
	b.WriteString(tag)

	names := make([]string, 0, len(n.Props))
	for name := range n.Props {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(b, " %s=%s", name, formatValue(n.Props[name]))
	}

	events := make([]string, 0, len(n.Listeners))
	for event := range n.Listeners {
		events = append(events, event)
	}
	slices.Sort(events)
	for _, event := range events {
		fmt.Fprintf(b, " on:%s", event)
	}
	b.WriteString("\n")

	for _, c := range n.Children {
		dump(b, c, depth+1, style)
	}
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return fmt.Sprintf("%q", t)
	case nil:
		return "nil"
	}
	if reflect.TypeOf(v).Kind() == reflect.Func {
		return "func"
	}
	return fmt.Sprintf("%v", v)
}
