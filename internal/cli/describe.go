package cli

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/AnatoleLucet/weft"
)

// description is a YAML encoded node. A scalar is text, a sequence is a list
// of nodes and a mapping is an element:
//
//	tag: div
//	key: main
//	props: {id: app}
//	children: [hello, {tag: br}]
//
// A mapping without tag is a fragment.
type description struct {
	node weft.Node
}

type element struct {
	Tag      string         `yaml:"tag"`
	Key      string         `yaml:"key"`
	Props    map[string]any `yaml:"props"`
	Children []description  `yaml:"children"`
}

var elementFields = map[string]bool{"tag": true, "key": true, "props": true, "children": true}

func (d *description) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var v any
		if err := value.Decode(&v); err != nil {
			return err
		}
		d.node = v
	case yaml.SequenceNode:
		var items []description
		if err := value.Decode(&items); err != nil {
			return err
		}
		nodes := make([]weft.Node, len(items))
		for i, item := range items {
			nodes[i] = item.node
		}
		d.node = nodes
	case yaml.MappingNode:
		for i := 0; i < len(value.Content); i += 2 {
			if k := value.Content[i]; !elementFields[k.Value] {
				return fmt.Errorf("line %d: unknown field %q", k.Line, k.Value)
			}
		}

		var e element
		if err := value.Decode(&e); err != nil {
			return err
		}
		d.node = e.build()
	default:
		return fmt.Errorf("line %d: unsupported node", value.Line)
	}
	return nil
}

func (e element) build() *weft.Element {
	children := make([]weft.Node, len(e.Children))
	for i, c := range e.Children {
		children[i] = c.node
	}

	if e.Tag == "" {
		frag := weft.Fragment(children...)
		frag.Key = e.Key
		return frag
	}
	return weft.Keyed(e.Key, e.Tag, weft.Props(e.Props), children...)
}

func decode(data []byte) (weft.Node, error) {
	var d description
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode description: %w", err)
	}
	return d.node, nil
}
