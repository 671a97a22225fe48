package memhost

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestHost(t *testing.T) {
	t.Run("builds and reorders children", func(t *testing.T) {
		h := New()
		root := NewContainer()

		a := h.CreateText("a")
		c := h.CreateText("c")
		b := h.CreateText("b")
		h.AppendChild(root, a)
		h.AppendChild(root, c)
		h.InsertBefore(root, b, c)

		want := Tree{Tag: "#container", Children: []Tree{Text("a"), Text("b"), Text("c")}}
		if diff := cmp.Diff(want, Snapshot(root)); diff != "" {
			t.Errorf("tree mismatch (-want +got):\n%s", diff)
		}

		h.RemoveChild(root, b)
		assert.Equal(t, "ac", root.TextContent())
		assert.Nil(t, b.(*Node).Parent)
	})

	t.Run("text content replaces children", func(t *testing.T) {
		h := New()
		el := h.CreateElement("p")
		h.AppendChild(el, h.CreateElement("span"))

		h.SetTextContent(el, "hi")

		if diff := cmp.Diff(El("p", Text("hi")), Snapshot(el.(*Node))); diff != "" {
			t.Errorf("tree mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("listeners are removed by identity", func(t *testing.T) {
		h := New()
		el := h.CreateElement("button").(*Node)
		calls := []string{}

		first := func() { calls = append(calls, "first") }
		second := func() { calls = append(calls, "second") }
		h.AddEventListener(el, "click", first)
		h.AddEventListener(el, "click", second)
		h.RemoveEventListener(el, "click", first)

		assert.Equal(t, 1, Dispatch(el, "click", nil))
		assert.Equal(t, []string{"second"}, calls)

		h.RemoveEventListener(el, "click", second)
		assert.Empty(t, el.Listeners)
	})

	t.Run("typed handlers receive the argument", func(t *testing.T) {
		h := New()
		el := h.CreateElement("input").(*Node)
		var got string

		h.AddEventListener(el, "input", func(v string) { got = v })
		Dispatch(el, "input", "typed")

		assert.Equal(t, "typed", got)
	})

	t.Run("records operations", func(t *testing.T) {
		h := New()
		root := NewContainer()
		div := h.CreateElement("div")
		h.SetProperty(div, "id", "x")
		h.AppendChild(root, div)

		assert.Equal(t, []string{
			"create div",
			"set div id",
			"append #container > div",
		}, h.Ops())

		h.ResetOps()
		assert.Empty(t, h.Ops())
	})

	t.Run("inserting before a stranger panics", func(t *testing.T) {
		h := New()
		root := NewContainer()

		assert.Panics(t, func() {
			h.InsertBefore(root, h.CreateText("x"), h.CreateText("y"))
		})
	})
}

func TestDump(t *testing.T) {
	h := New()
	root := NewContainer()
	div := h.CreateElement("div")
	h.SetProperty(div, "id", "app")
	h.SetProperty(div, "tabindex", 2)
	h.AddEventListener(div, "click", func() {})
	h.AppendChild(div, h.CreateText("hello"))
	h.AppendChild(root, div)

	assert.Equal(t, "#container\n  div id=\"app\" tabindex=2 on:click\n    \"hello\"\n", Dump(root))
	assert.Equal(t, "#container\n  <div> id=\"app\" tabindex=2 on:click\n    \"hello\"\n",
		DumpStyled(root, func(tag string) string {
			if tag == "div" {
				return "<div>"
			}
			return tag
		}))
}
