package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeChildren(t *testing.T) {
	a, b := &Element{Type: "a"}, &Element{Type: "b"}

	t.Run("single entries", func(t *testing.T) {
		assert.Equal(t, []Node{"x"}, normalizeChildren("x"))
		assert.Equal(t, []Node{a}, normalizeChildren(a))
		assert.Empty(t, normalizeChildren(nil))
		assert.Empty(t, normalizeChildren(false))
	})

	t.Run("nested slices flatten at any depth", func(t *testing.T) {
		got := normalizeChildren([]Node{"x", []Node{a, []Node{"y", []Node{b}}}, 3})
		assert.Equal(t, []Node{"x", a, "y", b, 3}, got)
	})

	t.Run("typed slices flatten", func(t *testing.T) {
		assert.Equal(t, []Node{"p", "q"}, normalizeChildren([]string{"p", "q"}))
		assert.Equal(t, []Node{a, b}, normalizeChildren([]*Element{a, nil, b}))
	})

	t.Run("empty entries are skipped", func(t *testing.T) {
		var none *Element
		assert.Equal(t, []Node{"x"}, normalizeChildren([]Node{nil, true, none, "x"}))
	})
}

func TestNilContext(t *testing.T) {
	var c *Context
	assert.Nil(t, c.CurrentValue())

	var src ContextSource = c
	assert.Nil(t, src.CurrentValue())
}
