package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnatoleLucet/weft/memhost"
)

func counter(props Props) Node {
	count, setCount := UseState(0)

	return el("button", Props{
		"id":      "btn",
		"onClick": func() { setCount(count + 1) },
	}, count)
}

func click(t *testing.T, h *harness, id string) {
	t.Helper()

	n := h.container.FindByID(id)
	require.NotNil(t, n, "no element with id %q", id)
	require.Equal(t, 1, memhost.Dispatch(n, "click", nil))
}

func TestUseState(t *testing.T) {
	t.Run("click re-renders the component", func(t *testing.T) {
		h := newHarness(t)
		h.render(el(FunctionComponent(counter), nil))
		assert.Equal(t, "0", h.container.TextContent())

		click(t, h, "btn")
		h.loop.RunUntilIdle()
		assert.Equal(t, "1", h.container.TextContent())

		click(t, h, "btn")
		h.loop.RunUntilIdle()
		assert.Equal(t, "2", h.container.TextContent())
		assert.Len(t, h.container.Children, 1)
	})

	t.Run("component pass keeps its siblings", func(t *testing.T) {
		h := newHarness(t)
		h.render(el("main", nil, "before", el(FunctionComponent(counter), nil), "after"))

		click(t, h, "btn")
		h.loop.RunUntilIdle()

		main := h.container.Children[0]
		require.Len(t, main.Children, 3)
		assert.Equal(t, "before", main.Children[0].Text)
		assert.Equal(t, "1", main.Children[1].TextContent())
		assert.Equal(t, "after", main.Children[2].Text)
	})

	t.Run("lazy initial state runs once", func(t *testing.T) {
		h := newHarness(t)
		inits := 0
		var set func(string)

		comp := FunctionComponent(func(Props) Node {
			v, setV := UseStateFunc(func() string {
				inits++
				return "init"
			})
			set = setV
			return v
		})

		h.render(el(comp, nil))
		set("next")
		h.loop.RunUntilIdle()

		assert.Equal(t, 1, inits)
		assert.Equal(t, "next", h.container.TextContent())
	})

	t.Run("dispatch is stable across renders", func(t *testing.T) {
		h := newHarness(t)
		var dispatches []func(int)

		comp := FunctionComponent(func(Props) Node {
			n, set := UseState(0)
			dispatches = append(dispatches, set)
			return n
		})

		h.render(el(comp, nil))
		dispatches[0](1)
		h.loop.RunUntilIdle()

		require.Len(t, dispatches, 2)
		assert.True(t, SameValue(dispatches[0], dispatches[1]))
	})
}

func TestUseReducer(t *testing.T) {
	t.Run("two dispatches before the pass both apply", func(t *testing.T) {
		h := newHarness(t)
		renders := 0
		var dispatch func(struct{})

		comp := FunctionComponent(func(Props) Node {
			renders++
			n, d := UseReducer(func(x int, _ struct{}) int { return x + 1 }, 0)
			dispatch = d
			return n
		})

		h.render(el(comp, nil))
		dispatch(struct{}{})
		dispatch(struct{}{})
		h.loop.RunUntilIdle()

		assert.Equal(t, "2", h.container.TextContent())
		assert.Equal(t, 2, renders, "both dispatches share one pass")
	})

	t.Run("init computes the initial state", func(t *testing.T) {
		h := newHarness(t)

		comp := FunctionComponent(func(Props) Node {
			n, _ := UseReducerInit(func(x, a int) int { return x + a }, "abc", func(s string) int { return len(s) })
			return n
		})

		h.render(el(comp, nil))
		assert.Equal(t, "3", h.container.TextContent())
	})

	t.Run("dispatch to an unmounted component is dropped", func(t *testing.T) {
		h := newHarness(t)
		var set func(int)

		comp := FunctionComponent(func(Props) Node {
			n, s := UseState(0)
			set = s
			return n
		})

		h.render(el(comp, nil))
		h.render(nil)

		set(5)
		assert.Equal(t, 0, h.sched.Stats().Ready)
		h.loop.RunUntilIdle()
		h.assertTree(t)
	})

	t.Run("dispatch to a replaced component is dropped", func(t *testing.T) {
		h := newHarness(t)
		var sets []func(int)

		comp := FunctionComponent(func(Props) Node {
			n, s := UseState(0)
			sets = append(sets, s)
			return n
		})

		h.render(el(comp, nil))
		h.engine.Render(el(comp, nil))
		sets[0](7)
		h.loop.RunUntilIdle()

		assert.Equal(t, "0", h.container.TextContent(), "a root render recreates the component")
	})
}

func TestUseMemo(t *testing.T) {
	type box struct{ n int }

	h := newHarness(t)
	dep := 1
	var results []*box
	var callbacks []func() int
	var rerender func(int)

	comp := FunctionComponent(func(Props) Node {
		_, set := UseState(0)
		rerender = set

		results = append(results, UseMemo(func() *box { return &box{dep} }, []any{dep}))
		callbacks = append(callbacks, UseCallback(func() int { return dep }, []any{dep}))
		return nil
	})

	h.render(el(comp, nil))
	rerender(1)
	h.loop.RunUntilIdle()

	require.Len(t, results, 2)
	assert.Same(t, results[0], results[1], "unchanged deps keep the value")
	assert.True(t, SameValue(callbacks[0], callbacks[1]), "unchanged deps keep the callback")

	dep = 2
	rerender(2)
	h.loop.RunUntilIdle()

	require.Len(t, results, 3)
	assert.NotSame(t, results[1], results[2])
	assert.Equal(t, 2, results[2].n)
	assert.False(t, SameValue(callbacks[1], callbacks[2]))
}

func TestUseMemoWithoutDeps(t *testing.T) {
	h := newHarness(t)
	computed := 0
	var rerender func(int)

	comp := FunctionComponent(func(Props) Node {
		_, set := UseState(0)
		rerender = set
		UseMemo(func() int { computed++; return computed }, nil)
		return nil
	})

	h.render(el(comp, nil))
	rerender(1)
	h.loop.RunUntilIdle()

	assert.Equal(t, 2, computed)
}

func TestUseRef(t *testing.T) {
	h := newHarness(t)
	var refs []*Ref[int]
	var rerender func(int)

	comp := FunctionComponent(func(Props) Node {
		_, set := UseState(0)
		rerender = set

		ref := UseRef(10)
		ref.Current++
		refs = append(refs, ref)
		return ref.Current
	})

	h.render(el(comp, nil))
	rerender(1)
	h.loop.RunUntilIdle()

	require.Len(t, refs, 2)
	assert.Same(t, refs[0], refs[1])
	assert.Equal(t, "12", h.container.TextContent())
}

type greeter struct {
	Component
	theme *Context
}

func (g *greeter) ContextType() ContextSource { return g.theme }

func (g *greeter) Render() Node {
	return el("span", nil, g.Context.(string)+"/"+g.Prop("name").(string))
}

func TestClassComponent(t *testing.T) {
	h := newHarness(t)
	theme := NewContext("dark")
	constructed := 0

	ctor := ClassType(func(Props) Instance {
		constructed++
		return &greeter{theme: theme}
	})

	h.render(el(ctor, Props{"name": "ann"}))
	assert.Equal(t, "dark/ann", h.container.TextContent())
	assert.Equal(t, 1, constructed)

	theme.Set("light")
	h.render(el(ctor, Props{"name": "bob"}))
	assert.Equal(t, "light/bob", h.container.TextContent())
	assert.Equal(t, 2, constructed)
}

func TestArenaStaysBounded(t *testing.T) {
	h := newHarness(t)
	h.render(el("div", nil, el(FunctionComponent(counter), nil)))
	live := h.engine.arena.Live()

	for range 20 {
		click(t, h, "btn")
		h.loop.RunUntilIdle()
	}
	assert.Equal(t, "20", h.container.TextContent())
	assert.Equal(t, live, h.engine.arena.Live())

	for range 5 {
		h.render(el("div", nil, el(FunctionComponent(counter), nil)))
	}
	assert.Equal(t, live, h.engine.arena.Live())
}
