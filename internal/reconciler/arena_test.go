package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena(t *testing.T) {
	t.Run("ids start after the sentinel", func(t *testing.T) {
		a := NewArena()
		id := a.Alloc()

		assert.Equal(t, UnitID(1), id)
		assert.Nil(t, a.Get(NoUnit))
		assert.NotNil(t, a.Get(id))
		assert.Equal(t, 1, a.Live())
	})

	t.Run("pointers survive growth", func(t *testing.T) {
		a := NewArena()
		first := a.Get(a.Alloc())
		first.Key = "first"

		for range 100 {
			a.Alloc()
		}
		assert.Same(t, first, a.Get(1))
		assert.Equal(t, "first", a.Get(1).Key)
	})

	t.Run("stale refs are rejected", func(t *testing.T) {
		a := NewArena()
		id := a.Alloc()
		ref := a.Ref(id)

		got, ok := a.Resolve(ref)
		require.True(t, ok)
		assert.Equal(t, id, got)

		a.Free(id)
		_, ok = a.Resolve(ref)
		assert.False(t, ok)

		reused := a.Alloc()
		assert.Equal(t, id, reused, "freed slots are recycled")
		_, ok = a.Resolve(ref)
		assert.False(t, ok, "a recycled slot has a new generation")

		_, ok = a.Resolve(UnitRef{ID: 42})
		assert.False(t, ok)
	})

	t.Run("sweep keeps reachable units", func(t *testing.T) {
		a := NewArena()
		root := a.Alloc()
		child := a.Alloc()
		sibling := a.Alloc()
		grandchild := a.Alloc()
		orphan := a.Alloc()
		kept := a.Alloc()

		a.Get(root).Child = child
		a.Get(child).Sibling = sibling
		a.Get(sibling).Child = grandchild

		freed := a.Sweep([]UnitID{root}, []UnitID{kept})

		assert.Equal(t, 1, freed)
		assert.Equal(t, 5, a.Live())
		_, ok := a.Resolve(UnitRef{ID: orphan})
		assert.False(t, ok)
	})
}
