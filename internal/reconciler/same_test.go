package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameValue(t *testing.T) {
	fn := func() {}
	other := func() {}
	slice := []int{1, 2}
	m := map[string]int{"a": 1}
	ptr := &struct{}{}

	assert.True(t, SameValue(nil, nil))
	assert.True(t, SameValue(1, 1))
	assert.True(t, SameValue("a", "a"))
	assert.True(t, SameValue(ptr, ptr))
	assert.True(t, SameValue(fn, fn))
	assert.True(t, SameValue(slice, slice))
	assert.True(t, SameValue(m, m))

	assert.False(t, SameValue(1, nil))
	assert.False(t, SameValue(1, int64(1)), "different types")
	assert.False(t, SameValue(fn, other))
	assert.False(t, SameValue(slice, []int{1, 2}), "equal content, other backing array")
	assert.False(t, SameValue(slice, slice[:1]))
	assert.False(t, SameValue(m, map[string]int{"a": 1}))
	assert.False(t, SameValue(&struct{}{}, &struct{ x int }{}))
}

func TestAreHookInputsEqual(t *testing.T) {
	obj := &struct{ n int }{}

	assert.True(t, areHookInputsEqual([]any{1, "a", obj}, []any{1, "a", obj}))
	assert.True(t, areHookInputsEqual([]any{}, []any{}))

	assert.False(t, areHookInputsEqual([]any{1}, nil), "no previous deps")
	assert.False(t, areHookInputsEqual([]any{1}, []any{1, 2}))
	assert.False(t, areHookInputsEqual([]any{obj}, []any{&struct{ n int }{}}))
}
