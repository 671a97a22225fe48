package reconciler

import (
	"reflect"
	"unsafe"
)

// SameValue compares by identity: == for comparable values, reference
// identity for funcs, maps, slices and channels.
func SameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	switch ta.Kind() {
	case reflect.Func:
		// a func stored in an interface is a pointer to its closure
		return (*eface)(unsafe.Pointer(&a)).data == (*eface)(unsafe.Pointer(&b)).data
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Chan:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	}

	if !ta.Comparable() {
		return false
	}
	return a == b
}

type eface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// areHookInputsEqual compares dependency lists element-wise.
func areHookInputsEqual(next, prev []any) bool {
	if prev == nil || len(next) != len(prev) {
		return false
	}

	for i := range next {
		if !SameValue(next[i], prev[i]) {
			return false
		}
	}
	return true
}
