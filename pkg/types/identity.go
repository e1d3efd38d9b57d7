package types

import "reflect"

// maxAncestry bounds the parent walk in CheckCycle.
const maxAncestry = 1 << 16

// Same reports whether a and b are the same object. Pointers, maps, slices,
// channels and funcs compare by address; other comparable values compare
// with ==. Values of different dynamic types are never the same.
func Same(a, b any) bool {
	if IsNil(a) || IsNil(b) {
		return IsNil(a) && IsNil(b)
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if !ta.Comparable() {
		return false
	}
	return equal(a, b)
}

// equal compares with == and treats a runtime comparison panic (an
// interface field holding an uncomparable value) as inequality.
func equal(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// IsNil reports whether v is nil or a typed nil pointer, map, slice,
// channel, func or interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// CheckCycle returns ErrCyclicContainment when obj is container itself or
// one of container's transitive parents. The walk stops at the first
// ancestor without location metadata.
func CheckCycle(container, obj any) error {
	target := container
	for depth := 0; !IsNil(target); depth++ {
		if Same(target, obj) {
			return ErrCyclicContainment
		}
		if depth > maxAncestry {
			// The tree already loops; refuse to grow it.
			return ErrCyclicContainment
		}
		parent, _, ok := LocationOf(target)
		if !ok {
			return nil
		}
		target = parent
	}
	return nil
}
