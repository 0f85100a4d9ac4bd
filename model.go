package livemodel

import "reflect"

// Model is a snapshot of a domain entity that carries a stable identifier.
//
// A change to an entity is represented by a new Model value with the same
// identifier; published snapshots are never mutated in place.
// The zero value of K is reserved as "no identifier".
type Model[K comparable] interface {
	ModelID() K
}

// Equality reports whether two snapshots are value-equal.
// Channels use it to drop updates that would not change what subscribers see.
type Equality[M any] func(a, b M) bool

// DefaultEqual returns the equality used when none is configured.
// Models that implement Equal(M) bool are compared with it; everything else
// is compared structurally with reflect.DeepEqual.
func DefaultEqual[M any]() Equality[M] {
	return func(a, b M) bool {
		if eq, ok := any(a).(interface{ Equal(M) bool }); ok {
			return eq.Equal(b)
		}
		return reflect.DeepEqual(a, b)
	}
}

func isZeroID[K comparable](id K) bool {
	var zero K
	return id == zero
}

// isNil reports whether v is a nil interface or a nil value of a nillable kind.
func isNil[T any](v T) bool {
	a := any(v)
	if a == nil {
		return true
	}
	rv := reflect.ValueOf(a)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
