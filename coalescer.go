package livemodel

import "reflect"

// Coalescer merges an incoming snapshot with the currently held one and
// returns the snapshot to publish. Implementations must be pure and must
// return a value with the same identifier as current.
type Coalescer[M any] interface {
	Coalesce(incoming, current M) M
}

// CoalescerFunc adapts a function to the Coalescer interface.
type CoalescerFunc[M any] func(incoming, current M) M

// Coalesce calls f(incoming, current).
func (f CoalescerFunc[M]) Coalesce(incoming, current M) M {
	return f(incoming, current)
}

// LastWriteWins is the default policy: the incoming snapshot replaces the
// current one unchanged.
func LastWriteWins[M any]() Coalescer[M] {
	return CoalescerFunc[M](func(incoming, _ M) M {
		return incoming
	})
}

// MergeNonZero keeps fields of the current snapshot wherever the incoming
// snapshot leaves an exported field at its zero value. It is meant for
// partial updates such as a fetch that only fills some fields.
//
// M must be a struct or a pointer to a struct; for other kinds it behaves like
// LastWriteWins. For pointers the result is a new value; neither input is modified.
func MergeNonZero[M any]() Coalescer[M] {
	return CoalescerFunc[M](func(incoming, current M) M {
		in := reflect.ValueOf(&incoming).Elem()
		cur := reflect.ValueOf(&current).Elem()

		if in.Kind() == reflect.Pointer {
			if in.IsNil() || cur.IsNil() || in.Elem().Kind() != reflect.Struct {
				return incoming
			}
			merged := reflect.New(in.Elem().Type())
			merged.Elem().Set(in.Elem())
			mergeFields(merged.Elem(), cur.Elem())
			return merged.Interface().(M)
		}

		if in.Kind() != reflect.Struct {
			return incoming
		}
		merged := reflect.New(in.Type()).Elem()
		merged.Set(in)
		mergeFields(merged, cur)
		return merged.Interface().(M)
	})
}

func mergeFields(dst, current reflect.Value) {
	t := dst.Type()
	for i := range t.NumField() {
		if !t.Field(i).IsExported() {
			continue
		}
		if f := dst.Field(i); f.IsZero() {
			f.Set(current.Field(i))
		}
	}
}
