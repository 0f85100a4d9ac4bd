package livemodel

import (
	"reflect"
	"sync"
)

var (
	sharedMu   sync.Mutex
	registries = make(map[reflect.Type]any)
)

// For returns the process-wide registry for model type M, creating it on first use.
// Every package that asks for the same M gets the same registry, and therefore
// the same channel per identifier.
func For[M Model[K], K comparable]() *Registry[M, K] {
	key := reflect.TypeFor[M]()

	sharedMu.Lock()
	defer sharedMu.Unlock()

	if r, ok := registries[key]; ok {
		return r.(*Registry[M, K])
	}
	r := NewRegistry[M, K]()
	registries[key] = r
	return r
}

// Configure sets process-wide policy for model type M. It is typically called
// once at startup, before channels are requested; channels that already exist
// keep their settings.
//
// Example:
//
//	livemodel.Configure[*Item, string](
//	    livemodel.WithCoalescer(livemodel.MergeNonZero[*Item]()),
//	)
func Configure[M Model[K], K comparable](opts ...Option[M]) {
	For[M, K]().Configure(opts...)
}

// Get returns the shared channel for id from the process-wide registry of M.
//
//	ch, err := livemodel.Get[*Item]("sku-42")
func Get[M Model[K], K comparable](id K) (*Channel[M, K], error) {
	return For[M, K]().Get(id)
}

// ResetAll clears every process-wide registry. Intended for test isolation.
func ResetAll() {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	for _, r := range registries {
		r.(interface{ Clear() }).Clear()
	}
}
