package livemodel

import (
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/dmitrymomot/livemodel/core/logger"
)

// Registry maps identifiers to channels, guaranteeing at most one live Channel
// per identifier. Entries are weak: the registry never keeps a channel alive,
// and a channel that becomes unreachable is closed and removed automatically.
//
// All registry operations share one mutex. They are O(1) map operations except
// Clear, and channel construction does no blocking work.
type Registry[M Model[K], K comparable] struct {
	mu       sync.Mutex
	entries  map[K]weak.Pointer[Channel[M, K]]
	settings settings[M]
	logger   *slog.Logger

	created   atomic.Int64
	reclaimed atomic.Int64
	cleared   atomic.Int64
}

// RegistryStats provides observability counters for a registry.
type RegistryStats struct {
	Entries   int   // map entries, including expired ones not yet cleaned up
	Created   int64 // channels constructed
	Reclaimed int64 // channels closed because they became unreachable
	Cleared   int64 // channels closed by Clear
}

// reclaimTarget is the argument of a channel's cleanup. It must not reference
// the Channel handle itself, or the handle would never become unreachable.
type reclaimTarget[M Model[K], K comparable] struct {
	id   K
	ref  weak.Pointer[Channel[M, K]]
	core *channelCore[M, K]
}

// NewRegistry creates an empty registry for model type M.
//
// Example:
//
//	reg := livemodel.NewRegistry[*Item, string](
//	    livemodel.WithLogger[*Item](logger),
//	)
//	ch, err := reg.Get("sku-42")
func NewRegistry[M Model[K], K comparable](opts ...Option[M]) *Registry[M, K] {
	r := &Registry[M, K]{
		entries:  make(map[K]weak.Pointer[Channel[M, K]]),
		settings: defaultSettings[M](),
	}
	for _, opt := range opts {
		opt(&r.settings)
	}
	r.logger = r.decorate(r.settings.logger)
	return r
}

// decorate tags l with the registry's component and model type. Registry and
// channel logs always go through a decorated logger.
func (r *Registry[M, K]) decorate(l *slog.Logger) *slog.Logger {
	return l.With(
		logger.Component("livemodel"),
		logger.Type(reflect.TypeFor[M]().String()),
	)
}

// Configure replaces policy options. Channels created afterwards use the new
// settings; existing channels keep theirs.
func (r *Registry[M, K]) Configure(opts ...Option[M]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, opt := range opts {
		opt(&r.settings)
	}
	r.logger = r.decorate(r.settings.logger)
}

// Get returns the live channel for id, creating it if none exists or the
// previous one has been reclaimed. The check and creation happen under the
// registry lock, so concurrent callers always receive the same channel.
func (r *Registry[M, K]) Get(id K) (*Channel[M, K], error) {
	if isZeroID(id) {
		return nil, fmt.Errorf("%w: zero identifier", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if ref, ok := r.entries[id]; ok {
		if ch := ref.Value(); ch != nil {
			return ch, nil
		}
	}

	s := r.settings
	s.logger = r.logger
	ch := newChannel[M, K](id, s)
	ref := weak.Make(ch)
	r.entries[id] = ref
	runtime.AddCleanup(ch, r.reclaim, reclaimTarget[M, K]{id: id, ref: ref, core: ch.core})

	r.created.Add(1)
	r.logger.Debug("channel created", logger.ModelID(id))
	return ch, nil
}

// Remove deletes the entry for id. The channel itself, if still referenced,
// keeps working but is no longer returned by Get. Removing an absent id is a no-op.
func (r *Registry[M, K]) Remove(id K) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Clear removes every entry and closes the channels that are still alive,
// releasing their resources immediately. Intended for tests and full resets.
func (r *Registry[M, K]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	closed := 0
	for id, ref := range r.entries {
		if ch := ref.Value(); ch != nil && ch.core.close() {
			closed++
		}
		delete(r.entries, id)
	}

	r.cleared.Add(int64(closed))
	r.logger.Debug("registry cleared", logger.Count("closed", closed))
}

// Len returns the number of channels that are still reachable.
func (r *Registry[M, K]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, ref := range r.entries {
		if ref.Value() != nil {
			n++
		}
	}
	return n
}

// Stats returns current registry counters.
func (r *Registry[M, K]) Stats() RegistryStats {
	r.mu.Lock()
	entries := len(r.entries)
	r.mu.Unlock()

	return RegistryStats{
		Entries:   entries,
		Created:   r.created.Load(),
		Reclaimed: r.reclaimed.Load(),
		Cleared:   r.cleared.Load(),
	}
}

// reclaim runs after a channel became unreachable. It releases the channel's
// resources and drops its entry unless the entry already points to a newer channel.
func (r *Registry[M, K]) reclaim(t reclaimTarget[M, K]) {
	closed := t.core.close()

	r.mu.Lock()
	if ref, ok := r.entries[t.id]; ok && ref == t.ref {
		delete(r.entries, t.id)
	}
	log := r.logger
	r.mu.Unlock()

	if closed {
		r.reclaimed.Add(1)
		log.Debug("channel reclaimed", logger.ModelID(t.id))
	}
}
