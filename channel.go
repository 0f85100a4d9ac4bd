package livemodel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/livemodel/core/logger"
	"github.com/dmitrymomot/livemodel/pkg/async"
)

// Observer receives the values published by a Channel.
type Observer[M any] interface {
	OnNext(value M)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc[M any] func(value M)

// OnNext calls f(value).
func (f ObserverFunc[M]) OnNext(value M) {
	f(value)
}

// Sink accepts values. Channels implement it so they can be handed to code that
// pipes values somewhere; a Channel cannot be completed or failed from outside.
type Sink[M any] interface {
	Emit(value M) error
	Complete() error
	Fail(err error) error
}

// Channel is the single shared broadcast holder for one model identifier.
//
// Subscribers receive the current value (if any) and then every value the
// channel accepts, in acceptance order. Values enter through Ingest or Publish.
//
// A Channel obtained from a Registry stays registered only while something
// holds a reference to it; once unreachable it is reclaimed and its subscribers
// stop receiving values. Hold the *Channel for as long as updates matter.
type Channel[M Model[K], K comparable] struct {
	core *channelCore[M, K]
}

// channelCore holds the channel state. Subscriptions and running sources only
// reference the core, never the Channel handle, so they do not keep a channel
// reachable.
type channelCore[M Model[K], K comparable] struct {
	id            K
	equal         Equality[M]
	coalescer     Coalescer[M]
	logger        *slog.Logger
	ingestTimeout time.Duration

	mu       sync.Mutex
	closed   bool
	current  M
	hasValue bool
	seq      uint64 // sequence number of current

	subs     []*subscriber[M]
	queue    []delivery[M]
	draining bool

	source sourceSlot
}

type subscriber[M any] struct {
	observer Observer[M]
	joined   uint64 // channel seq at subscription time
	active   atomic.Bool
}

// delivery is one pending notification. A nil target means every subscriber
// that joined before seq.
type delivery[M any] struct {
	value  M
	seq    uint64
	target *subscriber[M]
}

func newChannel[M Model[K], K comparable](id K, s settings[M]) *Channel[M, K] {
	return &Channel[M, K]{core: &channelCore[M, K]{
		id:            id,
		equal:         s.equal,
		coalescer:     s.coalescer,
		logger:        s.logger.With(logger.ModelID(id)),
		ingestTimeout: s.ingestTimeout,
	}}
}

// ID returns the identifier the channel is bound to.
func (ch *Channel[M, K]) ID() K {
	return ch.core.id
}

// Value returns the current value and whether one has been published.
func (ch *Channel[M, K]) Value() (M, bool) {
	c := ch.core
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.hasValue
}

// SubscriberCount returns the number of attached subscribers.
func (ch *Channel[M, K]) SubscriberCount() int {
	c := ch.core
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Subscribe attaches observer. If the channel holds a value, observer receives
// it first; then it receives every value accepted afterwards until the
// subscription is cancelled.
//
// Delivery is serialized per channel: observers are never called concurrently
// for the same channel and never while the channel's lock is held, so an
// observer may call back into the channel. When no delivery is in flight the
// current value is delivered before Subscribe returns.
//
// The channel keeps observer reachable. An observer that captures the Channel
// itself therefore keeps the channel from ever being reclaimed.
func (ch *Channel[M, K]) Subscribe(observer Observer[M]) (*Subscription, error) {
	if isNil(observer) {
		return nil, fmt.Errorf("%w: nil observer", ErrInvalidArgument)
	}

	c := ch.core
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrChannelClosed
	}

	s := &subscriber[M]{observer: observer, joined: c.seq}
	s.active.Store(true)
	c.subs = append(c.subs, s)

	if c.hasValue {
		c.queue = append(c.queue, delivery[M]{value: c.current, seq: c.seq, target: s})
		c.drainLocked()
	}

	return &Subscription{cancel: func() { c.unsubscribe(s) }}, nil
}

// SubscribeFunc is Subscribe for a plain function.
func (ch *Channel[M, K]) SubscribeFunc(fn func(M)) (*Subscription, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: nil observer", ErrInvalidArgument)
	}
	return ch.Subscribe(ObserverFunc[M](fn))
}

// Ingest installs src as the channel's active source and starts it.
//
// Installing supersedes the previously active source: its context is cancelled
// and anything it emits afterwards is rejected with ErrSuperseded, so only the
// most recently installed source can change the channel's value.
//
// Sources built with Just or Inline run before Ingest returns; all others run
// on their own goroutine. The returned future resolves with the source's
// outcome: nil, the source's error, ErrSuperseded, or an identity error.
// A failed source never closes the channel.
func (ch *Channel[M, K]) Ingest(ctx context.Context, src Source[M]) (*async.Future, error) {
	if isNil(src) {
		return nil, fmt.Errorf("%w: nil source", ErrInvalidArgument)
	}

	c := ch.core
	gen, sctx, cancel, err := c.install(ctx)
	if err != nil {
		return nil, err
	}
	emit := func(v M) error {
		return c.offer(gen, v)
	}

	if inline, ok := src.(inlineSource[M]); ok {
		return async.Resolved(c.finish(gen, cancel, inline.Run(sctx, emit))), nil
	}

	// The future must always run finish, even if sctx is cancelled before the
	// goroutine starts, so it gets a context that cannot be cancelled.
	return async.Go(context.WithoutCancel(sctx), func(context.Context) error {
		return c.finish(gen, cancel, src.Run(sctx, emit))
	}), nil
}

// Publish offers a single value, superseding any active source.
// Identity errors are returned synchronously and leave the current value unchanged.
func (ch *Channel[M, K]) Publish(value M) error {
	future, err := ch.Ingest(context.Background(), Just(value))
	if err != nil {
		return err
	}
	return future.Await()
}

// Emit implements Sink. It is Publish.
func (ch *Channel[M, K]) Emit(value M) error {
	return ch.Publish(value)
}

// Complete implements Sink. Channels cannot be completed from outside.
func (ch *Channel[M, K]) Complete() error {
	return fmt.Errorf("%w: channel %v cannot be completed", ErrUnsupportedOperation, ch.core.id)
}

// Fail implements Sink. Channels cannot be failed from outside; source
// failures are reported on the future returned by Ingest.
func (ch *Channel[M, K]) Fail(err error) error {
	return fmt.Errorf("%w: channel %v cannot be failed (%v)", ErrUnsupportedOperation, ch.core.id, err)
}

// acceptLocked runs the value-acceptance algorithm for v and queues the result
// for delivery. Callers hold c.mu.
func (c *channelCore[M, K]) acceptLocked(v M) error {
	if id := v.ModelID(); id != c.id {
		c.logger.Warn("rejected value with foreign identifier", logger.ID("value_id", id))
		return fmt.Errorf("%w: channel %v received %v", ErrIdentifierMismatch, c.id, id)
	}

	if c.hasValue && c.equal(v, c.current) {
		return nil
	}

	result := v
	if c.hasValue {
		result = c.coalescer.Coalesce(v, c.current)
	}

	if isNil(result) {
		c.logger.Error("coalescer returned nil")
		return fmt.Errorf("%w: channel %v got nil from coalescer", ErrCoalescingIdentityViolation, c.id)
	}
	if id := result.ModelID(); id != c.id {
		c.logger.Error("coalescer changed identifier", logger.ID("result_id", id))
		return fmt.Errorf("%w: channel %v got %v", ErrCoalescingIdentityViolation, c.id, id)
	}

	if c.hasValue && c.equal(result, c.current) {
		return nil
	}

	c.current = result
	c.hasValue = true
	c.seq++
	c.queue = append(c.queue, delivery[M]{value: result, seq: c.seq})
	return nil
}

// drainLocked delivers queued values until the queue is empty. Only one
// goroutine drains at a time; the others leave their values in the queue.
// c.mu is held on entry and on return but released around observer calls.
func (c *channelCore[M, K]) drainLocked() {
	if c.draining {
		return
	}
	c.draining = true

	for len(c.queue) > 0 {
		d := c.queue[0]
		c.queue[0] = delivery[M]{}
		c.queue = c.queue[1:]
		targets := c.targetsLocked(d)

		c.mu.Unlock()
		for _, s := range targets {
			c.deliver(s, d.value)
		}
		c.mu.Lock()
	}

	c.draining = false
}

func (c *channelCore[M, K]) targetsLocked(d delivery[M]) []*subscriber[M] {
	if d.target != nil {
		return []*subscriber[M]{d.target}
	}
	targets := make([]*subscriber[M], 0, len(c.subs))
	for _, s := range c.subs {
		if s.joined < d.seq {
			targets = append(targets, s)
		}
	}
	return targets
}

func (c *channelCore[M, K]) deliver(s *subscriber[M], v M) {
	if !s.active.Load() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("observer panicked", logger.Panic(r))
		}
	}()
	s.observer.OnNext(v)
}

func (c *channelCore[M, K]) unsubscribe(s *subscriber[M]) {
	s.active.Store(false)

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, sub := range c.subs {
		if sub == s {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}

// close releases the channel's publishing resources: the active source is
// cancelled, subscribers are detached without notification, and pending
// deliveries are dropped. It reports whether this call closed the channel.
func (c *channelCore[M, K]) close() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	c.closed = true

	c.source.release()
	for _, s := range c.subs {
		s.active.Store(false)
	}
	c.subs = nil
	c.queue = nil

	var zero M
	c.current = zero
	c.hasValue = false
	return true
}

// Subscription is a handle for an attached observer.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Cancel detaches the observer. It may be called more than once and from
// inside the observer itself; no value is delivered after Cancel returns
// unless a delivery to this observer is already in progress on another goroutine.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}
