package redis

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/livemodel"
	"github.com/dmitrymomot/livemodel/core/logger"
)

// Mirror writes every value a channel accepts to Redis: the snapshot is stored
// under the model's key and published on its topic, so other processes can
// follow the model with NewSource.
//
// Writes happen on the mirror's own goroutine and never block channel delivery.
// When values arrive faster than Redis accepts them, only the latest pending
// value is written.
type Mirror[M any] struct {
	client redis.UniversalClient
	key    string
	origin string
	codec  Codec
	ttl    time.Duration
	logger *slog.Logger

	sub    *livemodel.Subscription
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	pending M
	dirty   bool
	wake    chan struct{}
	lastErr error
}

// NewMirror subscribes to ch and starts mirroring. The channel's current value,
// if any, is written first. Call Close to stop.
//
// The mirror does not keep ch reachable; hold the channel for as long as it
// should be mirrored.
func NewMirror[M livemodel.Model[K], K comparable](client redis.UniversalClient, ch *livemodel.Channel[M, K], opts ...Option) (*Mirror[M], error) {
	if ch == nil {
		return nil, ErrNilChannel
	}

	o := newOptions(opts)
	if o.origin == "" {
		o.origin = uuid.NewString()
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Mirror[M]{
		client: client,
		key:    Key(o.prefix, ch.ID()),
		origin: o.origin,
		codec:  o.codec,
		ttl:    o.ttl,
		cancel: cancel,
		done:   make(chan struct{}),
		wake:   make(chan struct{}, 1),
	}
	m.logger = o.logger.With(logger.ModelID(ch.ID()), logger.Origin(m.origin))

	go m.run(ctx)

	sub, err := ch.Subscribe(livemodel.ObserverFunc[M](m.enqueue))
	if err != nil {
		cancel()
		<-m.done
		return nil, err
	}
	m.sub = sub
	return m, nil
}

// Origin returns the identifier stamped on this mirror's writes. Pass it to
// WithIgnoreOrigins on sources that feed the same channel.
func (m *Mirror[M]) Origin() string {
	return m.origin
}

// Key returns the Redis key and topic the mirror writes to.
func (m *Mirror[M]) Key() string {
	return m.key
}

// Err returns the error of the most recent failed write, or nil.
func (m *Mirror[M]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Close stops mirroring and waits for an in-flight write to finish.
// Values still pending are dropped.
func (m *Mirror[M]) Close() error {
	if m.sub != nil {
		m.sub.Cancel()
	}
	m.cancel()
	<-m.done
	return nil
}

func (m *Mirror[M]) enqueue(v M) {
	m.mu.Lock()
	m.pending = v
	m.dirty = true
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *Mirror[M]) run(ctx context.Context) {
	defer close(m.done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.wake:
		}

		m.mu.Lock()
		v, dirty := m.pending, m.dirty
		var zero M
		m.pending, m.dirty = zero, false
		m.mu.Unlock()

		if !dirty {
			continue
		}

		start := time.Now()
		err := m.write(ctx, v)
		m.mu.Lock()
		m.lastErr = err
		m.mu.Unlock()
		if err != nil && ctx.Err() == nil {
			m.logger.Error("failed to mirror model", logger.Elapsed(start), logger.Error(err))
		}
	}
}

func (m *Mirror[M]) write(ctx context.Context, v M) error {
	data, err := encode(m.codec, m.origin, v)
	if err != nil {
		return err
	}

	pipe := m.client.TxPipeline()
	pipe.Set(ctx, m.key, data, m.ttl)
	pipe.Publish(ctx, m.key, data)
	_, err = pipe.Exec(ctx)
	return err
}
