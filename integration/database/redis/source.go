package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/livemodel"
	"github.com/dmitrymomot/livemodel/core/logger"
)

// Key returns the key and pub/sub topic used for the model with the given identifier.
func Key[K comparable](prefix string, id K) string {
	return fmt.Sprintf("%s:%v", prefix, id)
}

// NewSource returns a source that streams snapshots of the model id from Redis.
//
// When run it subscribes to the model's topic, then emits the stored snapshot
// (unless disabled with WithSnapshot), then every snapshot published on the
// topic. Subscribing first means no update written between the two steps is
// lost. The source runs until its context is done, which happens when a newer
// source is ingested into the channel. A message that cannot be decoded ends
// the source with ErrDecode.
//
// Example:
//
//	ch, _ := livemodel.Get[*Item]("sku-42")
//	future, err := ch.Ingest(ctx, redis.NewSource[*Item](client, "sku-42"))
func NewSource[M livemodel.Model[K], K comparable](client redis.UniversalClient, id K, opts ...Option) livemodel.Source[M] {
	o := newOptions(opts)
	key := Key(o.prefix, id)
	log := o.logger.With(logger.ModelID(id), logger.Key("topic", key))

	return livemodel.SourceFunc[M](func(ctx context.Context, emit func(M) error) error {
		pubsub := client.Subscribe(ctx, key)
		defer pubsub.Close()

		if _, err := pubsub.Receive(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrSubscribe, err)
		}

		if o.snapshot {
			data, err := client.Get(ctx, key).Bytes()
			switch {
			case errors.Is(err, redis.Nil):
			case err != nil:
				return fmt.Errorf("%w: %w", ErrSnapshot, err)
			default:
				_, v, err := decode[M](o.codec, data)
				if err != nil {
					return err
				}
				if err := emit(v); err != nil {
					return err
				}
			}
		}

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case msg, ok := <-messages:
				if !ok {
					return nil
				}
				origin, v, err := decode[M](o.codec, []byte(msg.Payload))
				if err != nil {
					log.Warn("undecodable model message",
						logger.Group("message",
							slog.String("channel", msg.Channel),
							slog.Int("size", len(msg.Payload)),
						),
						logger.Error(err),
					)
					return err
				}
				if _, skip := o.ignore[origin]; skip {
					continue
				}
				if err := emit(v); err != nil {
					return err
				}
			}
		}
	})
}
