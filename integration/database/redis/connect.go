package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/livemodel/core/logger"
)

// Connect creates a Redis client and waits until the server answers a ping,
// retrying with exponential backoff up to cfg.RetryAttempts times.
// Pass WithLogger to log failed attempts; other options are ignored.
func Connect(ctx context.Context, cfg Config, opts ...Option) (*redis.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	redisOpts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToParseRedisConnString, err)
	}
	client := redis.NewClient(redisOpts)
	log := newOptions(opts).logger

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	exp := backoff.NewExponentialBackOff()
	if cfg.RetryInterval > 0 {
		exp.InitialInterval = cfg.RetryInterval
	}
	exp.MaxElapsedTime = 0

	retries := uint64(max(cfg.RetryAttempts-1, 0))
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, retries), ctx)

	failed := 0
	err = backoff.RetryNotify(func() error {
		return client.Ping(ctx).Err()
	}, policy, func(err error, wait time.Duration) {
		failed++
		log.Warn("redis ping failed, retrying",
			logger.RetryCount(failed),
			logger.Duration(wait),
			logger.Error(err),
		)
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %w", ErrRedisNotReady, err)
	}

	return client, nil
}

// Healthcheck returns a function that pings Redis.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrHealthcheckFailed, err)
		}
		return nil
	}
}
