package redis

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/livemodel/core/logger"
)

const defaultKeyPrefix = "livemodel"

type options struct {
	prefix   string
	codec    Codec
	logger   *slog.Logger
	snapshot bool
	ignore   map[string]struct{}
	origin   string
	ttl      time.Duration
}

func newOptions(opts []Option) options {
	o := options{
		prefix:   defaultKeyPrefix,
		codec:    JSON,
		logger:   logger.Discard(),
		snapshot: true,
		ignore:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.With(logger.Component("livemodel.redis"))
	return o
}

// Option configures a Source or a Mirror.
type Option func(*options)

// WithKeyPrefix sets the prefix of keys and topics. Default is "livemodel".
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithCodec sets the model codec. Default is JSON.
// Sources and mirrors of the same model must agree on it.
func WithCodec(c Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSnapshot controls whether a Source starts by emitting the stored
// snapshot. Enabled by default.
func WithSnapshot(enabled bool) Option {
	return func(o *options) {
		o.snapshot = enabled
	}
}

// WithIgnoreOrigins makes a Source skip pub/sub messages written by the given
// origins, typically the Mirror of the same channel.
func WithIgnoreOrigins(origins ...string) Option {
	return func(o *options) {
		for _, origin := range origins {
			o.ignore[origin] = struct{}{}
		}
	}
}

// WithOrigin sets the origin a Mirror stamps on its writes.
// Default is a random UUID.
func WithOrigin(origin string) Option {
	return func(o *options) {
		if origin != "" {
			o.origin = origin
		}
	}
}

// WithTTL sets the expiry of snapshots written by a Mirror. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl >= 0 {
			o.ttl = ttl
		}
	}
}
