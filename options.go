package livemodel

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/livemodel/core/logger"
)

// settings is the per-model-type policy a Registry hands to every channel it builds.
type settings[M any] struct {
	equal         Equality[M]
	coalescer     Coalescer[M]
	logger        *slog.Logger
	ingestTimeout time.Duration
}

func defaultSettings[M any]() settings[M] {
	return settings[M]{
		equal:     DefaultEqual[M](),
		coalescer: LastWriteWins[M](),
		logger:    logger.Discard(),
	}
}

// Option configures a Registry and the channels it creates.
type Option[M any] func(*settings[M])

// WithCoalescer sets the merge policy for incoming snapshots.
// Default is LastWriteWins.
//
// Example:
//
//	reg := livemodel.NewRegistry[*Item, string](
//	    livemodel.WithCoalescer(livemodel.MergeNonZero[*Item]()),
//	)
func WithCoalescer[M any](c Coalescer[M]) Option[M] {
	return func(s *settings[M]) {
		if c != nil {
			s.coalescer = c
		}
	}
}

// WithEquality sets the equality used by the idempotence guard.
// Default is DefaultEqual.
func WithEquality[M any](eq Equality[M]) Option[M] {
	return func(s *settings[M]) {
		if eq != nil {
			s.equal = eq
		}
	}
}

// WithLogger configures structured logging for the registry and its channels.
// Use slog.New(slog.NewTextHandler(io.Discard, nil)) to disable logging.
func WithLogger[M any](l *slog.Logger) Option[M] {
	return func(s *settings[M]) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIngestTimeout bounds how long an asynchronous source may run before its
// context is cancelled. Zero (default) means no bound beyond the caller's context.
func WithIngestTimeout[M any](d time.Duration) Option[M] {
	return func(s *settings[M]) {
		if d >= 0 {
			s.ingestTimeout = d
		}
	}
}

// WithConfig applies environment-loaded configuration.
func WithConfig[M any](cfg Config) Option[M] {
	return WithIngestTimeout[M](cfg.IngestTimeout)
}
