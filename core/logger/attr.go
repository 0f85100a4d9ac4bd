package logger

import (
	"log/slog"
	"time"
)

// Helpers that have nothing to report return an empty Attr, which slog drops,
// so callers can pass logger.Error(err) without checking err first.

// Group nests attrs under name.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// ============================================================================
// Errors
// ============================================================================

// Error reports err under "error". Nil errors produce nothing.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Panic reports a recovered panic value under "panic".
func Panic(v any) slog.Attr {
	if v == nil {
		return slog.Attr{}
	}
	return slog.Any("panic", v)
}

// ============================================================================
// Timing
// ============================================================================

// Duration reports d under "duration", e.g. the wait before the next retry.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Elapsed reports the time since start under "elapsed".
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// ============================================================================
// Identifiers
// ============================================================================

// ID reports an identifier under key. Nil values produce nothing.
func ID(key string, value any) slog.Attr {
	if value == nil {
		return slog.Attr{}
	}
	return slog.Any(key, value)
}

// ModelID creates an attribute for the identifier a channel is bound to.
func ModelID(value any) slog.Attr {
	return ID("model_id", value)
}

// Generation creates an attribute for the sequence number of an installed source.
func Generation(gen uint64) slog.Attr {
	return slog.Uint64("generation", gen)
}

// Origin creates an attribute for the producer identity of a replicated value.
func Origin(origin string) slog.Attr {
	if origin == "" {
		return slog.Attr{}
	}
	return slog.String("origin", origin)
}

// ============================================================================
// Generic Metadata
// ============================================================================

// Component names the subsystem that emitted the record.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Type reports a Go type name, e.g. the model type of a registry.
func Type(t string) slog.Attr {
	return slog.String("type", t)
}

// Count reports n under key.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Key reports value under key. Nil values produce nothing.
func Key(key string, value any) slog.Attr {
	if value == nil {
		return slog.Attr{}
	}
	return slog.Any(key, value)
}

// RetryCount reports how many attempts have failed so far.
func RetryCount(count int) slog.Attr {
	return slog.Int("retry_count", count)
}
