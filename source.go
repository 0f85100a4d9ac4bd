package livemodel

import "context"

// Source produces snapshots for a Channel.
//
// Run calls emit for every value it produces and returns when it has nothing
// more to produce, when it fails, or when ctx is done. emit returns an error
// when the value was rejected: ErrSuperseded once a newer source has been
// installed on the channel, ErrChannelClosed after the channel was torn down,
// or an identity error for a malformed value. Sources should stop and return
// that error. Superseding a source also cancels ctx; any work the source
// started is cancelled on a best-effort basis only.
type Source[M any] interface {
	Run(ctx context.Context, emit func(M) error) error
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc[M any] func(ctx context.Context, emit func(M) error) error

// Run calls f(ctx, emit).
func (f SourceFunc[M]) Run(ctx context.Context, emit func(M) error) error {
	return f(ctx, emit)
}

// inlineSource marks a source that Channel.Ingest runs in the caller's goroutine.
type inlineSource[M any] struct {
	Source[M]
}

// Inline marks src to run synchronously inside Channel.Ingest instead of on its
// own goroutine. Use it for sources that never block.
func Inline[M any](src Source[M]) Source[M] {
	if isNil(src) {
		return nil
	}
	if _, ok := src.(inlineSource[M]); ok {
		return src
	}
	return inlineSource[M]{Source: src}
}

// Just returns an inline source that emits values in order and completes.
// Ingesting Just(v) publishes v before Ingest returns.
func Just[M any](values ...M) Source[M] {
	return inlineSource[M]{Source: SourceFunc[M](func(_ context.Context, emit func(M) error) error {
		for _, v := range values {
			if err := emit(v); err != nil {
				return err
			}
		}
		return nil
	})}
}

// Fetch returns a source that calls fn once and emits its result.
// It represents an in-flight load of an entity's latest state.
func Fetch[M any](fn func(ctx context.Context) (M, error)) Source[M] {
	if fn == nil {
		return nil
	}
	return SourceFunc[M](func(ctx context.Context, emit func(M) error) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		return emit(v)
	})
}

// FromChan returns a source that forwards values received from ch until ch is
// closed or the source's context is done.
func FromChan[M any](ch <-chan M) Source[M] {
	if ch == nil {
		return nil
	}
	return SourceFunc[M](func(ctx context.Context, emit func(M) error) error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case v, ok := <-ch:
				if !ok {
					return nil
				}
				if err := emit(v); err != nil {
					return err
				}
			}
		}
	})
}
