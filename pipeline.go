package livemodel

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/livemodel/core/logger"
)

// sourceSlot tracks the channel's active source. Every Ingest bumps gen;
// emissions tagged with an older gen are rejected.
type sourceSlot struct {
	gen    uint64
	active bool
	cancel context.CancelFunc
}

// release cancels the active source, if any, and marks the slot empty.
func (s *sourceSlot) release() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.active = false
}

// install makes a new source generation active and returns its context.
// The previously active source, if any, is cancelled in the same critical
// section, so no emission of it can be accepted after this returns.
func (c *channelCore[M, K]) install(parent context.Context) (uint64, context.Context, context.CancelFunc, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, nil, nil, ErrChannelClosed
	}

	if c.source.active {
		c.logger.Debug("source superseded", logger.Generation(c.source.gen))
	}
	c.source.release()
	c.source.gen++

	ctx, cancel := context.WithCancel(parent)
	if c.ingestTimeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, c.ingestTimeout)
		cancelBase := cancel
		cancel = func() {
			cancelTimeout()
			cancelBase()
		}
	}

	c.source.active = true
	c.source.cancel = cancel
	return c.source.gen, ctx, cancel, nil
}

// offer forwards v from the source of generation gen into the channel.
func (c *channelCore[M, K]) offer(gen uint64, v M) error {
	if isNil(v) {
		return fmt.Errorf("%w: nil model", ErrInvalidArgument)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrChannelClosed
	}
	if gen != c.source.gen || !c.source.active {
		return ErrSuperseded
	}

	if err := c.acceptLocked(v); err != nil {
		return err
	}
	c.drainLocked()
	return nil
}

// finish records the end of the source of generation gen and maps its
// result to the ingestion outcome. A source that returns nil completed with all
// of its values accepted, even if a newer source was installed afterwards.
func (c *channelCore[M, K]) finish(gen uint64, cancel context.CancelFunc, err error) error {
	c.mu.Lock()
	superseded := gen != c.source.gen
	if !superseded {
		c.source.active = false
		c.source.cancel = nil
	}
	c.mu.Unlock()

	cancel()

	switch {
	case errors.Is(err, ErrIdentifierMismatch), errors.Is(err, ErrCoalescingIdentityViolation):
		return err
	case superseded && err != nil:
		return ErrSuperseded
	case err != nil:
		c.logger.Warn("source failed", logger.Generation(gen), logger.Error(err))
		return err
	}
	return nil
}
