package livemodel

import "errors"

var (
	// ErrInvalidArgument is returned when a required argument is absent:
	// a zero identifier, a nil observer, or a nil source.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIdentifierMismatch is returned when a value offered to a channel
	// carries a different identifier than the channel's.
	ErrIdentifierMismatch = errors.New("model identifier does not match channel")

	// ErrCoalescingIdentityViolation is returned when the configured coalescer
	// produces a value for a different identifier than the channel's.
	ErrCoalescingIdentityViolation = errors.New("coalescer changed model identifier")

	// ErrUnsupportedOperation is returned when completion or failure is signalled
	// on a channel directly. Channels only accept values.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrChannelClosed is returned by operations on a channel whose resources
	// were released by Registry.Clear or reclamation.
	ErrChannelClosed = errors.New("channel closed")

	// ErrSuperseded is returned to a source whose emissions are no longer
	// forwarded because a newer source was installed on the same channel.
	ErrSuperseded = errors.New("source superseded by a newer ingestion")
)
