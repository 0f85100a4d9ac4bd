package async

import "errors"

var (
	// ErrTimeout is returned by AwaitWithTimeout when the future does not complete in time.
	ErrTimeout = errors.New("future did not complete before timeout")

	// ErrNoFutures is returned by Any when called without futures.
	ErrNoFutures = errors.New("no futures provided")
)
