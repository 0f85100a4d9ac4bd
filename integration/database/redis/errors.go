package redis

import "errors"

// Domain-specific Redis errors for consistent error handling across the application.
// Use errors.Is() to check error types for retry logic and user-facing messages.
var (
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready within the given time period")
	ErrEmptyConnectionURL           = errors.New("empty redis connection URL")
	ErrHealthcheckFailed            = errors.New("redis healthcheck failed")
	ErrUnknownCodec                 = errors.New("unknown model codec")
	ErrSubscribe                    = errors.New("failed to subscribe to model topic")
	ErrSnapshot                     = errors.New("failed to read model snapshot")
	ErrDecode                       = errors.New("failed to decode model message")
	ErrNilChannel                   = errors.New("channel must not be nil")
)
