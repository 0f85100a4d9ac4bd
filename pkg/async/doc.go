// Package async provides a minimal Future for operations that only report an error.
//
// Futures are used to hand the outcome of background work back to whoever started it,
// independently of any other consumers of that work's side effects. The livemodel
// package returns a Future from every Channel.Ingest call so callers can observe the
// outcome of one specific ingestion (success, failure, or supersession by a newer one).
//
// # Usage
//
//	future := async.Go(ctx, func(ctx context.Context) error {
//		return refreshUser(ctx, userID)
//	})
//
//	// Do other work...
//
//	if err := future.Await(); err != nil {
//		log.Println("refresh failed:", err)
//	}
//
// Work that already ran in the caller's goroutine can be reported the same way:
//
//	future := async.Resolved(err)
//
// Using timeout:
//
//	err := future.AwaitWithTimeout(50 * time.Millisecond)
//	if errors.Is(err, async.ErrTimeout) {
//		log.Println("Operation timed out")
//	}
//
// # Coordination Utilities
//
// All waits for every future and returns the first error in argument order:
//
//	err := async.All(f1, f2, f3)
//
// Any returns as soon as one future completes:
//
//	index, err := async.Any(f1, f2, f3)
//
// # Error Handling
//
// The package defines two errors:
//   - ErrTimeout: returned when AwaitWithTimeout exceeds its duration
//   - ErrNoFutures: returned when Any is called with no futures
//
// # Concurrency Safety
//
// All operations are safe for concurrent use. A Future resolves exactly once,
// guarded by sync.Once.
//
// # Context Support
//
// If the context passed to Go is cancelled before the function begins execution,
// the function is skipped and the Future resolves with the context's error.
package async
