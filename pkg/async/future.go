package async

import (
	"context"
	"sync"
	"time"
)

// Future represents the outcome of an asynchronous operation that only reports an error.
// A Future completes exactly once; every Await variant observes the same error.
type Future struct {
	err  error
	once sync.Once
	done chan struct{}
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// resolve records err and releases waiters. Only the first call has an effect.
func (f *Future) resolve(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Await waits for the operation to complete and returns its error.
func (f *Future) Await() error {
	<-f.done
	return f.err
}

// AwaitWithTimeout waits for the operation to complete with a timeout.
// Returns ErrTimeout if the timeout elapses first; the operation keeps running.
func (f *Future) AwaitWithTimeout(timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.err
	case <-timer.C:
		return ErrTimeout
	}
}

// AwaitContext waits for the operation to complete or for ctx to be done,
// whichever happens first.
func (f *Future) AwaitContext(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsComplete checks if the operation is complete without blocking.
func (f *Future) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed once the operation completes.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Go runs fn on a new goroutine and returns a Future for its error.
// If ctx is already cancelled, fn is not called and the Future resolves
// with the context's error.
func Go(ctx context.Context, fn func(context.Context) error) *Future {
	f := newFuture()

	go func() {
		// Early exit prevents goroutine work when context is pre-canceled
		select {
		case <-ctx.Done():
			f.resolve(ctx.Err())
			return
		default:
		}

		f.resolve(fn(ctx))
	}()

	return f
}

// Resolved returns a Future that is already complete with err.
// It is used for operations that ran synchronously in the caller's goroutine.
func Resolved(err error) *Future {
	f := newFuture()
	f.resolve(err)
	return f
}

// All waits for all futures to complete and returns the first non-nil error
// in argument order.
func All(futures ...*Future) error {
	var first error
	for _, future := range futures {
		if err := future.Await(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Any waits for any of the futures to complete and returns its index and error.
// Note: This function spawns one goroutine per pending future. All goroutines
// exit as soon as one future completes.
func Any(futures ...*Future) (int, error) {
	if len(futures) == 0 {
		return -1, ErrNoFutures
	}

	// Fast path avoids goroutines when something already finished.
	for i, f := range futures {
		if f.IsComplete() {
			return i, f.err
		}
	}

	type result struct {
		index int
		err   error
	}
	done := make(chan result, len(futures))
	stop := make(chan struct{})
	defer close(stop)

	for i, future := range futures {
		go func(index int, f *Future) {
			select {
			case <-f.done:
				done <- result{index, f.err}
			case <-stop:
			}
		}(i, future)
	}

	res := <-done
	return res.index, res.err
}
