package loader

import (
	"context"
	"sync"
)

// Future is the eventual result of an asynchronous load. It is completed exactly once,
// by a loader worker, and may be observed from any goroutine.
type Future[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

// NewFuture creates an incomplete Future.
//
// Returns:
//   - *Future[T]: the future
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Complete resolves the future. Only the first call has any effect.
//
// Parameters:
//   - value: the loaded resource, ignored by readers when err is non-nil
//   - err: the load error, nil on success
//
// Returns:
//   - bool: true if this call completed the future
func (f *Future[T]) Complete(value T, err error) bool {
	completed := false
	f.once.Do(func() {
		f.value = value
		f.err = err
		completed = true
		close(f.done)
	})
	return completed
}

// Done returns a channel closed once the future is complete.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Poll reports the result without blocking.
//
// Returns:
//   - T: the value, zero until complete or on failure
//   - error: the load error
//   - bool: false while the load is still in flight
func (f *Future[T]) Poll() (T, error, bool) {
	select {
	case <-f.done:
		return f.value, f.err, true
	default:
		var zero T
		return zero, nil, false
	}
}

// Wait blocks until the future completes or ctx is done.
//
// Parameters:
//   - ctx: bounds the wait
//
// Returns:
//   - T: the value
//   - error: the load error, or ctx.Err() if the context ended first
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
