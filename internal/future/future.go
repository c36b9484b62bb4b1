//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

// Package future gives the sharing client an executor-agnostic way to
// keep several share-manager operations in flight at once: a Future
// is a one-shot channel wrapped with transform/catch combinators, so
// callers compose pipelines instead of threading callbacks.
package future

import "context"

// Future is a handle to a value that a goroutine produces exactly
// once. The zero value is not usable; construct with Go.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go starts fn on its own goroutine and returns a Future that
// resolves to its result.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		f.val, f.err = fn()
		close(f.done)
	}()
	return f
}

// Done returns a Future already resolved to (val, err), for callers
// that have a result in hand and want it to satisfy the same
// interface as an asynchronous one (e.g. a manager that can answer
// without a round trip).
func Done[T any](val T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), val: val, err: err}
	close(f.done)
	return f
}

// Await blocks until fn's goroutine finishes or ctx is done, whichever
// comes first.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Transform chains fn onto f's eventual success, skipping fn and
// propagating the error if f fails.
func Transform[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	return Go(func() (U, error) {
		v, err := f.Await(context.Background())
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(v)
	})
}

// Catch chains fn onto f's eventual failure, letting a caller recover
// or translate an error without blocking inline on Await.
func Catch[T any](f *Future[T], fn func(error) (T, error)) *Future[T] {
	return Go(func() (T, error) {
		v, err := f.Await(context.Background())
		if err == nil {
			return v, nil
		}
		return fn(err)
	})
}

// All awaits every future in fs and returns their results in order,
// or the first error encountered. Futures run concurrently; All only
// serializes the awaiting.
func All[T any](ctx context.Context, fs []*Future[T]) ([]T, error) {
	out := make([]T, len(fs))
	for i, f := range fs {
		v, err := f.Await(ctx)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
