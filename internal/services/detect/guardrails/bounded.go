// Package guardrails bounds every external call the resolver makes
package guardrails

import (
	"context"
	stderrs "errors"
	"time"

	perr "filterdetect/internal/platform/errors"
)

// ErrTimeout is returned when the bound fires before the call returns
var ErrTimeout = perr.New(perr.ErrorCodeTimeout, "bounded call timed out")

type result[T any] struct {
	v   T
	err error
}

// Bounded runs fn under a child context limited by d and by any parent deadline.
// When the bound fires first it returns ErrTimeout and the late result is
// dropped; the buffered channel lets the goroutine exit on its own.
// A panic inside fn comes back as a Panic error
func Bounded[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	cctx, cancel := WithChildTimeout(ctx, d)
	defer cancel()

	done := make(chan result[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result[T]{err: perr.PanicErrf("bounded call panicked: %v", r)}
			}
		}()
		v, err := fn(cctx)
		done <- result[T]{v: v, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && stderrs.Is(r.err, context.DeadlineExceeded) && cctx.Err() != nil {
			return zero, ErrTimeout
		}
		return r.v, r.err
	case <-cctx.Done():
		if stderrs.Is(cctx.Err(), context.DeadlineExceeded) {
			return zero, ErrTimeout
		}
		return zero, cctx.Err()
	}
}

// Remaining returns the time left before ctx's deadline, zero when none or expired
func Remaining(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
	}
	return 0
}

// WithChildTimeout takes the tighter of d and the parent's remainder; it never
// extends the parent deadline. d <= 0 only adds cancellation
func WithChildTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	if rem := Remaining(parent); rem > 0 && rem < d {
		return context.WithTimeout(parent, rem)
	}
	return context.WithTimeout(parent, d)
}
