package crawl

import (
	"context"
)

// DefaultAttempts is the number of tries for each listing step.
const DefaultAttempts = 3

// RecoverFunc runs between a failed attempt and the next one, typically to
// refresh the page. attempt is the 1-based number of the attempt that failed.
type RecoverFunc func(ctx context.Context, attempt int, err error)

// WithRetries calls action until it succeeds or attempts run out.
// onFailure, if provided, is called after every failed attempt except the
// last. The error of the final attempt is returned. Context cancellation
// stops the loop immediately with the context error.
func WithRetries[T any](ctx context.Context, attempts int, action func(ctx context.Context, attempt int) (T, error), onFailure RecoverFunc) (T, error) {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		v, err := action(ctx, attempt)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		// Don't recover after the last attempt
		if attempt == attempts {
			break
		}
		if onFailure != nil {
			onFailure(ctx, attempt, err)
		}
	}

	return zero, lastErr
}
