// Package retry is the single generic exponential-backoff wrapper used by
// every external call site in the pipeline.
package retry

import (
	"context"
	"time"

	"bizgen/internal/common/logger"
)

// Operation is a zero-argument fallible operation producing a T.
type Operation[T any] func(ctx context.Context) (T, error)

// Do invokes op up to maxAttempts times, sleeping initialDelay * 2^attempt
// after each failure (attempt indices 0-based). After maxAttempts consecutive
// failures it returns the last observed error unmodified. Every failure is
// retried identically; there is no jitter and no retryable/non-retryable
// split. The backoff sleep is interruptible by ctx.
func Do[T any](ctx context.Context, op Operation[T], maxAttempts int, initialDelay time.Duration, log logger.Logger) (T, error) {
	var zero T
	var lastErr error

	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		log.Warn("operation failed", map[string]interface{}{
			"attempt":     attempt + 1,
			"maxAttempts": maxAttempts,
			"error":       err.Error(),
		})

		if attempt == maxAttempts-1 {
			break
		}

		delay := initialDelay << uint(attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, lastErr
		}
	}

	return zero, lastErr
}

// Err is the value-less convenience form of Do, used for connection setup
// and other side-effecting operations.
func Err(ctx context.Context, op func(ctx context.Context) error, maxAttempts int, initialDelay time.Duration, log logger.Logger) error {
	_, err := Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	}, maxAttempts, initialDelay, log)
	return err
}
