package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/abhijeet-gautam-07/rag-docs/types"
)

const maxRetryDelay = 10 * time.Second

// WithRetry runs call up to maxAttempts times. Only transient failures
// (see types.IsTransient) are retried, with a doubling backoff between
// attempts; anything else is returned immediately. Exhausting the budget
// wraps types.ErrRetriesExhausted so callers can tell the two apart.
func WithRetry(ctx context.Context, maxAttempts int, backoff time.Duration, call func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(RetryDelay(backoff, attempt-1)):
			}
		}
		if err = call(); err == nil {
			return nil
		}
		if !types.IsTransient(err) {
			return err
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", types.ErrRetriesExhausted, maxAttempts, err)
}

// RetryDelay returns the backoff before retry number attempt (0-based),
// doubling from base and capped at maxRetryDelay.
func RetryDelay(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	if attempt < 0 {
		attempt = 0
	}
	d := base << attempt
	if d > maxRetryDelay || d <= 0 {
		d = maxRetryDelay
	}
	return d
}
