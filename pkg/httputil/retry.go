package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure as transient. The GitHub client wraps
// network errors and 5xx responses in it; anything unwrapped is treated as
// permanent and ends the retry loop on the first attempt.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn until it succeeds, fails permanently, or attempts run out.
// Only errors wrapped in [RetryableError] are retried. The delay between
// attempts doubles each time and the wait respects ctx cancellation, in
// which case ctx.Err() is returned. After the final attempt the last error
// is returned as-is.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff applies the fetch-path policy: 3 attempts starting at a
// 1 second delay. Every category load funnels its fetch through this.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
