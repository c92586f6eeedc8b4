package database

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"
)

// ErrStoreUnavailable is returned once a transient store failure has exhausted
// its retry budget. Callers treat it as retryable at their own discretion.
var ErrStoreUnavailable = errors.New("store unavailable")

const maxAttempts = 3

// WithRetry runs fn up to maxAttempts times with exponential backoff.
// Context cancellation and non-transient errors are returned as-is; exhausting
// the budget on a transient error wraps it in ErrStoreUnavailable.
func WithRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !IsTransient(lastErr) {
			return lastErr
		}

		slog.Warn("Store call failed, retrying", "op", op, "attempt", attempt, "error", lastErr)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoffDelay(attempt)):
		}
	}

	return errors.Join(ErrStoreUnavailable, lastErr)
}

// backoffDelay increases the delay exponentially with each retry.
func backoffDelay(attempt int) time.Duration {
	d := time.Duration(math.Pow(2, float64(attempt))) * 50 * time.Millisecond
	if d > 2*time.Second {
		return 2 * time.Second
	}
	return d
}

// IsTransient reports whether err looks like a temporary store failure worth
// retrying. Domain sentinel errors and validation failures are never transient.
func IsTransient(err error) bool {
	var transient interface{ Transient() bool }
	if errors.As(err, &transient) {
		return transient.Transient()
	}
	return false
}

// TransientError marks a store failure as retryable.
type TransientError struct {
	Err error
}

func (e TransientError) Error() string   { return e.Err.Error() }
func (e TransientError) Unwrap() error   { return e.Err }
func (e TransientError) Transient() bool { return true }
