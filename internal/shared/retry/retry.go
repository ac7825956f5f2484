package retry

import (
	"context"
	"strings"
	"time"

	"talent-backend/internal/shared/telemetry"
)

const (
	// DefaultMaxRetries bounds re-invocations after the first attempt.
	DefaultMaxRetries = 3
	// DefaultDelay is the fixed wait between attempts.
	DefaultDelay = 3000 * time.Millisecond
)

// retryableMarkers are matched against lowercased error messages.
var retryableMarkers = []string{
	"overloaded",
	"rate limit",
	"503",
	"429",
	"quota exceeded",
}

// Options tunes Do. Zero values fall back to the defaults above.
type Options struct {
	MaxRetries int
	Delay      time.Duration
	// Retryable classifies an error as transient. Nil means RetryableMessage.
	Retryable func(error) bool
}

// RetryableMessage reports whether the error message carries one of the
// transient-failure markers (overload, rate limiting, 503/429, quota).
func RetryableMessage(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range retryableMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Do invokes op, retrying on classified-retryable failures with a fixed
// delay between attempts. MaxRetries of 3 means up to 4 invocations total.
// A non-retryable error is returned immediately without waiting. After the
// final attempt the last observed error is returned.
func Do[T any](ctx context.Context, op func(context.Context) (T, error), opts Options) (T, error) {
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	retryable := opts.Retryable
	if retryable == nil {
		retryable = RetryableMessage
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= maxRetries+1; attempt++ {
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !retryable(err) {
			return zero, err
		}
		if attempt == maxRetries+1 {
			break
		}

		telemetry.Info("retry.wait", map[string]any{
			"attempt":  attempt,
			"delay_ms": delay.Milliseconds(),
			"error":    err.Error(),
		})
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
	return zero, lastErr
}
