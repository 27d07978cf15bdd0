// Package retry runs an operation a bounded number of times with a fixed
// pause between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted is wrapped into the error returned when every attempt failed.
var ErrExhausted = errors.New("retry attempts exhausted")

// Policy configures Do. Attempts is MaxRetries+1.
type Policy struct {
	// MaxRetries is the number of attempts after the first. Negative means 0.
	MaxRetries int
	// Delay is the fixed pause between attempts.
	Delay time.Duration
	// Retryable reports whether err should consume another attempt. Nil
	// retries every error.
	Retryable func(err error) bool
	// OnRetry is called before each pause with the failed attempt number
	// (1-based) and its error.
	OnRetry func(attempt int, err error)
}

// Attempts returns the total number of attempts the policy allows.
func (p Policy) Attempts() int {
	if p.MaxRetries < 0 {
		return 1
	}
	return p.MaxRetries + 1
}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. fn receives the 1-based attempt number.
//
// On exhaustion the error wraps both ErrExhausted and the last error:
// "failed after N attempts: <last error>". Context cancellation during a
// pause returns the context error wrapped with the attempt count.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) error) (int, error) {
	attempts := p.Attempts()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, fmt.Errorf("aborted before attempt %d: %w", attempt, err)
		}

		lastErr = fn(ctx, attempt)
		if lastErr == nil {
			return attempt, nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return attempt, lastErr
		}
		if attempt == attempts {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, lastErr)
		}
		if err := sleep(ctx, p.Delay); err != nil {
			return attempt, fmt.Errorf("aborted after %d attempts: %w", attempt, err)
		}
	}

	return attempts, &ExhaustedError{Attempts: attempts, Last: lastErr}
}

// ExhaustedError is returned by Do when no attempt succeeded.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() []error {
	return []error{ErrExhausted, e.Last}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
