// Package retry wraps a fallible operation with bounded retry-with-delay
// semantics.
package retry

import (
	"context"
	"fmt"
	"time"
)

// ExhaustedError is returned once an operation has failed maxAttempts
// times in a row. It wraps the last underlying error.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("operation failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Do runs op up to maxAttempts times, sleeping delay between attempts.
// The delay is context-aware so a global stop is not held up by a waiting
// retry. Do keeps no state between invocations.
func Do(ctx context.Context, op func() error, maxAttempts int, delay time.Duration) error {

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {

		if lastErr = op(); lastErr == nil {
			return nil
		}

		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return &ExhaustedError{Attempts: maxAttempts, Err: lastErr}
}
