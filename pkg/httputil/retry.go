package httputil

import (
	"context"
	"errors"
	"time"

	errs "github.com/matzehuels/swcatalog/pkg/errors"
)

// Default retry settings, matching the Freshservice client defaults.
const (
	DefaultAttempts = 3
	DefaultBackoff  = time.Second
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, unexpected status codes) with
// this type so that [Policy.Do] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a *RetryableError. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is wrapped with [RetryableError].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real-clock SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Policy describes how one logical request is retried.
//
// Errors are classified as follows:
//   - [errs.RateLimitedError]: wait RetryAfter (or Backoff when the server
//     gave no hint) and try again. Rate-limit waits never consume an attempt.
//   - [RetryableError]: consume an attempt, wait Backoff, try again.
//   - anything else: returned immediately.
//
// The backoff is fixed, not exponential: Freshservice throttles with
// explicit Retry-After headers and everything else is a short blip.
type Policy struct {
	Attempts int
	Backoff  time.Duration
	Sleep    SleepFunc
}

// DefaultPolicy returns a Policy with [DefaultAttempts] and [DefaultBackoff].
func DefaultPolicy() Policy {
	return Policy{Attempts: DefaultAttempts, Backoff: DefaultBackoff}
}

// Do executes fn until it succeeds, fails with a non-retryable error, or
// exhausts the attempt budget. It returns the last error in the latter case,
// or ctx.Err() if cancelled while waiting.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var lastErr error
	for i := 0; i < attempts; {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if rl, ok := errs.AsRateLimited(err); ok {
			wait := rl.RetryAfter
			if wait <= 0 {
				wait = p.Backoff
			}
			if err := sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}
		if !IsRetryable(err) {
			return err
		}

		i++
		if i < attempts {
			if err := sleep(ctx, p.Backoff); err != nil {
				return err
			}
		}
	}
	return lastErr
}
