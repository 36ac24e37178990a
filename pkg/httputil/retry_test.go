package httputil

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "github.com/matzehuels/swcatalog/pkg/errors"
)

var errBoom = errors.New("boom")

// fakeClock records requested sleeps instead of waiting.
type fakeClock struct {
	sleeps []time.Duration
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	return ctx.Err()
}

func testPolicy(attempts int) (Policy, *fakeClock) {
	clock := &fakeClock{}
	return Policy{Attempts: attempts, Backoff: time.Second, Sleep: clock.Sleep}, clock
}

func TestPolicySuccessFirstTry(t *testing.T) {
	p, clock := testPolicy(3)
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if len(clock.sleeps) != 0 {
		t.Errorf("sleeps = %v, want none", clock.sleeps)
	}
}

func TestPolicyRetryCeiling(t *testing.T) {
	p, clock := testPolicy(3)
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return Retryable(errBoom)
	})
	if !errors.Is(err, errBoom) {
		t.Errorf("Do() error = %v, want %v", err, errBoom)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want exactly 3", calls)
	}
	// No sleep after the final attempt.
	if len(clock.sleeps) != 2 {
		t.Errorf("sleeps = %v, want 2 backoffs", clock.sleeps)
	}
	for _, d := range clock.sleeps {
		if d != time.Second {
			t.Errorf("backoff = %v, want 1s", d)
		}
	}
}

func TestPolicyNonRetryableStopsImmediately(t *testing.T) {
	p, clock := testPolicy(3)
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return errBoom
	})
	if err != errBoom {
		t.Errorf("Do() error = %v, want %v", err, errBoom)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if len(clock.sleeps) != 0 {
		t.Errorf("sleeps = %v, want none", clock.sleeps)
	}
}

func TestPolicyRateLimitHonorsRetryAfter(t *testing.T) {
	p, clock := testPolicy(3)
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls == 1 {
			return &errs.RateLimitedError{RetryAfter: 2 * time.Second}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if len(clock.sleeps) != 1 || clock.sleeps[0] != 2*time.Second {
		t.Errorf("sleeps = %v, want [2s]", clock.sleeps)
	}
}

func TestPolicyRateLimitDoesNotConsumeAttempts(t *testing.T) {
	p, clock := testPolicy(2)
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls <= 4 {
			return &errs.RateLimitedError{RetryAfter: time.Second}
		}
		return Retryable(errBoom)
	})
	if !errors.Is(err, errBoom) {
		t.Errorf("Do() error = %v, want %v", err, errBoom)
	}
	// 4 rate-limited calls + 2 counted attempts.
	if calls != 6 {
		t.Errorf("calls = %d, want 6", calls)
	}
	if len(clock.sleeps) != 5 {
		t.Errorf("sleeps = %v, want 4 rate-limit waits + 1 backoff", clock.sleeps)
	}
}

func TestPolicyRateLimitWithoutHint(t *testing.T) {
	p, clock := testPolicy(3)
	calls := 0
	_ = p.Do(context.Background(), func() error {
		calls++
		if calls == 1 {
			return &errs.RateLimitedError{}
		}
		return nil
	})
	if len(clock.sleeps) != 1 || clock.sleeps[0] != p.Backoff {
		t.Errorf("sleeps = %v, want [%v]", clock.sleeps, p.Backoff)
	}
}

func TestPolicyContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, _ := testPolicy(3)
	err := p.Do(ctx, func() error {
		return Retryable(errBoom)
	})
	if err != context.Canceled {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
}

func TestPolicyZeroAttempts(t *testing.T) {
	p, _ := testPolicy(0)
	calls := 0
	_ = p.Do(context.Background(), func() error {
		calls++
		return Retryable(errBoom)
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(errBoom)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != errBoom.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(errBoom) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestSleepRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := Sleep(ctx, time.Hour); err != context.Canceled {
		t.Errorf("Sleep() error = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Sleep() should return promptly on cancelled context")
	}
}
