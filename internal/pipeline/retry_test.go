package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicy_EventualSuccess(t *testing.T) {
	attempts := 0
	policy := RetryPolicy{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 2}

	err := policy.Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryPolicy_Exhaustion(t *testing.T) {
	attempts := 0
	policy := RetryPolicy{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 2}

	wantErr := errors.New("always failing")
	err := policy.Do(context.Background(), func() error {
		attempts++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the last error back, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryPolicy_NonRetryableStopsImmediately(t *testing.T) {
	attempts := 0
	policy := RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		Retryable:    func(err error) bool { return false },
	}

	err := policy.Do(context.Background(), func() error {
		attempts++
		return errors.New("permanent")
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt for a permanent error, got %d", attempts)
	}
}

func TestRetryPolicy_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := RetryPolicy{MaxAttempts: 3, InitialDelay: time.Second}
	err := policy.Do(ctx, func() error { return errors.New("transient") })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
