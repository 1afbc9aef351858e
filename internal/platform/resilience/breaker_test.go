package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 3, OpenTimeout: time.Minute, HalfOpenProbes: 1})

	for i := 0; i < 3; i++ {
		if err := b.Allow(); err != nil {
			t.Fatalf("allow before threshold: %v", err)
		}
		b.Failure()
	}

	if err := b.Allow(); !errors.Is(err, ErrOpen) {
		t.Fatalf("expected ErrOpen after threshold, got %v", err)
	}
	if got := b.State(); got != StateOpen {
		t.Fatalf("expected open state, got %s", got)
	}
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, OpenTimeout: time.Minute, HalfOpenProbes: 1})
	current := time.Now()
	b.now = func() time.Time { return current }

	b.Failure()
	if err := b.Allow(); !errors.Is(err, ErrOpen) {
		t.Fatalf("expected rejection while open, got %v", err)
	}

	current = current.Add(2 * time.Minute)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe to pass after timeout: %v", err)
	}
	b.Success()

	if got := b.State(); got != StateClosed {
		t.Fatalf("expected closed after successful probe, got %s", got)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("closed breaker should allow: %v", err)
	}
}

func TestBreakerReopensOnFailedProbe(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, OpenTimeout: time.Minute, HalfOpenProbes: 1})
	current := time.Now()
	b.now = func() time.Time { return current }

	b.Failure()
	current = current.Add(2 * time.Minute)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe to pass after timeout: %v", err)
	}
	b.Failure()

	if err := b.Allow(); !errors.Is(err, ErrOpen) {
		t.Fatalf("expected rejection after failed probe, got %v", err)
	}
}
