package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExecuteRunsExactlyOncePerCall(t *testing.T) {
	breaker := NewBreaker(Config{Enabled: true})
	calls := 0
	failure := errors.New("capability down")

	err := breaker.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return failure
	}, nil)

	if !errors.Is(err, failure) {
		t.Fatalf("expected the capability error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("a failing call must never be retried, got %d attempts", calls)
	}
}

func TestExecuteOpensCircuitAfterSustainedFailures(t *testing.T) {
	breaker := NewBreaker(Config{
		Enabled:      true,
		MinRequests:  3,
		FailureRatio: 0.5,
		OpenTimeout:  time.Minute,
	})
	failure := errors.New("down")

	reached := 0
	for i := 0; i < 10; i++ {
		_ = breaker.Execute(context.Background(), "op", func(context.Context) error {
			reached++
			return failure
		}, nil)
	}

	if reached >= 10 {
		t.Fatalf("open circuit must stop reaching the capability, reached %d times", reached)
	}

	err := breaker.Execute(context.Background(), "op", func(context.Context) error { return nil }, nil)
	if !IsCircuitOpen(err) {
		t.Fatalf("expected an open-circuit error, got %v", err)
	}
}

func TestExecuteDisabledBypassesCircuit(t *testing.T) {
	breaker := NewBreaker(Config{Enabled: false, MinRequests: 1, FailureRatio: 0.01})
	failure := errors.New("down")

	reached := 0
	for i := 0; i < 20; i++ {
		_ = breaker.Execute(context.Background(), "op", func(context.Context) error {
			reached++
			return failure
		}, nil)
	}
	if reached != 20 {
		t.Fatalf("disabled breaker must pass every call through, reached %d", reached)
	}
}

func TestClassifyDefaultIgnoresCancellation(t *testing.T) {
	if ClassifyDefault(context.Canceled).RecordFailure {
		t.Fatal("cancellation must not count against the circuit")
	}
	if !ClassifyDefault(errors.New("boom")).RecordFailure {
		t.Fatal("real failures must count against the circuit")
	}
}

func TestExecuteIsolatesOperations(t *testing.T) {
	breaker := NewBreaker(Config{
		Enabled:      true,
		MinRequests:  2,
		FailureRatio: 0.5,
		OpenTimeout:  time.Minute,
	})
	failure := errors.New("down")

	for i := 0; i < 10; i++ {
		_ = breaker.Execute(context.Background(), "broken", func(context.Context) error { return failure }, nil)
	}

	if err := breaker.Execute(context.Background(), "healthy", func(context.Context) error { return nil }, nil); err != nil {
		t.Fatalf("an open circuit must not leak into other operations: %v", err)
	}
}
