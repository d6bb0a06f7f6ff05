package util

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute, zap.NewNop())

	if !cb.CanExecute() {
		t.Fatalf("new breaker must start closed")
	}

	cb.RecordFailure(0)
	cb.RecordFailure(0)
	if !cb.CanExecute() {
		t.Fatalf("breaker opened below the failure threshold")
	}

	cb.RecordFailure(0)
	if cb.CanExecute() {
		t.Fatalf("breaker should be open after threshold failures")
	}

	status := cb.GetStatus()
	if status.State != CircuitStateOpen {
		t.Fatalf("expected OPEN state, got %s", status.State)
	}
	if status.NextRetryTime == nil {
		t.Fatalf("open breaker must expose the next retry time")
	}
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute, zap.NewNop())

	cb.RecordFailure(0)
	cb.RecordFailure(0)
	cb.RecordSuccess()
	cb.RecordFailure(0)
	cb.RecordFailure(0)

	if !cb.CanExecute() {
		t.Fatalf("success should have reset the consecutive failure count")
	}
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond, zap.NewNop())

	cb.RecordFailure(0)
	if cb.CanExecute() {
		t.Fatalf("breaker should be open")
	}

	time.Sleep(20 * time.Millisecond)
	if !cb.CanExecute() {
		t.Fatalf("breaker should transition to half-open after the reset timeout")
	}

	cb.RecordSuccess()
	if cb.GetStatus().State != CircuitStateClosed {
		t.Fatalf("successful probe should close the breaker, got %s", cb.GetStatus().State)
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond, zap.NewNop())

	cb.RecordFailure(0)
	time.Sleep(20 * time.Millisecond)
	if !cb.CanExecute() {
		t.Fatalf("breaker should be half-open")
	}

	cb.RecordFailure(time.Minute)
	if cb.CanExecute() {
		t.Fatalf("failed probe should reopen the breaker")
	}
}

func TestCircuitBreakerReset(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute, zap.NewNop())

	cb.RecordFailure(0)
	if cb.CanExecute() {
		t.Fatalf("breaker should be open")
	}

	cb.Reset()
	if !cb.CanExecute() {
		t.Fatalf("reset breaker should accept requests")
	}
	if status := cb.GetStatus(); status.State != CircuitStateClosed || status.FailureCount != 0 {
		t.Fatalf("unexpected status after reset: %+v", status)
	}
}
