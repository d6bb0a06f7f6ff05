package util

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// CircuitState represents the state of the circuit breaker
type CircuitState string

const (
	CircuitStateClosed   CircuitState = "CLOSED"
	CircuitStateOpen     CircuitState = "OPEN"
	CircuitStateHalfOpen CircuitState = "HALF_OPEN"
)

func (s CircuitState) String() string {
	return string(s)
}

// CircuitBreaker guards a single upstream service. After
// failureThreshold consecutive failures the circuit opens; once the
// reset timeout elapses the next caller is let through half-open and a
// success closes the circuit again.
type CircuitBreaker struct {
	state            CircuitState
	failureCount     int
	failureThreshold int
	resetTimeout     time.Duration
	nextRetryTime    time.Time
	logger           *zap.Logger
	mu               sync.Mutex
}

type CircuitBreakerStatus struct {
	State         CircuitState
	FailureCount  int
	NextRetryTime *time.Time
}

func NewCircuitBreaker(failureThreshold int, resetTimeout time.Duration, logger *zap.Logger) *CircuitBreaker {
	return &CircuitBreaker{
		state:            CircuitStateClosed,
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		logger:           logger,
	}
}

// CanExecute checks if requests can be executed
func (cb *CircuitBreaker) CanExecute() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitStateOpen && time.Now().After(cb.nextRetryTime) {
		cb.transitionTo(CircuitStateHalfOpen)
	}
	return cb.state != CircuitStateOpen
}

// RecordSuccess records a successful request
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitStateHalfOpen {
		cb.logger.Info("Circuit breaker: service recovered, transitioning to CLOSED")
		cb.transitionTo(CircuitStateClosed)
	}
	cb.failureCount = 0
}

// RecordFailure records a failed request. The timeout parameter lets
// rate-limit failures hold the circuit open longer than transient ones.
func (cb *CircuitBreaker) RecordFailure(timeout time.Duration) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if timeout <= 0 {
		timeout = cb.resetTimeout
	}

	if cb.state == CircuitStateHalfOpen {
		cb.logger.Warn("Circuit breaker: recovery probe failed, reopening")
		cb.open(timeout)
		return
	}

	cb.failureCount++
	if cb.failureCount >= cb.failureThreshold {
		cb.logger.Warn("Circuit breaker: failure threshold reached",
			zap.Int("failures", cb.failureCount),
			zap.Duration("retry_after", timeout),
		)
		cb.open(timeout)
	}
}

func (cb *CircuitBreaker) GetStatus() CircuitBreakerStatus {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	status := CircuitBreakerStatus{
		State:        cb.state,
		FailureCount: cb.failureCount,
	}
	if cb.state == CircuitStateOpen {
		next := cb.nextRetryTime
		status.NextRetryTime = &next
	}
	return status
}

func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.transitionTo(CircuitStateClosed)
	cb.failureCount = 0
}

func (cb *CircuitBreaker) open(timeout time.Duration) {
	cb.nextRetryTime = time.Now().Add(timeout)
	cb.transitionTo(CircuitStateOpen)
}

func (cb *CircuitBreaker) transitionTo(state CircuitState) {
	if cb.state == state {
		return
	}
	cb.logger.Debug("Circuit breaker state change",
		zap.String("from", cb.state.String()),
		zap.String("to", state.String()),
	)
	cb.state = state
}
