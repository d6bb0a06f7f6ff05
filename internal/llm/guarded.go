package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/comp-table-go/internal/constants"
	"github.com/kapu/comp-table-go/internal/util"
)

// GuardedProvider wraps a provider with a circuit breaker. The
// normalization/cell provider takes many small calls in bursts, so
// after repeated upstream failures the breaker rejects calls outright
// until the reset timeout passes; rate-limit failures hold the circuit
// open longer.
type GuardedProvider struct {
	inner   ChatProvider
	breaker *util.CircuitBreaker
	logger  *zap.Logger
}

func NewGuardedProvider(inner ChatProvider, logger *zap.Logger) *GuardedProvider {
	if inner == nil {
		return nil
	}
	return &GuardedProvider{
		inner: inner,
		breaker: util.NewCircuitBreaker(
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger,
		),
		logger: logger,
	}
}

func (g *GuardedProvider) Name() string {
	return g.inner.Name()
}

func (g *GuardedProvider) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if !g.breaker.CanExecute() {
		status := g.breaker.GetStatus()
		retry := "unknown"
		if status.NextRetryTime != nil {
			retry = status.NextRetryTime.Format("15:04:05")
		}
		return "", fmt.Errorf("%s temporarily unavailable (circuit open, retry after %s)", g.inner.Name(), retry)
	}

	text, err := g.inner.Complete(ctx, req)
	if err != nil {
		g.breaker.RecordFailure(failureTimeout(err))
		return "", err
	}

	g.breaker.RecordSuccess()
	return text, nil
}

func (g *GuardedProvider) Status() util.CircuitBreakerStatus {
	return g.breaker.GetStatus()
}

func failureTimeout(err error) time.Duration {
	if isRateLimitError(err) {
		return constants.CircuitBreakerConfig.RateLimitTimeout
	}
	return constants.CircuitBreakerConfig.ResetTimeout
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(strings.ToLower(msg), "rate limit") ||
		strings.Contains(strings.ToLower(msg), "quota")
}
