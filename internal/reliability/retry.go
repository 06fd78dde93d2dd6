package reliability

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"browsemind/internal/application/port/output"
	"browsemind/internal/domain/apperr"
)

// RetryPolicy controls exponential-backoff retry. Immutable per call.
type RetryPolicy struct {
	MaxRetries      int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	ExponentialBase float64
	Jitter          bool
}

// DefaultRetryPolicy returns sensible defaults.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      3,
		BaseDelay:       1 * time.Second,
		MaxDelay:        60 * time.Second,
		ExponentialBase: 2.0,
		Jitter:          true,
	}
}

// Executor wraps fallible operations with retry and reports every outcome to
// the circuit breaker. Stateless apart from its configuration; safe for
// concurrent use.
type Executor struct {
	policy  RetryPolicy
	breaker *CircuitBreaker
	logger  output.LoggerPort
}

func NewExecutor(policy RetryPolicy, breaker *CircuitBreaker, logger output.LoggerPort) *Executor {
	return &Executor{
		policy:  policy,
		breaker: breaker,
		logger:  logger,
	}
}

// Execute runs op up to MaxRetries+1 times. Before every attempt the breaker
// is consulted; a rejected attempt fails with CIRCUIT_OPEN without consuming
// a retry. Each failure is reported via OnFailure, the final success via
// OnSuccess. Circuit-open and timeout failures are final for this invocation.
// On exhaustion the last error is wrapped in RETRY_EXHAUSTED.
func Execute[T any](ctx context.Context, ex *Executor, op func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= ex.policy.MaxRetries; attempt++ {
		if ex.breaker != nil && !ex.breaker.CanExecute() {
			return zero, apperr.Unavailable(apperr.CodeCircuitOpen, "circuit breaker is open", lastErr)
		}

		result, err := op(ctx)
		if err == nil {
			if ex.breaker != nil {
				ex.breaker.OnSuccess()
			}
			return result, nil
		}

		lastErr = err
		if ex.breaker != nil {
			ex.breaker.OnFailure()
		}

		// A timeout terminates the whole invocation, not just the attempt.
		if isFinal(err) {
			if apperr.CodeOf(err) == "" {
				return zero, apperr.Unavailable(apperr.CodeTimeout, "operation timed out", err)
			}
			return zero, err
		}

		if attempt == ex.policy.MaxRetries {
			break
		}

		delay := ex.backoff(attempt)
		if ex.logger != nil {
			ex.logger.Warn("Attempt failed, retrying",
				"attempt", attempt+1,
				"delay", delay.String(),
				"error", err.Error())
		}
		if serr := sleepCtx(ctx, delay); serr != nil {
			return zero, apperr.Unavailable(apperr.CodeTimeout, "cancelled during backoff", serr)
		}
	}

	if ex.logger != nil {
		ex.logger.Error("Max retries exceeded",
			"maxRetries", ex.policy.MaxRetries,
			"error", lastErr.Error())
	}
	return zero, apperr.Unavailable(apperr.CodeRetryExhausted, "operation failed after all retries", lastErr)
}

// backoff computes min(BaseDelay * ExponentialBase^attempt, MaxDelay),
// scaled by a uniform factor in [0.5, 1.0] when jitter is enabled.
func (ex *Executor) backoff(attempt int) time.Duration {
	delay := float64(ex.policy.BaseDelay)
	for i := 0; i < attempt; i++ {
		delay *= ex.policy.ExponentialBase
	}
	if max := float64(ex.policy.MaxDelay); delay > max {
		delay = max
	}
	if ex.policy.Jitter {
		delay *= 0.5 + rand.Float64()*0.5
	}
	return time.Duration(delay)
}

func isFinal(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	switch apperr.CodeOf(err) {
	case apperr.CodeTimeout, apperr.CodeCircuitOpen:
		return true
	}
	return false
}
