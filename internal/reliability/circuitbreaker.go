package reliability

import (
	"sync"
	"time"

	"browsemind/internal/application/port/output"
)

// BreakerState is the circuit breaker state.
type BreakerState int

const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker suppresses calls to a persistently failing dependency.
// After failureThreshold consecutive failures it opens; once recoveryTimeout
// has elapsed since the last failure it admits one trial call (half-open),
// which settles the state on the next OnSuccess/OnFailure.
type CircuitBreaker struct {
	mu               sync.Mutex
	failureThreshold int
	recoveryTimeout  time.Duration
	failureCount     int
	lastFailureTime  time.Time
	state            BreakerState
	logger           output.LoggerPort
}

func NewCircuitBreaker(failureThreshold int, recoveryTimeout time.Duration, logger output.LoggerPort) *CircuitBreaker {
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		recoveryTimeout:  recoveryTimeout,
		state:            StateClosed,
		logger:           logger,
	}
}

// CanExecute reports whether a call is currently allowed. When the recovery
// timeout has elapsed it performs the Open -> HalfOpen transition.
func (cb *CircuitBreaker) CanExecute() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if !cb.lastFailureTime.IsZero() && time.Since(cb.lastFailureTime) >= cb.recoveryTimeout {
			cb.state = StateHalfOpen
			if cb.logger != nil {
				cb.logger.Info("Circuit breaker half-open, allowing trial call")
			}
			return true
		}
		return false
	case StateHalfOpen:
		return true
	}
	return false
}

// OnSuccess resets the breaker to closed.
func (cb *CircuitBreaker) OnSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount = 0
	cb.state = StateClosed
}

// OnFailure records a failure and trips the breaker at the threshold.
// A failure during the half-open trial reopens immediately.
func (cb *CircuitBreaker) OnFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastFailureTime = time.Now()

	if cb.state == StateHalfOpen {
		cb.state = StateOpen
		if cb.logger != nil {
			cb.logger.Warn("Circuit breaker reopened after failed trial call")
		}
		return
	}

	if cb.failureCount >= cb.failureThreshold {
		cb.state = StateOpen
		if cb.logger != nil {
			cb.logger.Warn("Circuit breaker opened", "failures", cb.failureCount)
		}
	}
}

// State returns the current state without side effects.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
