package reliability

import (
	"testing"
	"time"
)

func TestCircuitBreaker_StartsClosed(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute, nil)

	if cb.State() != StateClosed {
		t.Errorf("expected closed state, got %v", cb.State())
	}
	if !cb.CanExecute() {
		t.Error("closed breaker must allow calls")
	}
}

func TestCircuitBreaker_OpensAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute, nil)

	cb.OnFailure()
	cb.OnFailure()
	if !cb.CanExecute() {
		t.Error("breaker must stay closed below the threshold")
	}

	cb.OnFailure()
	if cb.State() != StateOpen {
		t.Errorf("expected open state after 3 failures, got %v", cb.State())
	}
	if cb.CanExecute() {
		t.Error("open breaker must reject calls before the recovery timeout")
	}
}

func TestCircuitBreaker_SuccessResetsCount(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute, nil)

	cb.OnFailure()
	cb.OnFailure()
	cb.OnSuccess()
	cb.OnFailure()
	cb.OnFailure()

	if cb.State() != StateClosed {
		t.Errorf("non-consecutive failures must not trip the breaker, got %v", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenAfterTimeout(t *testing.T) {
	recovery := 80 * time.Millisecond
	cb := NewCircuitBreaker(1, recovery, nil)

	cb.OnFailure()
	if cb.CanExecute() {
		t.Fatal("breaker should be open")
	}

	time.Sleep(recovery + 20*time.Millisecond)

	// The timeout elapsed: exactly one trial call is allowed and the
	// breaker moves to half-open as a side effect.
	if !cb.CanExecute() {
		t.Fatal("breaker should allow a trial call after the recovery timeout")
	}
	if cb.State() != StateHalfOpen {
		t.Errorf("expected half-open state, got %v", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenSuccessCloses(t *testing.T) {
	recovery := 50 * time.Millisecond
	cb := NewCircuitBreaker(1, recovery, nil)

	cb.OnFailure()
	time.Sleep(recovery + 20*time.Millisecond)
	cb.CanExecute()

	cb.OnSuccess()
	if cb.State() != StateClosed {
		t.Errorf("expected closed after a successful trial, got %v", cb.State())
	}
	if !cb.CanExecute() {
		t.Error("closed breaker must allow calls")
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	recovery := 50 * time.Millisecond
	cb := NewCircuitBreaker(1, recovery, nil)

	cb.OnFailure()
	time.Sleep(recovery + 20*time.Millisecond)
	cb.CanExecute()

	cb.OnFailure()
	if cb.State() != StateOpen {
		t.Errorf("expected open after a failed trial, got %v", cb.State())
	}

	// The failed trial reset lastFailureTime, so the breaker rejects again
	// until a fresh recovery timeout elapses.
	if cb.CanExecute() {
		t.Error("reopened breaker must reject calls")
	}
}
