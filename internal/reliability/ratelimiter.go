// Package reliability contains the harness around the model dependency:
// a sliding-window rate limiter, a circuit breaker and bounded
// exponential-backoff retry. RateLimiter and CircuitBreaker are safe for
// concurrent use and may be shared by several agent runs against the same
// model endpoint.
package reliability

import (
	"context"
	"sync"
	"time"

	"browsemind/internal/application/port/output"
)

// RateLimiter bounds acquisitions to maxRequests within any trailing window.
// It never rejects, only delays the caller.
type RateLimiter struct {
	mu          sync.Mutex
	timestamps  []time.Time
	maxRequests int
	window      time.Duration
	logger      output.LoggerPort
}

func NewRateLimiter(maxRequests int, window time.Duration, logger output.LoggerPort) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		logger:      logger,
	}
}

// Acquire blocks until admitting the caller keeps the trailing window under
// the limit, then records the acquisition. Admission is FIFO through the
// mutex. Returns the ctx error if cancelled while waiting.
func (rl *RateLimiter) Acquire(ctx context.Context) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	// Prune timestamps that fell out of the window.
	cutoff := now.Add(-rl.window)
	start := 0
	for start < len(rl.timestamps) && !rl.timestamps[start].After(cutoff) {
		start++
	}
	rl.timestamps = rl.timestamps[start:]

	if len(rl.timestamps) >= rl.maxRequests {
		sleep := rl.window - now.Sub(rl.timestamps[0])
		if sleep > 0 {
			if rl.logger != nil {
				rl.logger.Info("Rate limit reached, waiting", "sleep", sleep.String())
			}
			if err := sleepCtx(ctx, sleep); err != nil {
				return err
			}
			now = time.Now()
		}
	}

	rl.timestamps = append(rl.timestamps, now)
	return nil
}

// InFlight returns how many acquisitions are currently inside the window.
func (rl *RateLimiter) InFlight() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.window)
	n := 0
	for _, ts := range rl.timestamps {
		if ts.After(cutoff) {
			n++
		}
	}
	return n
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
