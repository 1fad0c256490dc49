package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter spaces calls so that consecutive callers are at least minDelay
// apart. It is a fixed-interval throttle, not a token bucket: there is no
// burst allowance.
type Limiter struct {
	mu       sync.Mutex
	minDelay time.Duration
	next     time.Time // Earliest time the next call may proceed
}

// NewLimiter creates a limiter with the given minimum inter-call delay.
// A non-positive delay disables throttling.
func NewLimiter(minDelay time.Duration) *Limiter {
	return &Limiter{minDelay: minDelay}
}

// Wait blocks until the caller may proceed, or until ctx is done. Slots are
// reserved under the mutex, so concurrent callers queue up back to back
// rather than racing the timestamp.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.minDelay <= 0 {
		return ctx.Err()
	}

	l.mu.Lock()
	now := time.Now()
	at := l.next
	if at.Before(now) {
		at = now
	}
	l.next = at.Add(l.minDelay)
	l.mu.Unlock()

	d := time.Until(at)
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// MinDelay returns the configured spacing.
func (l *Limiter) MinDelay() time.Duration {
	return l.minDelay
}
