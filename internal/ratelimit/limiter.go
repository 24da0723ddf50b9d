package ratelimit

import (
	"context"
	"time"

	u "labforms/internal/utils"
)

// Limiter allows at most Max attempts per key inside Window.
type Limiter struct {
	store  Store
	max    int
	window time.Duration
	now    func() time.Time
}

// New creates a Limiter over store.
func New(store Store, max int, window time.Duration) *Limiter {
	return &Limiter{store: store, max: max, window: window, now: time.Now}
}

// WithClock replaces the limiter's time source.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow records an attempt for key and reports whether it is within the
// limit. A nil Limiter allows everything. Store failures are logged and the
// attempt is allowed.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l == nil {
		return true
	}
	allowed, count, err := l.store.Hit(ctx, key, l.now(), l.window, l.max)
	if err != nil {
		u.Warn("Rate limit store failed, allowing request", "key", key, "error", err)
		return true
	}
	if !allowed {
		u.Warn("Rate limit exceeded", "key", key, "attempts", count, "max", l.max)
	}
	return allowed
}
