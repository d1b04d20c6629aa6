package memory

import (
	"context"
	"sync"
	"time"
)

type attemptWindow struct {
	count       int
	windowStart time.Time
}

// AttemptLimiter is the in-process login attempt counter. State lives for
// the process lifetime only and is never persisted; a restart clears all
// throttling. One instance is shared by all request handlers through
// explicit injection.
type AttemptLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*attemptWindow
}

// NewAttemptLimiter builds a limiter allowing limit attempts per fixed
// window, keyed by case-sensitive identity key.
func NewAttemptLimiter(limit int, window time.Duration) *AttemptLimiter {
	return NewAttemptLimiterWithClock(limit, window, func() time.Time { return time.Now().UTC() })
}

// NewAttemptLimiterWithClock is NewAttemptLimiter with an injected clock.
func NewAttemptLimiterWithClock(limit int, window time.Duration, now func() time.Time) *AttemptLimiter {
	return &AttemptLimiter{
		limit:   limit,
		window:  window,
		now:     now,
		entries: make(map[string]*attemptWindow),
	}
}

// CheckAndRecord counts the current attempt for key and reports whether it
// may proceed. The check and the increment happen under one lock so racing
// logins cannot slip past the limit.
func (l *AttemptLimiter) CheckAndRecord(ctx context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok || now.Sub(entry.windowStart) >= l.window {
		l.entries[key] = &attemptWindow{count: 1, windowStart: now}
		return true, nil
	}

	entry.count++
	return entry.count <= l.limit, nil
}

// Reset clears the counter for key after a successful authentication.
func (l *AttemptLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
	return nil
}
