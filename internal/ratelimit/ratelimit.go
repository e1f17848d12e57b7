// Package ratelimit implements fixed-window request counters keyed by
// client address.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of counting one request.
type Decision struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   time.Time
}

// Limiter counts a request against key and reports whether it fits the
// window's cap. Implementations must be safe for concurrent use.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

func decide(count, limit int64, resetAt time.Time) Decision {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: count <= limit, Limit: limit, Remaining: remaining, ResetAt: resetAt}
}

// sweepThreshold bounds how many stale windows MemoryLimiter keeps
// before pruning.
const sweepThreshold = 10000

type window struct {
	count   int64
	resetAt time.Time
}

// MemoryLimiter keeps counters in process memory. It is used when no
// Redis is configured and only limits a single instance.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int64
	period  time.Duration
	windows map[string]*window
	now     func() time.Time
}

func NewMemoryLimiter(limit int64, period time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		period:  period,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.windows) > sweepThreshold {
		for k, w := range l.windows {
			if !now.Before(w.resetAt) {
				delete(l.windows, k)
			}
		}
	}

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.period)}
		l.windows[key] = w
	}
	w.count++
	return decide(w.count, l.limit, w.resetAt), nil
}
