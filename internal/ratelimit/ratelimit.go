// Package ratelimit enforces per-user request ceilings with a
// fixed-window counter. Redis backs the counter when configured so
// limits hold across instances; a process-local fallback covers Redis
// outages.
package ratelimit

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Result describes the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// Limiter provides rate limit checks.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, now time.Time) (Result, error)
}

// UserKey builds the limiter key for an authenticated user.
func UserKey(userID uint64) string {
	if userID == 0 {
		return ""
	}
	return "u:" + strconv.FormatUint(userID, 10)
}

type windowEntry struct {
	window int64
	count  int
}

// MemoryLimiter is a process-local fixed-window limiter.
type MemoryLimiter struct {
	mu       sync.Mutex
	counters map[string]*windowEntry
}

// NewMemoryLimiter constructs a MemoryLimiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{counters: make(map[string]*windowEntry)}
}

// Allow checks whether the request fits in the current one-second window.
func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, now time.Time) (Result, error) {
	if limit <= 0 || key == "" {
		return Result{Allowed: true}, nil
	}
	sec := now.Unix()
	reset := time.Unix(sec+1, 0).UTC()

	l.mu.Lock()
	defer l.mu.Unlock()
	entry := l.counters[key]
	if entry == nil {
		entry = &windowEntry{window: sec}
		l.counters[key] = entry
	}
	if entry.window != sec {
		entry.window = sec
		entry.count = 0
	}
	if entry.count >= limit {
		return Result{Allowed: false, Remaining: 0, Reset: reset}, nil
	}
	entry.count++
	return Result{Allowed: true, Remaining: limit - entry.count, Reset: reset}, nil
}
