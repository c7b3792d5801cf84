package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestUserKey(t *testing.T) {
	if got := UserKey(42); got != "u:42" {
		t.Fatalf("unexpected key: %q", got)
	}
	if got := UserKey(0); got != "" {
		t.Fatalf("expected empty key for zero id, got %q", got)
	}
}

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Unix(1_700_000_000, 0)

	for i := 0; i < 3; i++ {
		res, errAllow := limiter.Allow(context.Background(), "u:1", 3, now)
		if errAllow != nil {
			t.Fatalf("allow %d: %v", i, errAllow)
		}
		if !res.Allowed {
			t.Fatalf("request %d denied inside limit", i)
		}
		if res.Remaining != 3-(i+1) {
			t.Fatalf("request %d: remaining %d", i, res.Remaining)
		}
	}

	res, _ := limiter.Allow(context.Background(), "u:1", 3, now)
	if res.Allowed {
		t.Fatal("fourth request should be denied")
	}
	if !res.Reset.Equal(time.Unix(1_700_000_001, 0).UTC()) {
		t.Fatalf("unexpected reset: %v", res.Reset)
	}

	res, _ = limiter.Allow(context.Background(), "u:1", 3, now.Add(time.Second))
	if !res.Allowed {
		t.Fatal("new window should allow")
	}
}

func TestMemoryLimiter_KeysIndependent(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Unix(1_700_000_000, 0)

	limiter.Allow(context.Background(), "u:1", 1, now)
	res, _ := limiter.Allow(context.Background(), "u:2", 1, now)
	if !res.Allowed {
		t.Fatal("second user blocked by first user's counter")
	}
}

func TestMemoryLimiter_ZeroLimitDisabled(t *testing.T) {
	limiter := NewMemoryLimiter()
	for i := 0; i < 10; i++ {
		res, _ := limiter.Allow(context.Background(), "u:1", 0, time.Now())
		if !res.Allowed {
			t.Fatal("zero limit must not throttle")
		}
	}
}

func TestManager_MemoryFallbackWhenRedisDisabled(t *testing.T) {
	cfg := Config{Limit: 2}
	now := time.Unix(1_700_000_000, 0)
	m := NewManager(func() Config { return cfg }, func() time.Time { return now }, nil)

	for i := 0; i < 2; i++ {
		res, errAllow := m.Allow(context.Background(), "u:7")
		if errAllow != nil || !res.Allowed {
			t.Fatalf("request %d denied: %v", i, errAllow)
		}
	}
	res, _ := m.Allow(context.Background(), "u:7")
	if res.Allowed {
		t.Fatal("limit not enforced")
	}
}

func TestManager_DisabledLimit(t *testing.T) {
	m := NewManager(func() Config { return Config{Limit: 0} }, nil, nil)
	res, errAllow := m.Allow(context.Background(), "u:1")
	if errAllow != nil || !res.Allowed {
		t.Fatalf("disabled limit should always allow: %v", errAllow)
	}
}

func TestManager_RedisFailureTripsBreaker(t *testing.T) {
	cfg := Config{Limit: 1, RedisEnabled: true, RedisAddr: ""}
	now := time.Unix(1_700_000_000, 0)
	m := NewManager(func() Config { return cfg }, func() time.Time { return now }, nil)

	// Missing address fails ensureRedis and falls through to memory.
	res, errAllow := m.Allow(context.Background(), "u:9")
	if errAllow != nil || !res.Allowed {
		t.Fatalf("fallback denied: %v", errAllow)
	}
	if !m.isBreakerActive(now.Add(time.Second)) {
		t.Fatal("breaker not tripped")
	}
	if m.isBreakerActive(now.Add(redisBreakerDuration + time.Second)) {
		t.Fatal("breaker did not cool down")
	}
}
