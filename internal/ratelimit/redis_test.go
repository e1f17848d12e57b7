package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisLimiter(t *testing.T, limit int64, period time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisLimiter(rdb, limit, period), mr
}

func TestRedisLimiterCapAndReset(t *testing.T) {
	l, mr := newRedisLimiter(t, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := l.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("hit %d should be allowed: %+v", i+1, d)
		}
	}
	d, err := l.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if d.Allowed || d.Remaining != 0 || d.Limit != 2 {
		t.Fatalf("3rd hit should be rejected: %+v", d)
	}

	if ttl := mr.TTL("ratelimit:10.0.0.1"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("key ttl = %v, want within the window", ttl)
	}

	mr.FastForward(time.Minute + time.Second)
	d, err = l.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if !d.Allowed || d.Remaining != 1 {
		t.Fatalf("window should have reset: %+v", d)
	}
}

func TestRedisLimiterRestoresMissingExpiry(t *testing.T) {
	l, mr := newRedisLimiter(t, 10, time.Minute)
	if err := mr.Set("ratelimit:stuck", "3"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	d, err := l.Allow(context.Background(), "stuck")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if d.Remaining != 6 {
		t.Fatalf("Remaining = %d, want 6", d.Remaining)
	}
	if ttl := mr.TTL("ratelimit:stuck"); ttl <= 0 {
		t.Fatalf("expected expiry to be restored, ttl = %v", ttl)
	}
}

func TestRedisLimiterConcurrent(t *testing.T) {
	l, _ := newRedisLimiter(t, 25, time.Hour)
	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := l.Allow(context.Background(), "shared")
			if err == nil && d.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()
	if got := allowed.Load(); got != 25 {
		t.Fatalf("allowed = %d, want exactly 25", got)
	}
}

func TestRedisLimiterBackendDown(t *testing.T) {
	l, mr := newRedisLimiter(t, 1, time.Minute)
	mr.Close()
	if _, err := l.Allow(context.Background(), "k"); err == nil {
		t.Fatal("expected error when redis is unavailable")
	}
}
