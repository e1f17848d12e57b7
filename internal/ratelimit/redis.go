package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares counters between instances through Redis. INCR
// makes the increment atomic; the window starts with the first hit.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int64
	period time.Duration
	now    func() time.Time
}

func NewRedisLimiter(rdb *redis.Client, limit int64, period time.Duration) *RedisLimiter {
	return &RedisLimiter{
		rdb:    rdb,
		prefix: "ratelimit:",
		limit:  limit,
		period: period,
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := l.prefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, redisKey)
		ttl = p.PTTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit incr: %w", err)
	}

	remaining := ttl.Val()
	if remaining <= 0 {
		// first hit in the window, or a key that lost its expiry
		if err := l.rdb.PExpire(ctx, redisKey, l.period).Err(); err != nil {
			return Decision{}, fmt.Errorf("rate limit expire: %w", err)
		}
		remaining = l.period
	}
	return decide(incr.Val(), l.limit, l.now().Add(remaining)), nil
}
