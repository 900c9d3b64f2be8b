package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Limiter is a fixed-window counter keyed in Redis. Keys expire with the
// window, so nothing accumulates in process memory.
type Limiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
}

func New(rdb *redis.Client, limit int64, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: limit, window: window}
}

// Allow reports whether another event is permitted for key within the
// current window. Redis being unreachable fails open; callers should log
// the returned error.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	n, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, err
	}
	if n == 1 {
		l.rdb.Expire(ctx, redisKey, l.window)
	}
	return n <= l.limit, nil
}
