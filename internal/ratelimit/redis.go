package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares the fixed windows across API replicas.
type RedisStore struct {
	rdb    redis.Cmdable
	prefix string
	limit  int
	window time.Duration
}

func NewRedisStore(rdb redis.Cmdable, prefix string, limit int, window time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

func (s *RedisStore) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := s.prefix + key

	var incr *redis.IntCmd

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, s.window)
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	if incr.Val() <= int64(s.limit) {
		return true, 0, nil
	}

	ttl, err := s.rdb.PTTL(ctx, k).Result()
	if err != nil || ttl < 0 {
		ttl = s.window
	}
	return false, ttl, nil
}
