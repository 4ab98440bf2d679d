package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_FixedWindow(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2, time.Minute)

	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, _, err := s.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, retry, err := s.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retry)

	// other keys are independent
	ok, _, _ = s.Allow(ctx, "5.6.7.8")
	assert.True(t, ok)

	now = now.Add(61 * time.Second)
	ok, _, _ = s.Allow(ctx, "1.2.3.4")
	assert.True(t, ok, "new window")
}

func TestRedisStore_FixedWindow(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping redis rate limit test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	s := NewRedisStore(rdb, "test:rl:", 2, time.Minute)
	key := uuid.NewString()

	for i := 0; i < 2; i++ {
		ok, _, err := s.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, retry, err := s.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, retry, time.Duration(0))
}
