package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/elastiquality-search/internal/config"
	"github.com/elastiquality-search/internal/repository/cache"
)

// getTestRedis connects to a local Redis (DB 1) or skips the test
func getTestRedis(t *testing.T) *cache.Redis {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}

	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisFromClient(client, zap.NewNop())
}

func TestCacheRepository_GetSetDelete(t *testing.T) {
	r := getTestRedis(t)
	repo := cache.NewCacheRepository(r)
	ctx := context.Background()
	key := "test:cache:search"
	t.Cleanup(func() { r.Client().Del(context.Background(), key) })

	val, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, val, "miss returns nil without error")

	require.NoError(t, repo.Set(ctx, key, []byte(`{"ok":true}`), time.Minute))

	val, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(val))

	require.NoError(t, repo.Delete(ctx, key))

	val, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisRateLimiter_FixedWindow(t *testing.T) {
	r := getTestRedis(t)
	limiter := cache.NewRedisRateLimiter(r, 2, 10*time.Second)
	ctx := context.Background()
	key := "test-ip-" + time.Now().Format("150405.000000000")
	t.Cleanup(func() { r.Client().Del(context.Background(), "ratelimit:search:"+key) })

	first, err := limiter.CheckAndIncrement(ctx, key)
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 2, first.Limit)
	assert.Equal(t, 1, first.Remaining)

	second, err := limiter.CheckAndIncrement(ctx, key)
	require.NoError(t, err)
	assert.True(t, second.Allowed)
	assert.Equal(t, 0, second.Remaining)

	third, err := limiter.CheckAndIncrement(ctx, key)
	require.NoError(t, err)
	assert.False(t, third.Allowed)
	assert.Equal(t, 0, third.Remaining)
	assert.WithinDuration(t, time.Now().Add(10*time.Second), third.ResetTime, 2*time.Second)

	ttl, err := r.Client().PTTL(ctx, "ratelimit:search:"+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRedis_Health(t *testing.T) {
	r := getTestRedis(t)
	assert.NoError(t, r.Health(context.Background()))
}

func TestNewRedis_ConnectError(t *testing.T) {
	_, err := cache.NewRedis(&config.RedisConfig{Host: "127.0.0.1", Port: 1}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}
