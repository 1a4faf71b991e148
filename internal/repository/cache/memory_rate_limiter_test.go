package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestMemoryRateLimiter_AllowsUpToLimit(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	limiter := newMemoryRateLimiter(3, time.Minute, clock.Now)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := limiter.CheckAndIncrement(ctx, "1.1.1.1")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i+1)
		assert.Equal(t, 3, res.Limit)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := limiter.CheckAndIncrement(ctx, "1.1.1.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.True(t, res.ResetTime.After(clock.Now()))
	assert.True(t, !res.ResetTime.After(clock.Now().Add(time.Minute)))
}

func TestMemoryRateLimiter_KeysAreIndependent(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	limiter := newMemoryRateLimiter(1, time.Minute, clock.Now)
	ctx := context.Background()

	res, err := limiter.CheckAndIncrement(ctx, "a")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = limiter.CheckAndIncrement(ctx, "a")
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	res, err = limiter.CheckAndIncrement(ctx, "b")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMemoryRateLimiter_Refills(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	limiter := newMemoryRateLimiter(2, time.Minute, clock.Now)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := limiter.CheckAndIncrement(ctx, "ip")
		require.NoError(t, err)
	}
	res, err := limiter.CheckAndIncrement(ctx, "ip")
	require.NoError(t, err)
	require.False(t, res.Allowed)

	// one token every 30s
	clock.Advance(31 * time.Second)

	res, err = limiter.CheckAndIncrement(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMemoryRateLimiter_SweepsIdleBuckets(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	limiter := newMemoryRateLimiter(5, time.Minute, clock.Now)
	ctx := context.Background()

	_, err := limiter.CheckAndIncrement(ctx, "old")
	require.NoError(t, err)

	clock.Advance(idleBucketTTL + time.Minute)

	_, err = limiter.CheckAndIncrement(ctx, "new")
	require.NoError(t, err)

	assert.Len(t, limiter.buckets, 1)
	assert.Contains(t, limiter.buckets, "new")
}
