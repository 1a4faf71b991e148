package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/elastiquality-search/internal/domain"
	"github.com/elastiquality-search/internal/domain/repository"
)

const rateLimitKeyPrefix = "ratelimit:search:"

// redisRateLimiter - fixed-window счётчик в Redis, общий для всех инстансов API.
// INCR и EXPIRE NX выполняются в одной транзакции, окно стартует с первого запроса.
type redisRateLimiter struct {
	client      *redis.Client
	logger      *zap.Logger
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

func NewRedisRateLimiter(redis *Redis, maxRequests int, window time.Duration) repository.RateLimiter {
	return &redisRateLimiter{
		client:      redis.Client(),
		logger:      redis.logger,
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

func (l *redisRateLimiter) CheckAndIncrement(ctx context.Context, key string) (domain.RateLimitResult, error) {
	redisKey := rateLimitKeyPrefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, l.window)
		ttl = pipe.PTTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		l.logger.Error("Rate limit counter failed", zap.String("key", redisKey), zap.Error(err))
		return domain.RateLimitResult{}, fmt.Errorf("rate limit incr: %w", err)
	}

	count := int(incr.Val())
	remaining := l.maxRequests - count
	if remaining < 0 {
		remaining = 0
	}

	resetIn := ttl.Val()
	if resetIn <= 0 {
		resetIn = l.window
	}

	return domain.RateLimitResult{
		Allowed:   count <= l.maxRequests,
		Limit:     l.maxRequests,
		Remaining: remaining,
		ResetTime: l.now().Add(resetIn),
	}, nil
}
