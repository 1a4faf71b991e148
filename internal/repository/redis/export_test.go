package redis

import (
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/elastiquality-search/internal/domain/repository"
)

// NewStreamRepositoryWithClaimIdle lets tests reclaim pending messages without waiting.
func NewStreamRepositoryWithClaimIdle(client *redis.Client, logger *zap.Logger, claimIdle time.Duration) repository.StreamRepository {
	return &streamRepository{
		client:    client,
		logger:    logger,
		claimIdle: claimIdle,
	}
}
