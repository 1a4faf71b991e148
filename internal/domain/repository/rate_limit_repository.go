package repository

import (
	"context"

	"github.com/elastiquality-search/internal/domain"
)

// RateLimiter - счётчик запросов по ключу (обычно IP клиента)
type RateLimiter interface {
	// CheckAndIncrement учитывает запрос и сообщает, укладывается ли он в лимит
	CheckAndIncrement(ctx context.Context, key string) (domain.RateLimitResult, error)
}
