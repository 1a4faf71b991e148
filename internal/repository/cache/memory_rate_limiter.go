package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/elastiquality-search/internal/domain"
	"github.com/elastiquality-search/internal/domain/repository"
)

const idleBucketTTL = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// memoryRateLimiter - token bucket на каждый ключ внутри процесса.
// Подходит только для одного инстанса; maxRequests за window пополняются равномерно.
type memoryRateLimiter struct {
	mu          sync.Mutex
	buckets     map[string]*bucket
	maxRequests int
	window      time.Duration
	every       rate.Limit
	now         func() time.Time
	lastSweep   time.Time
}

func NewMemoryRateLimiter(maxRequests int, window time.Duration) repository.RateLimiter {
	return newMemoryRateLimiter(maxRequests, window, time.Now)
}

func newMemoryRateLimiter(maxRequests int, window time.Duration, now func() time.Time) *memoryRateLimiter {
	return &memoryRateLimiter{
		buckets:     make(map[string]*bucket),
		maxRequests: maxRequests,
		window:      window,
		every:       rate.Every(window / time.Duration(maxRequests)),
		now:         now,
		lastSweep:   now(),
	}
}

func (l *memoryRateLimiter) CheckAndIncrement(_ context.Context, key string) (domain.RateLimitResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.every, l.maxRequests)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	result := domain.RateLimitResult{Limit: l.maxRequests}

	if b.limiter.AllowN(now, 1) {
		result.Allowed = true
		result.Remaining = int(b.limiter.TokensAt(now))
		// время до полного восстановления корзины
		missing := float64(l.maxRequests) - b.limiter.TokensAt(now)
		result.ResetTime = now.Add(time.Duration(missing / float64(l.every) * float64(time.Second)))
		return result, nil
	}

	r := b.limiter.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)

	result.Remaining = 0
	result.ResetTime = now.Add(delay)
	return result, nil
}

// sweep удаляет корзины, которые давно не использовались
func (l *memoryRateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < idleBucketTTL {
		return
	}
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > idleBucketTTL {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}
