package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/elastiquality-search/internal/domain"
	"github.com/elastiquality-search/internal/domain/repository"
	"github.com/elastiquality-search/internal/pkg/errors"
	"github.com/elastiquality-search/internal/pkg/utils"
	"github.com/elastiquality-search/internal/usecase"
)

const rateLimitCheckTimeout = 500 * time.Millisecond

// RateLimit ограничивает число запросов с одного IP.
// Если счётчик недоступен, запрос пропускается.
func RateLimit(limiter repository.RateLimiter, audit *usecase.AuditUseCase, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()

		ctx, cancel := context.WithTimeout(c.UserContext(), rateLimitCheckTimeout)
		res, err := limiter.CheckAndIncrement(ctx, ip)
		cancel()
		if err != nil {
			rateLimiterErrorsTotal.Inc()
			logger.Warn("Rate limiter unavailable, request allowed",
				zap.String("ip", ip),
				zap.Error(err))
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetTime.Unix(), 10))

		if res.Allowed {
			return c.Next()
		}

		retryAfter := int(time.Until(res.ResetTime).Round(time.Second).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		rateLimitedTotal.Inc()

		event := domain.NewSecurityEvent(domain.EventRateLimitExceeded, domain.SeverityMedium)
		event.IP = ip
		event.UserAgent = c.Get(fiber.HeaderUserAgent)
		event.Path = c.Path()
		event.Details = map[string]interface{}{
			"limit":     res.Limit,
			"resetTime": res.ResetTime.UnixMilli(),
		}
		audit.Log(event)

		return utils.SendError(c, errors.ErrRateLimited.WithDetails(map[string]interface{}{
			"resetTime": res.ResetTime.UnixMilli(),
		}))
	}
}
