package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/elastiquality-search/internal/domain"
	"github.com/elastiquality-search/internal/domain/repository"
)

// AuditUseCase публикует события безопасности в Redis Stream в фоне.
// Ошибки публикации только логируются и никогда не влияют на ответ клиенту.
type AuditUseCase struct {
	streamRepo repository.StreamRepository
	logger     *zap.Logger
	timeout    time.Duration
	enabled    bool
	wg         sync.WaitGroup
}

// NewAuditUseCase создает новый AuditUseCase. При streamRepo == nil публикация выключена.
func NewAuditUseCase(
	streamRepo repository.StreamRepository,
	logger *zap.Logger,
	timeout time.Duration,
	enabled bool,
) *AuditUseCase {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &AuditUseCase{
		streamRepo: streamRepo,
		logger:     logger,
		timeout:    timeout,
		enabled:    enabled && streamRepo != nil,
	}
}

// Log отправляет событие, не дожидаясь результата
func (uc *AuditUseCase) Log(event domain.SecurityEvent) {
	fields := []zap.Field{
		zap.String("event_id", event.ID.String()),
		zap.String("type", string(event.Type)),
		zap.String("severity", string(event.Severity)),
		zap.String("ip", event.IP),
		zap.String("path", event.Path),
	}
	switch event.Severity {
	case domain.SeverityHigh, domain.SeverityCritical:
		uc.logger.Error("Security event", fields...)
	case domain.SeverityMedium:
		uc.logger.Warn("Security event", fields...)
	default:
		uc.logger.Info("Security event", fields...)
	}

	if !uc.enabled {
		return
	}

	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), uc.timeout)
		defer cancel()

		if err := uc.streamRepo.PublishToStream(ctx, domain.StreamSecurityEvents, event); err != nil {
			uc.logger.Warn("Failed to publish security event",
				zap.String("event_id", event.ID.String()),
				zap.Error(err))
		}
	}()
}

// Flush ждёт завершения публикаций в полёте, но не дольше ctx
func (uc *AuditUseCase) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		uc.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
