package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/elastiquality-search/internal/domain"
	"github.com/elastiquality-search/internal/domain/repository"
)

// AuditArchiveUseCase - перенос событий безопасности из стрима в Postgres и их ротация
type AuditArchiveUseCase struct {
	eventRepo     repository.SecurityEventRepository
	logger        *zap.Logger
	retentionDays int
	now           func() time.Time
}

// NewAuditArchiveUseCase создает новый AuditArchiveUseCase
func NewAuditArchiveUseCase(
	eventRepo repository.SecurityEventRepository,
	logger *zap.Logger,
	retentionDays int,
) *AuditArchiveUseCase {
	return &AuditArchiveUseCase{
		eventRepo:     eventRepo,
		logger:        logger,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// ArchiveMessages разбирает сообщения стрима и сохраняет их одной пачкой.
// Возвращает ID сообщений, которые можно подтвердить: сохранённые и нечитаемые.
func (uc *AuditArchiveUseCase) ArchiveMessages(ctx context.Context, messages []domain.StreamMessage) ([]string, error) {
	events := make([]domain.SecurityEvent, 0, len(messages))
	ackIDs := make([]string, 0, len(messages))

	for _, msg := range messages {
		var event domain.SecurityEvent
		if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
			// битое сообщение не станет лучше при повторе
			uc.logger.Warn("Dropping malformed security event",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			ackIDs = append(ackIDs, msg.ID)
			continue
		}
		events = append(events, event)
		ackIDs = append(ackIDs, msg.ID)
	}

	if len(events) == 0 {
		return ackIDs, nil
	}

	if err := uc.eventRepo.SaveBatch(ctx, events); err != nil {
		return nil, fmt.Errorf("save security events: %w", err)
	}

	uc.logger.Debug("Security events archived", zap.Int("count", len(events)))
	return ackIDs, nil
}

// PurgeExpired удаляет события старше срока хранения
func (uc *AuditArchiveUseCase) PurgeExpired(ctx context.Context) (int64, error) {
	if uc.retentionDays <= 0 {
		return 0, nil
	}

	before := uc.now().UTC().AddDate(0, 0, -uc.retentionDays)
	deleted, err := uc.eventRepo.DeleteOlderThan(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("purge security events: %w", err)
	}

	uc.logger.Info("Expired security events purged",
		zap.Int64("deleted", deleted),
		zap.Time("before", before))
	return deleted, nil
}
