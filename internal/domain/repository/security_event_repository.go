package repository

import (
	"context"
	"time"

	"github.com/elastiquality-search/internal/domain"
)

// SecurityEventRepository - долговременное хранилище событий безопасности
type SecurityEventRepository interface {
	// SaveBatch сохраняет события; повторная вставка того же ID игнорируется
	SaveBatch(ctx context.Context, events []domain.SecurityEvent) error

	// DeleteOlderThan удаляет события старше before и возвращает их число
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}
