package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/elastiquality-search/internal/domain"
	"github.com/elastiquality-search/internal/domain/repository"
	"github.com/elastiquality-search/internal/pkg/errors"
)

type securityEventRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewSecurityEventRepository(db *DB) repository.SecurityEventRepository {
	return &securityEventRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// securityEventRow - строка security_events; details - json-текст, приводится к jsonb на вставке
type securityEventRow struct {
	ID         uuid.UUID `db:"id"`
	Type       string    `db:"type"`
	Severity   string    `db:"severity"`
	IP         string    `db:"ip"`
	UserAgent  string    `db:"user_agent"`
	Path       string    `db:"path"`
	Details    string    `db:"details"`
	OccurredAt time.Time `db:"occurred_at"`
}

const insertSecurityEventsQuery = `
	INSERT INTO security_events (id, type, severity, ip, user_agent, path, details, occurred_at)
	VALUES (:id, :type, :severity, :ip, :user_agent, :path, :details, :occurred_at)
	ON CONFLICT (id) DO NOTHING
`

func (r *securityEventRepository) SaveBatch(ctx context.Context, events []domain.SecurityEvent) error {
	if len(events) == 0 {
		return nil
	}

	rows := make([]securityEventRow, 0, len(events))
	for _, e := range events {
		details := "{}"
		if len(e.Details) > 0 {
			encoded, err := json.Marshal(e.Details)
			if err != nil {
				return fmt.Errorf("marshal details of event %s: %w", e.ID, err)
			}
			details = string(encoded)
		}
		occurredAt := e.OccurredAt
		if occurredAt.IsZero() {
			occurredAt = time.Now().UTC()
		}
		rows = append(rows, securityEventRow{
			ID:         e.ID,
			Type:       string(e.Type),
			Severity:   string(e.Severity),
			IP:         e.IP,
			UserAgent:  e.UserAgent,
			Path:       e.Path,
			Details:    details,
			OccurredAt: occurredAt,
		})
	}

	if _, err := r.db.NamedExecContext(ctx, insertSecurityEventsQuery, rows); err != nil {
		r.logger.Error("Failed to insert security events", zap.Int("count", len(rows)), zap.Error(err))
		return fmt.Errorf("%w: insert security events: %w", errors.ErrDatabaseError, err)
	}
	return nil
}

func (r *securityEventRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM security_events WHERE occurred_at < $1`, before)
	if err != nil {
		r.logger.Error("Failed to purge security events", zap.Time("before", before), zap.Error(err))
		return 0, fmt.Errorf("%w: delete security events: %w", errors.ErrDatabaseError, err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return deleted, nil
}
