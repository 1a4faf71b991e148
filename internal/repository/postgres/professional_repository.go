package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/elastiquality-search/internal/domain"
	"github.com/elastiquality-search/internal/domain/repository"
	"github.com/elastiquality-search/internal/pkg/errors"
)

type professionalRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewProfessionalRepository(db *DB) repository.ProfessionalRepository {
	return &professionalRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

const eligibleProfessionalsQuery = `
	SELECT
		u.id,
		COALESCE(u.name, '')          AS name,
		COALESCE(u.email, '')         AS email,
		COALESCE(u.image, '')         AS avatar,
		COALESCE(p.specialties, '')   AS specialties,
		COALESCE(p.experience, '')    AS experience,
		COALESCE(p.category, '')      AS category,
		COALESCE(p.district, '')      AS district,
		COALESCE(p.council, '')       AS council,
		COALESCE(p.parish, '')        AS parish,
		COALESCE(p.rating, 0)         AS rating,
		COALESCE(p.completed_jobs, 0) AS completed_jobs,
		p.is_verified,
		p.is_premium,
		p.is_active,
		u.created_at
	FROM users u
	JOIN professional_profiles p ON p.user_id = u.id
	WHERE u.user_type = $1
	  AND p.is_active = TRUE
`

const eligibleProfessionalsOrder = `
	ORDER BY p.is_premium DESC, p.is_verified DESC, p.rating DESC NULLS LAST, u.created_at DESC
`

// ListEligible - активные профессионалы в порядке по умолчанию, не больше limit.
// Фильтры повторяют семантику usecase: category/specialties содержат запрос,
// локация совпадает в обе стороны с любым из трёх уровней.
func (r *professionalRepository) ListEligible(
	ctx context.Context,
	filter domain.CandidateFilter,
	limit int,
) ([]*domain.ProfessionalRecord, error) {
	query, args := buildEligibleQuery(filter, limit)

	var records []*domain.ProfessionalRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		r.logger.Error("Failed to list eligible professionals",
			zap.Int("limit", limit),
			zap.Error(err))
		return nil, fmt.Errorf("%w: list eligible professionals: %w", errors.ErrDatabaseError, err)
	}

	return records, nil
}

func buildEligibleQuery(filter domain.CandidateFilter, limit int) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(eligibleProfessionalsQuery)

	args := []interface{}{domain.AccountTypeProfessional}
	argIdx := 2

	if category := strings.TrimSpace(filter.Category); category != "" {
		fmt.Fprintf(&sb, "  AND strpos(lower(COALESCE(p.category, '')), lower($%d)) > 0\n", argIdx)
		args = append(args, category)
		argIdx++
	}

	if service := strings.TrimSpace(filter.Service); service != "" {
		fmt.Fprintf(&sb, "  AND strpos(lower(COALESCE(p.specialties, '')), lower($%d)) > 0\n", argIdx)
		args = append(args, service)
		argIdx++
	}

	if location := strings.TrimSpace(filter.Location); location != "" {
		sb.WriteString("  AND (")
		for i, column := range []string{"p.district", "p.council", "p.parish"} {
			if i > 0 {
				sb.WriteString(" OR ")
			}
			fmt.Fprintf(&sb,
				"(btrim(COALESCE(%[1]s, '')) <> '' AND (strpos(lower(%[1]s), lower($%[2]d)) > 0 OR strpos(lower($%[2]d), lower(btrim(%[1]s))) > 0))",
				column, argIdx)
		}
		sb.WriteString(")\n")
		args = append(args, location)
		argIdx++
	}

	sb.WriteString(eligibleProfessionalsOrder)
	fmt.Fprintf(&sb, "	LIMIT $%d", argIdx)
	args = append(args, limit)

	return sb.String(), args
}
