package repository

import (
	"context"

	"github.com/elastiquality-search/internal/domain"
)

// ProfessionalRepository - чтение каталога профессионалов
type ProfessionalRepository interface {
	// ListEligible возвращает активных профессионалов в порядке
	// premium desc, verified desc, rating desc, created_at desc, не больше limit.
	// Непустые поля filter применяются в запросе до лимита.
	ListEligible(ctx context.Context, filter domain.CandidateFilter, limit int) ([]*domain.ProfessionalRecord, error)
}
