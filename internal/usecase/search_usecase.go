package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/elastiquality-search/internal/domain"
	"github.com/elastiquality-search/internal/domain/repository"
	"github.com/elastiquality-search/internal/pkg/errors"
	"github.com/elastiquality-search/internal/pkg/utils"
	"github.com/elastiquality-search/internal/usecase/dto"
)

const searchCacheKeyPrefix = "search:professionals:"

// SearchOptions - настройки поиска, приходят из config.SearchConfig
type SearchOptions struct {
	CandidateLimit int
	QueryTimeout   time.Duration
	CacheTTL       time.Duration
	PushdownFilter bool
}

// SearchUseCase - поиск профессионалов с ранжированием по административной близости
type SearchUseCase struct {
	professionalRepo repository.ProfessionalRepository
	cacheRepo        repository.CacheRepository
	logger           *zap.Logger
	opts             SearchOptions
}

// NewSearchUseCase - создание нового SearchUseCase. cacheRepo может быть nil.
func NewSearchUseCase(
	professionalRepo repository.ProfessionalRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	opts SearchOptions,
) *SearchUseCase {
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = domain.DefaultCandidateLimit
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 5 * time.Second
	}
	return &SearchUseCase{
		professionalRepo: professionalRepo,
		cacheRepo:        cacheRepo,
		logger:           logger,
		opts:             opts,
	}
}

// Search - фильтрация, ранжирование и пагинация каталога профессионалов
func (uc *SearchUseCase) Search(ctx context.Context, query domain.SearchQuery) (*dto.SearchProfessionalsResponse, error) {
	q := query.Normalize()
	if !q.HasTerms() {
		return nil, errors.ErrInvalidQuery
	}
	if q.Page < 1 || q.Limit < 1 {
		return nil, errors.ErrInvalidPagination
	}

	cacheKey := buildSearchCacheKey(q)
	if cached := uc.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	candidates, err := uc.loadCandidates(ctx, q)
	if err != nil {
		return nil, err
	}

	filtered := FilterProfessionals(candidates, q)
	ranked := RankByProximity(filtered, q.Location)

	start, end, pagination := utils.Paginate(len(ranked), q.Page, q.Limit)
	professionals := make([]dto.ProfessionalDTO, 0, end-start)
	for _, p := range ranked[start:end] {
		professionals = append(professionals, dto.ConvertProfessional(p))
	}

	resp := &dto.SearchProfessionalsResponse{
		Professionals: professionals,
		Pagination:    pagination,
		SearchParams: dto.SearchParams{
			Service:  q.Service,
			Location: q.Location,
			Category: q.Category,
		},
		Filters: dto.SearchFilters{
			HasAdministrativeSorting: true,
			Categories:               domain.ServiceCategories(),
		},
	}

	uc.logger.Debug("Professional search completed",
		zap.String("service", q.Service),
		zap.String("location", q.Location),
		zap.String("category", q.Category),
		zap.Int("candidates", len(candidates)),
		zap.Int("total", pagination.Total),
		zap.Int("page", q.Page))

	uc.toCache(ctx, cacheKey, resp)

	return resp, nil
}

// loadCandidates читает ограниченный набор кандидатов с таймаутом на запрос к БД
func (uc *SearchUseCase) loadCandidates(ctx context.Context, q domain.SearchQuery) ([]*domain.ProfessionalRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opts.QueryTimeout)
	defer cancel()

	var filter domain.CandidateFilter
	if uc.opts.PushdownFilter {
		filter = domain.CandidateFilter{
			Service:  q.Service,
			Location: q.Location,
			Category: q.Category,
		}
	}

	candidates, err := uc.professionalRepo.ListEligible(ctx, filter, uc.opts.CandidateLimit)
	if err != nil {
		uc.logger.Error("Failed to load professional candidates",
			zap.Int("limit", uc.opts.CandidateLimit),
			zap.Bool("pushdown", uc.opts.PushdownFilter),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", errors.ErrUpstreamFailure, err)
	}
	return candidates, nil
}

func (uc *SearchUseCase) fromCache(ctx context.Context, key string) *dto.SearchProfessionalsResponse {
	if uc.cacheRepo == nil || uc.opts.CacheTTL <= 0 {
		return nil
	}

	data, err := uc.cacheRepo.Get(ctx, key)
	if err != nil {
		uc.logger.Warn("Search cache read failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	if data == nil {
		return nil
	}

	var resp dto.SearchProfessionalsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		uc.logger.Warn("Search cache entry is corrupted", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &resp
}

func (uc *SearchUseCase) toCache(ctx context.Context, key string, resp *dto.SearchProfessionalsResponse) {
	if uc.cacheRepo == nil || uc.opts.CacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		uc.logger.Warn("Failed to marshal search response", zap.Error(err))
		return
	}
	if err := uc.cacheRepo.Set(ctx, key, data, uc.opts.CacheTTL); err != nil {
		uc.logger.Warn("Search cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func buildSearchCacheKey(q domain.SearchQuery) string {
	return fmt.Sprintf("%s%s|%s|%s|%d|%d",
		searchCacheKeyPrefix,
		url.QueryEscape(q.Service),
		url.QueryEscape(q.Location),
		url.QueryEscape(q.Category),
		q.Page,
		q.Limit,
	)
}
