package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/elastiquality-search/internal/domain"
	"github.com/elastiquality-search/internal/pkg/errors"
	"github.com/elastiquality-search/internal/pkg/utils"
	"github.com/elastiquality-search/internal/pkg/validator"
	"github.com/elastiquality-search/internal/usecase"
	"github.com/elastiquality-search/internal/usecase/dto"
)

// SearchHandler - обработчик поиска профессионалов
type SearchHandler struct {
	searchUC     *usecase.SearchUseCase
	auditUC      *usecase.AuditUseCase
	logger       *zap.Logger
	defaultLimit int
	maxLimit     int
}

// NewSearchHandler - создание нового SearchHandler
func NewSearchHandler(
	searchUC *usecase.SearchUseCase,
	auditUC *usecase.AuditUseCase,
	logger *zap.Logger,
	defaultLimit, maxLimit int,
) *SearchHandler {
	return &SearchHandler{
		searchUC:     searchUC,
		auditUC:      auditUC,
		logger:       logger,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// SearchProfessionals godoc
// @Summary Поиск профессионалов
// @Description Фильтрует профессионалов по услуге, локализации и категории и сортирует по административной близости (freguesia > concelho > distrito). Нужен хотя бы один из параметров service, location, category.
// @Tags Search
// @Produce json
// @Param service query string false "Услуга (подстрока specialties)"
// @Param location query string false "Distrito, concelho или freguesia"
// @Param category query string false "Категория"
// @Param page query int false "Номер страницы" default(1)
// @Param limit query int false "Размер страницы" default(12)
// @Success 200 {object} dto.SearchProfessionalsResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /search/professionals [get]
// @Router /api/v1/search/professionals [get]
func (h *SearchHandler) SearchProfessionals(c *fiber.Ctx) error {
	terms := domain.SearchQuery{
		Service:  c.Query("service"),
		Location: c.Query("location"),
		Category: c.Query("category"),
	}
	if !terms.HasTerms() {
		h.logEvent(c, domain.EventInvalidSearchInput, domain.SeverityLow, nil)
		return utils.SendError(c, errors.ErrInvalidQuery)
	}

	page, ok := parsePositiveInt(c.Query("page"), 1)
	if !ok {
		return utils.SendError(c, errors.ErrInvalidPagination)
	}
	limit, ok := parsePositiveInt(c.Query("limit"), h.defaultLimit)
	if !ok || limit > h.maxLimit {
		return utils.SendError(c, errors.ErrInvalidPagination)
	}

	req := dto.SearchProfessionalsRequest{
		Service:  terms.Service,
		Location: terms.Location,
		Category: terms.Category,
		Page:     page,
		Limit:    limit,
	}

	if err := validator.Validate(&req); err != nil {
		h.logEvent(c, domain.EventInvalidSearchInput, domain.SeverityLow, validator.FieldErrors(err))
		return utils.SendError(c, errors.ErrInvalidQuery.WithDetails(map[string]interface{}{
			"fields": validator.FieldErrors(err),
		}))
	}

	result, err := h.searchUC.Search(c.UserContext(), req.ToQuery())
	if err != nil {
		switch {
		case errors.Is(err, errors.ErrInvalidQuery), errors.Is(err, errors.ErrInvalidPagination):
			h.logEvent(c, domain.EventInvalidSearchInput, domain.SeverityLow, nil)
		default:
			h.logger.Error("Professional search failed", zap.Error(err))
			h.logEvent(c, domain.EventSearchFailed, domain.SeverityHigh, map[string]interface{}{
				"error": err.Error(),
			})
		}
		return utils.SendError(c, err)
	}

	return c.JSON(result)
}

// logEvent - событие безопасности с параметрами запроса
func (h *SearchHandler) logEvent(c *fiber.Ctx, eventType domain.SecurityEventType, severity domain.Severity, extra map[string]interface{}) {
	event := domain.NewSecurityEvent(eventType, severity)
	event.IP = c.IP()
	event.UserAgent = c.Get(fiber.HeaderUserAgent)
	event.Path = c.Path()
	event.Details = map[string]interface{}{
		"service":  c.Query("service"),
		"location": c.Query("location"),
		"category": c.Query("category"),
	}
	for k, v := range extra {
		event.Details[k] = v
	}
	h.auditUC.Log(event)
}

// parsePositiveInt: пустое значение - def, не число или < 1 - ошибка
func parsePositiveInt(raw string, def int) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
