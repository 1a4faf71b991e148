package dto

import (
	"strings"

	"github.com/elastiquality-search/internal/domain"
	"github.com/elastiquality-search/internal/pkg/utils"
)

// SearchProfessionalsRequest - параметры GET /search/professionals
type SearchProfessionalsRequest struct {
	Service  string `json:"service" validate:"max=200"`
	Location string `json:"location" validate:"max=200"`
	Category string `json:"category" validate:"max=100"`
	Page     int    `json:"page" validate:"min=1"`
	Limit    int    `json:"limit" validate:"min=1"`
}

// ToQuery переводит запрос в доменную модель
func (r SearchProfessionalsRequest) ToQuery() domain.SearchQuery {
	return domain.SearchQuery{
		Service:  r.Service,
		Location: r.Location,
		Category: r.Category,
		Page:     r.Page,
		Limit:    r.Limit,
	}.Normalize()
}

// ProfessionalDTO - публичное представление профессионала
type ProfessionalDTO struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Avatar        string   `json:"avatar,omitempty"`
	Specialties   []string `json:"specialties"`
	Experience    string   `json:"experience"`
	Category      string   `json:"category"`
	District      string   `json:"district"`
	Council       string   `json:"council"`
	Parish        string   `json:"parish"`
	Rating        float64  `json:"rating"`
	CompletedJobs int      `json:"completedJobs"`
	IsVerified    bool     `json:"isVerified"`
	IsPremium     bool     `json:"isPremium"`
}

type SearchParams struct {
	Service  string `json:"service"`
	Location string `json:"location"`
	Category string `json:"category"`
}

type SearchFilters struct {
	HasAdministrativeSorting bool              `json:"hasAdministrativeSorting"`
	Categories               []domain.Category `json:"categories"`
}

// SearchProfessionalsResponse - ответ поиска профессионалов
type SearchProfessionalsResponse struct {
	Professionals []ProfessionalDTO `json:"professionals"`
	Pagination    utils.Pagination  `json:"pagination"`
	SearchParams  SearchParams      `json:"searchParams"`
	Filters       SearchFilters     `json:"filters"`
}

// ConvertProfessional - проекция записи без приватных полей
func ConvertProfessional(p *domain.ProfessionalRecord) ProfessionalDTO {
	return ProfessionalDTO{
		ID:            p.ID,
		Name:          p.Name,
		Email:         MaskEmail(p.Email),
		Avatar:        p.Avatar,
		Specialties:   SplitSpecialties(p.Specialties),
		Experience:    p.Experience,
		Category:      p.Category,
		District:      p.District,
		Council:       p.Council,
		Parish:        p.Parish,
		Rating:        p.Rating,
		CompletedJobs: p.CompletedJobs,
		IsVerified:    p.IsVerified,
		IsPremium:     p.IsPremium,
	}
}

// MaskEmail оставляет два первых символа локальной части: "ab***@domain"
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	local := []rune(email[:at])
	if len(local) > 2 {
		local = local[:2]
	}
	return string(local) + "***" + email[at:]
}

// SplitSpecialties разбивает строку "a, b, c" на токены, пустые отбрасываются
func SplitSpecialties(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
