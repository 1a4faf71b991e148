package domain

import (
	"strings"
	"time"
)

const (
	// AccountTypeProfessional - тип аккаунта, попадающий в каталог
	AccountTypeProfessional = "PROFESSIONAL"

	// DefaultCandidateLimit - сколько записей читаем из каталога до текстовой фильтрации
	DefaultCandidateLimit = 100
)

// ProfessionalRecord - профессионал с денормализованным профилем.
// District/Council/Parish - свободный текст, иерархия не гарантируется.
type ProfessionalRecord struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Email         string    `db:"email"`
	Avatar        string    `db:"avatar"`
	Specialties   string    `db:"specialties"`
	Experience    string    `db:"experience"`
	Category      string    `db:"category"`
	District      string    `db:"district"`
	Council       string    `db:"council"`
	Parish        string    `db:"parish"`
	Rating        float64   `db:"rating"`
	CompletedJobs int       `db:"completed_jobs"`
	IsVerified    bool      `db:"is_verified"`
	IsPremium     bool      `db:"is_premium"`
	IsActive      bool      `db:"is_active"`
	CreatedAt     time.Time `db:"created_at"`
}

// SearchQuery - параметры поиска профессионалов
type SearchQuery struct {
	Service  string
	Location string
	Category string
	Page     int
	Limit    int
}

// Normalize обрезает пробелы у текстовых параметров
func (q SearchQuery) Normalize() SearchQuery {
	q.Service = strings.TrimSpace(q.Service)
	q.Location = strings.TrimSpace(q.Location)
	q.Category = strings.TrimSpace(q.Category)
	return q
}

// HasTerms - задан ли хотя бы один текстовый параметр
func (q SearchQuery) HasTerms() bool {
	return strings.TrimSpace(q.Service) != "" ||
		strings.TrimSpace(q.Location) != "" ||
		strings.TrimSpace(q.Category) != ""
}

// CandidateFilter - фильтры, которые репозиторий может применить в SQL до лимита
type CandidateFilter struct {
	Service  string
	Location string
	Category string
}
