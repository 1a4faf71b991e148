package usecase

import (
	"sort"
	"strings"

	"github.com/elastiquality-search/internal/domain"
)

// Веса уровней близости: совпадение по freguesia важнее concelho, concelho важнее distrito.
// Сравнение весов даёт тот же порядок, что и покомпонентное сравнение (parish, council, district).
const (
	tierDistrict = 1 << iota
	tierCouncil
	tierParish
)

// professionalMatcher хранит запрос в нижнем регистре, чтобы не пересчитывать его на каждую запись
type professionalMatcher struct {
	service  string
	location string
	category string
}

func newProfessionalMatcher(q domain.SearchQuery) professionalMatcher {
	return professionalMatcher{
		service:  strings.ToLower(strings.TrimSpace(q.Service)),
		location: strings.ToLower(strings.TrimSpace(q.Location)),
		category: strings.ToLower(strings.TrimSpace(q.Category)),
	}
}

// containsFold - поле содержит запрос без учёта регистра
func containsFold(field, loweredQuery string) bool {
	return strings.Contains(strings.ToLower(field), loweredQuery)
}

// matchesEitherWay - поле содержит запрос или запрос содержит поле.
// Пустое поле не совпадает ни с чем.
func matchesEitherWay(field, loweredQuery string) bool {
	f := strings.ToLower(strings.TrimSpace(field))
	if f == "" || loweredQuery == "" {
		return false
	}
	return strings.Contains(f, loweredQuery) || strings.Contains(loweredQuery, f)
}

func (m professionalMatcher) matchesCategory(p *domain.ProfessionalRecord) bool {
	return m.category == "" || containsFold(p.Category, m.category)
}

func (m professionalMatcher) matchesService(p *domain.ProfessionalRecord) bool {
	return m.service == "" || containsFold(p.Specialties, m.service)
}

func (m professionalMatcher) matchesLocation(p *domain.ProfessionalRecord) bool {
	if m.location == "" {
		return true
	}
	return matchesEitherWay(p.District, m.location) ||
		matchesEitherWay(p.Council, m.location) ||
		matchesEitherWay(p.Parish, m.location)
}

func (m professionalMatcher) matches(p *domain.ProfessionalRecord) bool {
	return m.matchesCategory(p) && m.matchesService(p) && m.matchesLocation(p)
}

// proximityScore - битовая маска совпавших уровней
func (m professionalMatcher) proximityScore(p *domain.ProfessionalRecord) int {
	score := 0
	if matchesEitherWay(p.Parish, m.location) {
		score |= tierParish
	}
	if matchesEitherWay(p.Council, m.location) {
		score |= tierCouncil
	}
	if matchesEitherWay(p.District, m.location) {
		score |= tierDistrict
	}
	return score
}

// FilterProfessionals оставляет записи, прошедшие все заданные фильтры, в исходном порядке
func FilterProfessionals(candidates []*domain.ProfessionalRecord, q domain.SearchQuery) []*domain.ProfessionalRecord {
	m := newProfessionalMatcher(q)
	out := make([]*domain.ProfessionalRecord, 0, len(candidates))
	for _, p := range candidates {
		if p != nil && m.matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// RankByProximity упорядочивает записи по административной близости к location.
// Сортировка стабильная: при равных уровнях сохраняется порядок выборки.
// Без location порядок не меняется.
func RankByProximity(records []*domain.ProfessionalRecord, location string) []*domain.ProfessionalRecord {
	m := newProfessionalMatcher(domain.SearchQuery{Location: location})
	if m.location == "" || len(records) < 2 {
		return records
	}

	type scored struct {
		record *domain.ProfessionalRecord
		score  int
	}
	ranked := make([]scored, len(records))
	for i, p := range records {
		ranked[i] = scored{record: p, score: m.proximityScore(p)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]*domain.ProfessionalRecord, len(ranked))
	for i, r := range ranked {
		out[i] = r.record
	}
	return out
}
