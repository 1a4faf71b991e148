package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elastiquality-search/internal/domain"
	"github.com/elastiquality-search/internal/usecase"
)

func pro(id, parish, council, district string) *domain.ProfessionalRecord {
	return &domain.ProfessionalRecord{
		ID:       id,
		Parish:   parish,
		Council:  council,
		District: district,
	}
}

func ids(records []*domain.ProfessionalRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterProfessionals_Service(t *testing.T) {
	candidates := []*domain.ProfessionalRecord{
		{ID: "both", Specialties: "Eletricista, Canalizador"},
		{ID: "upper", Specialties: "ELETRICIDADE"},
		{ID: "lower", Specialties: "eletricista"},
		{ID: "empty", Specialties: ""},
	}

	got := usecase.FilterProfessionals(candidates, domain.SearchQuery{Service: "Eletricista"})

	assert.Equal(t, []string{"both", "lower"}, ids(got))
}

func TestFilterProfessionals_Category(t *testing.T) {
	candidates := []*domain.ProfessionalRecord{
		{ID: "a", Category: "construcao-remodelacao"},
		{ID: "b", Category: "Limpeza"},
		{ID: "c", Category: ""},
	}

	assert.Equal(t, []string{"a"}, ids(usecase.FilterProfessionals(candidates, domain.SearchQuery{Category: "CONSTRUCAO"})))
	assert.Equal(t, []string{"b"}, ids(usecase.FilterProfessionals(candidates, domain.SearchQuery{Category: "limpeza"})))
}

func TestFilterProfessionals_LocationBothDirections(t *testing.T) {
	candidates := []*domain.ProfessionalRecord{
		pro("exact", "", "", "Lisboa"),
		pro("field-contains-query", "", "", "Grande Lisboa"),
		pro("query-contains-field", "", "", "Li"),
		pro("other", "Corroios", "Seixal", "Setúbal"),
		pro("blank", "", "", ""),
	}

	got := usecase.FilterProfessionals(candidates, domain.SearchQuery{Location: "Lisboa"})

	assert.Equal(t, []string{"exact", "field-contains-query", "query-contains-field"}, ids(got))
}

func TestFilterProfessionals_LocationMatchesAnyLevel(t *testing.T) {
	candidates := []*domain.ProfessionalRecord{
		pro("parish", "Corroios", "", ""),
		pro("council", "", "Seixal", ""),
		pro("district", "", "", "Setúbal"),
	}

	assert.Equal(t, []string{"parish"}, ids(usecase.FilterProfessionals(candidates, domain.SearchQuery{Location: "corroios"})))
	assert.Equal(t, []string{"council"}, ids(usecase.FilterProfessionals(candidates, domain.SearchQuery{Location: "SEIXAL"})))
	assert.Equal(t, []string{"district"}, ids(usecase.FilterProfessionals(candidates, domain.SearchQuery{Location: "setúbal"})))
}

func TestFilterProfessionals_AllFiltersCombine(t *testing.T) {
	candidates := []*domain.ProfessionalRecord{
		{ID: "match", Specialties: "Pintor", Category: "pintura", Council: "Sintra"},
		{ID: "wrong-service", Specialties: "Jardineiro", Category: "pintura", Council: "Sintra"},
		{ID: "wrong-place", Specialties: "Pintor", Category: "pintura", Council: "Porto"},
		nil,
	}

	got := usecase.FilterProfessionals(candidates, domain.SearchQuery{
		Service:  "pintor",
		Category: "pintura",
		Location: "Sintra",
	})

	assert.Equal(t, []string{"match"}, ids(got))
}

func TestRankByProximity_TierOrdering(t *testing.T) {
	a := pro("A", "Corroios", "", "")
	b := pro("B", "", "Corroios", "")
	c := pro("C", "", "", "Corroios")

	inputs := [][]*domain.ProfessionalRecord{
		{a, b, c},
		{c, b, a},
		{b, c, a},
		{c, a, b},
	}

	for _, in := range inputs {
		got := usecase.RankByProximity(in, "Corroios")
		assert.Equal(t, []string{"A", "B", "C"}, ids(got), "input %v", ids(in))
	}
}

func TestRankByProximity_LowerTiersBreakTies(t *testing.T) {
	parishOnly := pro("parish-only", "Sintra", "", "")
	parishAndCouncil := pro("parish-council", "Sintra", "Sintra", "")

	got := usecase.RankByProximity([]*domain.ProfessionalRecord{parishOnly, parishAndCouncil}, "Sintra")

	assert.Equal(t, []string{"parish-council", "parish-only"}, ids(got))
}

func TestRankByProximity_StableForTies(t *testing.T) {
	in := []*domain.ProfessionalRecord{
		pro("1", "", "Seixal", ""),
		pro("2", "", "", ""),
		pro("3", "", "Seixal", ""),
		pro("4", "", "", ""),
	}

	got := usecase.RankByProximity(in, "Seixal")

	assert.Equal(t, []string{"1", "3", "2", "4"}, ids(got))
}

func TestRankByProximity_SeixalScenario(t *testing.T) {
	first := pro("first", "Corroios", "Seixal", "Setúbal")
	second := pro("second", "Sintra", "Sintra", "Lisboa")

	got := usecase.RankByProximity([]*domain.ProfessionalRecord{first, second}, "Seixal")

	assert.Equal(t, []string{"first", "second"}, ids(got))
}

func TestRankByProximity_NoLocationKeepsOrder(t *testing.T) {
	in := []*domain.ProfessionalRecord{
		pro("x", "", "", "Porto"),
		pro("y", "Corroios", "", ""),
	}

	got := usecase.RankByProximity(in, "   ")

	assert.Equal(t, []string{"x", "y"}, ids(got))
}

func TestRankByProximity_BlankFieldsNeverScore(t *testing.T) {
	blank := pro("blank", "", "", "")
	blankParish := pro("blank-parish", "  ", "", "Lisboa")
	council := pro("council", "", "Lisboa", "")

	got := usecase.RankByProximity([]*domain.ProfessionalRecord{blank, blankParish, council}, "Lisboa")

	// an empty parish does not count as a parish match, so the council match ranks first
	assert.Equal(t, []string{"council", "blank-parish", "blank"}, ids(got))
	assert.Empty(t, usecase.FilterProfessionals([]*domain.ProfessionalRecord{blank}, domain.SearchQuery{Location: "Lisboa"}))
}
