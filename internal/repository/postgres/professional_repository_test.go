package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/elastiquality-search/internal/domain"
	"github.com/elastiquality-search/internal/domain/repository"
	"github.com/elastiquality-search/internal/repository/postgres"
	"github.com/elastiquality-search/internal/repository/postgres/testhelpers"
)

// ProfessionalRepositorySuite tests the professional directory reads against a real database
type ProfessionalRepositorySuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.ProfessionalRepository
	events repository.SecurityEventRepository
	ctx    context.Context
}

func (s *ProfessionalRepositorySuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())
	s.ctx = context.Background()

	s.Require().NoError(testhelpers.ApplyMigrations(s.testDB.DB.DB, "../../../migrations"))
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
	s.Require().NoError(testhelpers.LoadFixtures(s.testDB.DB.DB, "testdata", []string{"professionals.sql"}))

	s.repo = testhelpers.NewProfessionalRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.events = testhelpers.NewSecurityEventRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *ProfessionalRepositorySuite) TearDownSuite() {
	if s.testDB != nil {
		_ = s.testDB.Cleanup(context.Background())
		s.testDB.Close()
	}
}

func recordIDs(records []*domain.ProfessionalRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func (s *ProfessionalRepositorySuite) TestListEligible_DefaultOrder() {
	records, err := s.repo.ListEligible(s.ctx, domain.CandidateFilter{}, 100)
	s.Require().NoError(err)

	s.Equal([]string{"u-premium", "u-verified", "u-top-rated", "u-newer", "u-older"}, recordIDs(records))
}

func (s *ProfessionalRepositorySuite) TestListEligible_CapAppliedBeforeTextFilter() {
	records, err := s.repo.ListEligible(s.ctx, domain.CandidateFilter{}, 2)
	s.Require().NoError(err)

	s.Equal([]string{"u-premium", "u-verified"}, recordIDs(records))
}

func (s *ProfessionalRepositorySuite) TestListEligible_NullColumnsBecomeEmpty() {
	records, err := s.repo.ListEligible(s.ctx, domain.CandidateFilter{}, 100)
	s.Require().NoError(err)

	older := records[len(records)-1]
	s.Equal("u-older", older.ID)
	s.Equal("", older.District)
	s.Equal("", older.Experience)
	s.True(older.IsActive)
}

func (s *ProfessionalRepositorySuite) TestListEligible_PushdownFilters() {
	records, err := s.repo.ListEligible(s.ctx, domain.CandidateFilter{Service: "eletricista"}, 100)
	s.Require().NoError(err)
	s.Equal([]string{"u-premium"}, recordIDs(records))

	records, err = s.repo.ListEligible(s.ctx, domain.CandidateFilter{Category: "ELETRICIDADE"}, 100)
	s.Require().NoError(err)
	s.Equal([]string{"u-premium", "u-top-rated"}, recordIDs(records))

	// "Grande Lisboa" contains the district "Lisboa"; rows without location never match
	records, err = s.repo.ListEligible(s.ctx, domain.CandidateFilter{Location: "Grande Lisboa"}, 100)
	s.Require().NoError(err)
	s.Equal([]string{"u-verified", "u-top-rated"}, recordIDs(records))

	records, err = s.repo.ListEligible(s.ctx, domain.CandidateFilter{Location: "corroios"}, 100)
	s.Require().NoError(err)
	s.Equal([]string{"u-premium"}, recordIDs(records))
}

func (s *ProfessionalRepositorySuite) TestSecurityEvents_SaveAndPurge() {
	old := domain.NewSecurityEvent(domain.EventSearchFailed, domain.SeverityHigh)
	old.OccurredAt = time.Now().UTC().AddDate(0, 0, -120)
	fresh := domain.NewSecurityEvent(domain.EventRateLimitExceeded, domain.SeverityMedium)
	fresh.Details = map[string]interface{}{"limit": 30}

	s.Require().NoError(s.events.SaveBatch(s.ctx, []domain.SecurityEvent{old, fresh}))
	// same IDs again are ignored
	s.Require().NoError(s.events.SaveBatch(s.ctx, []domain.SecurityEvent{old, fresh}))

	n, err := testhelpers.CountRows(s.testDB.DB.DB, "security_events")
	s.Require().NoError(err)
	s.Equal(2, n)

	deleted, err := s.events.DeleteOlderThan(s.ctx, time.Now().UTC().AddDate(0, 0, -90))
	s.Require().NoError(err)
	s.Equal(int64(1), deleted)
}

func (s *ProfessionalRepositorySuite) TestHealth_SchemaPresent() {
	db := postgres.NewDBForTest(s.testDB.DB, s.testDB.Logger)
	s.NoError(db.Health(s.ctx))
}

func TestProfessionalRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProfessionalRepositorySuite))
}
