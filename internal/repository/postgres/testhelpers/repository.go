package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/elastiquality-search/internal/domain/repository"
	"github.com/elastiquality-search/internal/repository/postgres"
)

// NewProfessionalRepositoryForTest creates a professional repository over the test database
func NewProfessionalRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ProfessionalRepository {
	return postgres.NewProfessionalRepository(postgres.NewDBForTest(db, logger))
}

// NewSecurityEventRepositoryForTest creates a security event repository over the test database
func NewSecurityEventRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.SecurityEventRepository {
	return postgres.NewSecurityEventRepository(postgres.NewDBForTest(db, logger))
}
