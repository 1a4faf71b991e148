package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/elastiquality-search/internal/config"
	deliveryhttp "github.com/elastiquality-search/internal/delivery/http"
	"github.com/elastiquality-search/internal/delivery/http/handler"
	"github.com/elastiquality-search/internal/delivery/http/middleware"
	"github.com/elastiquality-search/internal/domain"
	"github.com/elastiquality-search/internal/repository/cache"
	"github.com/elastiquality-search/internal/usecase"
)

type staticRepository []*domain.ProfessionalRecord

func (r staticRepository) ListEligible(context.Context, domain.CandidateFilter, int) ([]*domain.ProfessionalRecord, error) {
	return r, nil
}

type healthy struct{}

func (healthy) Health(context.Context) error { return nil }

func newServer(t *testing.T, maxRequests int) *deliveryhttp.Server {
	t.Helper()
	logger := zap.NewNop()

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, AllowOrigins: "*"},
	}

	repo := staticRepository{
		{ID: "p1", Name: "Ana", Email: "ana@example.pt", Specialties: "Pintor", Category: "pintura", District: "Lisboa"},
	}
	searchUC := usecase.NewSearchUseCase(repo, nil, logger, usecase.SearchOptions{})
	auditUC := usecase.NewAuditUseCase(nil, logger, time.Second, false)

	rateLimit := middleware.RateLimit(cache.NewMemoryRateLimiter(maxRequests, time.Minute), auditUC, logger)

	return deliveryhttp.NewServer(cfg, logger,
		handler.NewSearchHandler(searchUC, auditUC, logger, 12, 100),
		handler.NewHealthHandler(map[string]handler.HealthChecker{"postgres": healthy{}}),
		rateLimit,
	)
}

func get(t *testing.T, s *deliveryhttp.Server, target string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := s.App().Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp.StatusCode, body
}

func TestServer_SearchRoutes(t *testing.T) {
	s := newServer(t, 100)

	for _, path := range []string{"/search/professionals", "/api/v1/search/professionals"} {
		status, body := get(t, s, path+"?category=pintura")
		assert.Equal(t, 200, status, path)
		assert.Len(t, body["professionals"], 1, path)
	}
}

func TestServer_RateLimitSharedAcrossRoutes(t *testing.T) {
	s := newServer(t, 2)

	status, _ := get(t, s, "/search/professionals?category=pintura")
	assert.Equal(t, 200, status)
	status, _ = get(t, s, "/api/v1/search/professionals?category=pintura")
	assert.Equal(t, 200, status)

	status, body := get(t, s, "/search/professionals?category=pintura")
	assert.Equal(t, 429, status)
	assert.Equal(t, "RATE_LIMITED", body["code"])
}

func TestServer_Health(t *testing.T) {
	status, body := get(t, newServer(t, 10), "/api/v1/health")
	assert.Equal(t, 200, status)
	assert.Equal(t, "healthy", body["status"])
}

func TestServer_NotFound(t *testing.T) {
	status, body := get(t, newServer(t, 10), "/nope")
	assert.Equal(t, 404, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestServer_Metrics(t *testing.T) {
	s := newServer(t, 10)
	get(t, s, "/search/professionals?category=pintura")

	resp, err := s.App().Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(raw), "elastiquality_http_requests_total")
}
