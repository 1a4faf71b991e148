package main

// @title Elastiquality Search API
// @version 1.0.0
// @description Поиск профессионалов Elastiquality: фильтрация по услуге, локализации и категории,
// @description сортировка по административной близости (freguesia > concelho > distrito) и пагинация.

// @contact.name API Support

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	_ "github.com/elastiquality-search/docs/swagger"
	"github.com/elastiquality-search/internal/config"
	httpDelivery "github.com/elastiquality-search/internal/delivery/http"
	"github.com/elastiquality-search/internal/delivery/http/handler"
	"github.com/elastiquality-search/internal/delivery/http/middleware"
	"github.com/elastiquality-search/internal/domain/repository"
	"github.com/elastiquality-search/internal/pkg/logger"
	"github.com/elastiquality-search/internal/repository/cache"
	"github.com/elastiquality-search/internal/repository/postgres"
	redisRepo "github.com/elastiquality-search/internal/repository/redis"
	"github.com/elastiquality-search/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Elastiquality Search")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.String("rate_limit_backend", cfg.RateLimit.Backend),
		zap.Bool("pushdown_filters", cfg.Search.PushdownFilter),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Repositories
	professionalRepo := postgres.NewProfessionalRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log, 0)

	// 6. Use cases
	searchUC := usecase.NewSearchUseCase(professionalRepo, cacheRepo, log, usecase.SearchOptions{
		CandidateLimit: cfg.Search.CandidateLimit,
		QueryTimeout:   cfg.Search.QueryTimeout,
		CacheTTL:       cfg.Search.CacheTTL,
		PushdownFilter: cfg.Search.PushdownFilter,
	})
	auditUC := usecase.NewAuditUseCase(streamRepo, log, cfg.Audit.PublishTimeout, cfg.Audit.Enabled)

	// 7. HTTP
	var rateLimit fiber.Handler
	if cfg.RateLimit.Enabled {
		rateLimit = middleware.RateLimit(newRateLimiter(cfg, redisClient), auditUC, log)
	}

	searchHandler := handler.NewSearchHandler(searchUC, auditUC, log, cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
	healthHandler := handler.NewHealthHandler(map[string]handler.HealthChecker{
		"postgres": db,
		"redis":    redisClient,
	})

	server := httpDelivery.NewServer(cfg, log, searchHandler, healthHandler, rateLimit)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := auditUC.Flush(ctx); err != nil {
		log.Warn("Some security events were not published", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}

func newRateLimiter(cfg *config.Config, redisClient *cache.Redis) repository.RateLimiter {
	if cfg.RateLimit.Backend == config.RateLimitBackendMemory {
		return cache.NewMemoryRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	}
	return cache.NewRedisRateLimiter(redisClient, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
}
