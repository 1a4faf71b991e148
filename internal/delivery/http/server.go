package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/elastiquality-search/internal/config"
	"github.com/elastiquality-search/internal/delivery/http/handler"
	"github.com/elastiquality-search/internal/delivery/http/middleware"
	"github.com/elastiquality-search/internal/pkg/errors"
	"github.com/elastiquality-search/internal/pkg/utils"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	searchHandler *handler.SearchHandler
	healthHandler *handler.HealthHandler
	rateLimit     fiber.Handler
}

// NewServer - создание нового HTTP сервера. rateLimit может быть nil.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	searchHandler *handler.SearchHandler,
	healthHandler *handler.HealthHandler,
	rateLimit fiber.Handler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Elastiquality Search",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ProxyHeader:  cfg.Server.ProxyHeader,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:           app,
		config:        cfg,
		logger:        logger,
		searchHandler: searchHandler,
		healthHandler: healthHandler,
		rateLimit:     rateLimit,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.AllowOrigins))
	s.app.Use(middleware.Prometheus())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)
	s.app.Get("/metrics", middleware.PrometheusHandler())

	search := []fiber.Handler{s.searchHandler.SearchProfessionals}
	if s.rateLimit != nil {
		search = append([]fiber.Handler{s.rateLimit}, search...)
	}

	// старый путь, на него ходит фронтенд
	s.app.Get("/search/professionals", search...)

	api := s.app.Group("/api/v1")
	api.Get("/health", s.healthHandler.Health)
	api.Get("/search/professionals", search...)
}

// App - доступ к fiber.App для тестов
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки, не обработанные в хендлерах, в том же формате, что и SendError
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e, ok := err.(*fiber.Error); ok {
			return utils.SendError(c, errors.New(httpErrorCode(e.Code), e.Message, e.Code))
		}

		logger.Error("Unhandled HTTP error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return utils.SendError(c, err)
	}
}

func httpErrorCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusTooManyRequests:
		return errors.CodeRateLimited
	default:
		if status >= fiber.StatusInternalServerError {
			return errors.CodeInternalServer
		}
		return "BAD_REQUEST"
	}
}
