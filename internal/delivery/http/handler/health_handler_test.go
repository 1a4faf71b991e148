package handler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/elastiquality-search/internal/delivery/http/handler"
)

type checkFunc func(ctx context.Context) error

func (f checkFunc) Health(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	ok := checkFunc(func(context.Context) error { return nil })
	down := checkFunc(func(context.Context) error { return errors.New("dial tcp: refused") })

	t.Run("healthy", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", handler.NewHealthHandler(map[string]handler.HealthChecker{
			"postgres": ok,
			"redis":    ok,
		}).Health)

		status, body := doGet(t, app, "/health")
		assert.Equal(t, 200, status)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, map[string]interface{}{"postgres": "ok", "redis": "ok"}, body["dependencies"])
	})

	t.Run("dependency down", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", handler.NewHealthHandler(map[string]handler.HealthChecker{
			"postgres": ok,
			"redis":    down,
		}).Health)

		status, body := doGet(t, app, "/health")
		assert.Equal(t, 503, status)
		assert.Equal(t, "unhealthy", body["status"])
		deps := body["dependencies"].(map[string]interface{})
		assert.Equal(t, "dial tcp: refused", deps["redis"])
	})
}
