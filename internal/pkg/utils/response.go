package utils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/elastiquality-search/internal/pkg/errors"
)

// ErrorResponse - тело ответа с ошибкой; поле error совместимо с прежним фронтендом
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// SendError отдаёт AppError с его статусом, остальные ошибки превращаются в 500
func SendError(c *fiber.Ctx, err error) error {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.ErrInternalServer
	}

	body := fiber.Map{
		"error": appErr.Message,
		"code":  appErr.Code,
	}
	for k, v := range appErr.Details {
		if k == "error" || k == "code" {
			continue
		}
		body[k] = v
	}

	return c.Status(appErr.StatusCode).JSON(body)
}
