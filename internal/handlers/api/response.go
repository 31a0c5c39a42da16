package api

import (
	"github.com/gofiber/fiber/v3"

	"companyfinder/internal/logger"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
// Server-side failures are also logged with the request path.
func jsonError(c fiber.Ctx, status int, message string) error {
	if status >= fiber.StatusInternalServerError {
		logger.Log.Warn().Int("status", status).Str("path", c.Path()).Msg(message)
	}
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}
