package helpers

import (
	"errors"

	"bookie/providers/feed"
	"bookie/services"

	"github.com/gofiber/fiber/v2"
)

func JSONSuccess(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func JSONError(c *fiber.Ctx, message string) error {
	return JSONStatus(c, fiber.StatusBadRequest, message)
}

func JSONStatus(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
		"data":    nil,
	})
}

// ErrorJSON maps service errors onto the response envelope: NotFound -> 404,
// InvalidArgument -> 400, feed trouble -> 502, anything else -> 500.
func ErrorJSON(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return JSONStatus(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidArgument), errors.Is(err, services.ErrInsufficientFunds):
		return JSONStatus(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, feed.ErrUnavailable):
		return JSONStatus(c, fiber.StatusBadGateway, err.Error())
	default:
		return JSONStatus(c, fiber.StatusInternalServerError, err.Error())
	}
}
