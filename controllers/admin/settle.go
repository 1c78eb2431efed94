package admin

import (
	"bookie/helpers"
	"bookie/services"

	"github.com/gofiber/fiber/v2"
)

type SettleEventRequest struct {
	WinningOutcomeID uint `json:"winning_outcome_id"`
}

func SettleEvent(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		eventID, err := c.ParamsInt("id")
		if err != nil || eventID <= 0 {
			return helpers.JSONError(c, "INVALID_EVENT_ID")
		}

		var req SettleEventRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}
		if req.WinningOutcomeID == 0 {
			return helpers.JSONError(c, "WINNING_OUTCOME_ID_REQUIRED")
		}

		result, err := engine.SettleEvent(c.Context(), uint(eventID), req.WinningOutcomeID)
		if err != nil {
			return helpers.ErrorJSON(c, err)
		}
		return helpers.JSONSuccess(c, "Event settled", result)
	}
}

type SettleBookRequest struct {
	Winners []services.EventWinner `json:"winners"`
}

func SettleBook(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bookID, err := c.ParamsInt("id")
		if err != nil || bookID <= 0 {
			return helpers.JSONError(c, "INVALID_BOOK_ID")
		}

		var req SettleBookRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}

		result, err := engine.SettleBook(c.Context(), uint(bookID), req.Winners)
		if err != nil {
			return helpers.ErrorJSON(c, err)
		}
		return helpers.JSONSuccess(c, "Book settled", result)
	}
}

func CancelEvent(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		eventID, err := c.ParamsInt("id")
		if err != nil || eventID <= 0 {
			return helpers.JSONError(c, "INVALID_EVENT_ID")
		}

		cancelled, err := engine.CancelEvent(c.Context(), uint(eventID))
		if err != nil {
			return helpers.ErrorJSON(c, err)
		}
		return helpers.JSONSuccess(c, "Event cancelled", fiber.Map{
			"cancelled_bets": cancelled,
		})
	}
}
