package user

import (
	"bookie/database"
	"bookie/helpers"
	"bookie/models"
	"bookie/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type PlaceBetRequest struct {
	OutcomeID uint            `json:"outcome_id"`
	Amount    decimal.Decimal `json:"amount"`
}

func PlaceBet(c *fiber.Ctx) error {
	caller, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONStatus(c, fiber.StatusUnauthorized, "MISSING_IDENTITY")
	}

	var req PlaceBetRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.OutcomeID == 0 {
		return helpers.JSONError(c, "OUTCOME_ID_REQUIRED")
	}

	bet, err := services.PlaceBet(database.DB, caller.ID, req.OutcomeID, req.Amount)
	if err != nil {
		return helpers.ErrorJSON(c, err)
	}
	return helpers.JSONSuccess(c, "Bet placed", bet)
}
