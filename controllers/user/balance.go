package user

import (
	"bookie/database"
	"bookie/helpers"
	"bookie/models"
	"bookie/services"

	"github.com/gofiber/fiber/v2"
)

func GetBalance(c *fiber.Ctx) error {
	caller, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONStatus(c, fiber.StatusUnauthorized, "MISSING_IDENTITY")
	}

	bal, err := services.ComputeBalance(database.DB, caller.ID)
	if err != nil {
		return helpers.ErrorJSON(c, err)
	}
	return helpers.JSONSuccess(c, "Balance computed", bal)
}

func GetProfitReport(c *fiber.Ctx) error {
	caller, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONStatus(c, fiber.StatusUnauthorized, "MISSING_IDENTITY")
	}

	report, err := services.ComputeProfit(database.DB, caller.ID)
	if err != nil {
		return helpers.ErrorJSON(c, err)
	}
	return helpers.JSONSuccess(c, "Profit computed", report)
}
