package admin

import (
	"bookie/database"
	"bookie/helpers"
	"bookie/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func CreateBook(c *fiber.Ctx) error {
	var in services.BookInput
	if err := c.BodyParser(&in); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	book, err := services.CreateBook(database.DB, in)
	if err != nil {
		return helpers.ErrorJSON(c, err)
	}
	return helpers.JSONSuccess(c, "Book created", book)
}

func ReplaceBook(c *fiber.Ctx) error {
	bookID, err := c.ParamsInt("id")
	if err != nil || bookID <= 0 {
		return helpers.JSONError(c, "INVALID_BOOK_ID")
	}

	var in services.BookInput
	if err := c.BodyParser(&in); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	book, err := services.ReplaceBook(database.DB, uint(bookID), in)
	if err != nil {
		return helpers.ErrorJSON(c, err)
	}
	return helpers.JSONSuccess(c, "Book replaced", book)
}

func GetBook(c *fiber.Ctx) error {
	bookID, err := c.ParamsInt("id")
	if err != nil || bookID <= 0 {
		return helpers.JSONError(c, "INVALID_BOOK_ID")
	}

	book, err := services.GetBook(database.DB, uint(bookID))
	if err != nil {
		return helpers.ErrorJSON(c, err)
	}
	return helpers.JSONSuccess(c, "Book retrieved", book)
}

type UpdateOddsRequest struct {
	Odds decimal.Decimal `json:"odds"`
}

func UpdateOutcomeOdds(c *fiber.Ctx) error {
	outcomeID, err := c.ParamsInt("id")
	if err != nil || outcomeID <= 0 {
		return helpers.JSONError(c, "INVALID_OUTCOME_ID")
	}

	var req UpdateOddsRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	outcome, err := services.UpdateOutcomeOdds(database.DB, uint(outcomeID), req.Odds)
	if err != nil {
		return helpers.ErrorJSON(c, err)
	}
	return helpers.JSONSuccess(c, "Odds updated", outcome)
}
