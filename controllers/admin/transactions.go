package admin

import (
	"bookie/database"
	"bookie/helpers"
	"bookie/models"
	"bookie/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type PatchTransactionRequest struct {
	Status models.TransactionStatus `json:"status"`
	Note   string                   `json:"note"`
}

func PatchTransaction(c *fiber.Ctx) error {
	trxID, err := c.ParamsInt("id")
	if err != nil || trxID <= 0 {
		return helpers.JSONError(c, "INVALID_TRANSACTION_ID")
	}

	var req PatchTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	caller, _ := c.Locals("user").(models.User)
	trx, err := services.PatchTransactionStatus(database.DB, uint(trxID), req.Status, req.Note, caller.Username)
	if err != nil {
		return helpers.ErrorJSON(c, err)
	}
	return helpers.JSONSuccess(c, "Transaction updated", trx)
}

type ManualTransactionRequest struct {
	UserID      uint                   `json:"user_id"`
	Type        models.TransactionType `json:"type"`
	Amount      decimal.Decimal        `json:"amount"`
	Description string                 `json:"description"`
}

func CreateManualTransaction(c *fiber.Ctx) error {
	var req ManualTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.UserID == 0 {
		return helpers.JSONError(c, "USER_ID_REQUIRED")
	}

	caller, _ := c.Locals("user").(models.User)
	trx, err := services.CreateManualTransaction(database.DB, req.UserID, req.Type, req.Amount, req.Description, caller.Username)
	if err != nil {
		return helpers.ErrorJSON(c, err)
	}
	return helpers.JSONSuccess(c, "Transaction created", trx)
}
