package services

import (
	"errors"
	"fmt"

	"bookie/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// transitionTransaction moves a ledger entry from one status to another with a
// guarded update, appending the audit history row in the same unit. Returns
// false when the row was no longer in the expected status (someone else got
// there first); that is not an error.
func transitionTransaction(tx *gorm.DB, trxID uint, from, to models.TransactionStatus, note, actor, description string) (bool, error) {
	updates := map[string]any{"status": to}
	if description != "" {
		updates["description"] = description
	}

	res := tx.Model(&models.Transaction{}).
		Where("id = ? AND status = ?", trxID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	history := models.TransactionHistory{
		TransactionID: trxID,
		FromStatus:    from,
		ToStatus:      to,
		Note:          note,
		Actor:         actor,
	}
	return true, tx.Create(&history).Error
}

// PatchTransactionStatus is the manual admin edit path. Unlike the settlement
// path it allows any transition, but every change still lands in the history
// table with the acting admin recorded.
func PatchTransactionStatus(db *gorm.DB, trxID uint, status models.TransactionStatus, note, actor string) (*models.Transaction, error) {
	switch status {
	case models.TrxPending, models.TrxSuccess, models.TrxFail:
	default:
		return nil, fmt.Errorf("%w: unknown transaction status %q", ErrInvalidArgument, status)
	}

	var trx models.Transaction
	if err := db.First(&trx, trxID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wrapNotFound("transaction", trxID)
		}
		return nil, err
	}

	if trx.Status == status {
		return &trx, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&trx).Update("status", status).Error; err != nil {
			return err
		}
		return tx.Create(&models.TransactionHistory{
			TransactionID: trx.ID,
			FromStatus:    trx.Status,
			ToStatus:      status,
			Note:          note,
			Actor:         actor,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	trx.Status = status
	return &trx, nil
}

// CreateManualTransaction records an admin-originated adjustment. It is
// created as an immediate success, outside the wager flow, with kind=manual.
func CreateManualTransaction(db *gorm.DB, userID uint, trxType models.TransactionType, amount decimal.Decimal, description, actor string) (*models.Transaction, error) {
	if trxType != models.TrxDeposit && trxType != models.TrxWithdrawal {
		return nil, fmt.Errorf("%w: unknown transaction type %q", ErrInvalidArgument, trxType)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}
	if err := requireUser(db, userID); err != nil {
		return nil, err
	}

	trx := models.Transaction{
		UserID:      userID,
		Amount:      amount,
		Type:        trxType,
		Status:      models.TrxSuccess,
		Kind:        models.KindManual,
		Description: description,
		RefID:       uuid.New().String(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&trx).Error; err != nil {
			return err
		}
		return tx.Create(&models.TransactionHistory{
			TransactionID: trx.ID,
			FromStatus:    models.TrxPending,
			ToStatus:      models.TrxSuccess,
			Note:          "manual adjustment",
			Actor:         actor,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &trx, nil
}
