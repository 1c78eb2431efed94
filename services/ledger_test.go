package services

import (
	"testing"

	"bookie/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCreateManualTransaction(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "mallory")

	trx, err := CreateManualTransaction(db, user.ID, models.TrxDeposit,
		decimal.RequireFromString("250"), "goodwill credit", "admin-1")
	require.NoError(t, err)
	require.Equal(t, models.TrxSuccess, trx.Status)
	require.Equal(t, models.KindManual, trx.Kind)
	require.NotEmpty(t, trx.RefID)

	_, err = CreateManualTransaction(db, user.ID, models.TrxDeposit,
		decimal.RequireFromString("-5"), "", "admin-1")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = CreateManualTransaction(db, user.ID, "bonus",
		decimal.RequireFromString("5"), "", "admin-1")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = CreateManualTransaction(db, 9999, models.TrxDeposit,
		decimal.RequireFromString("5"), "", "admin-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPatchTransactionStatusWritesHistory(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "nina")

	trx := models.Transaction{
		UserID: user.ID,
		Amount: decimal.RequireFromString("40"),
		Type:   models.TrxWithdrawal,
		Status: models.TrxPending,
		Kind:   models.KindManual,
	}
	require.NoError(t, db.Create(&trx).Error)

	patched, err := PatchTransactionStatus(db, trx.ID, models.TrxSuccess, "verified by support", "admin-2")
	require.NoError(t, err)
	require.Equal(t, models.TrxSuccess, patched.Status)

	var history []models.TransactionHistory
	require.NoError(t, db.Where("transaction_id = ?", trx.ID).Find(&history).Error)
	require.Len(t, history, 1)
	require.Equal(t, models.TrxPending, history[0].FromStatus)
	require.Equal(t, models.TrxSuccess, history[0].ToStatus)
	require.Equal(t, "admin-2", history[0].Actor)
	require.Equal(t, "verified by support", history[0].Note)

	// Same-status patch is a no-op, no extra history row.
	_, err = PatchTransactionStatus(db, trx.ID, models.TrxSuccess, "", "admin-2")
	require.NoError(t, err)
	var count int64
	require.NoError(t, db.Model(&models.TransactionHistory{}).
		Where("transaction_id = ?", trx.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)

	_, err = PatchTransactionStatus(db, 9999, models.TrxSuccess, "", "admin-2")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = PatchTransactionStatus(db, trx.ID, "unknown", "", "admin-2")
	require.ErrorIs(t, err, ErrInvalidArgument)
}
