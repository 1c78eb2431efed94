package services

import (
	"testing"

	"bookie/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestComputeBalance(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")

	seed := []models.Transaction{
		{UserID: user.ID, Amount: decimal.RequireFromString("100"), Type: models.TrxDeposit, Status: models.TrxSuccess, Kind: models.KindManual},
		{UserID: user.ID, Amount: decimal.RequireFromString("30"), Type: models.TrxWithdrawal, Status: models.TrxSuccess, Kind: models.KindManual},
		{UserID: user.ID, Amount: decimal.RequireFromString("20"), Type: models.TrxDeposit, Status: models.TrxPending, Kind: models.KindWager},
		// failed rows never count
		{UserID: user.ID, Amount: decimal.RequireFromString("999"), Type: models.TrxDeposit, Status: models.TrxFail, Kind: models.KindManual},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	bal, err := ComputeBalance(db, user.ID)
	require.NoError(t, err)
	requireDecimal(t, "70", bal.Available)
	requireDecimal(t, "20", bal.NetPending)
	requireDecimal(t, "90", bal.Effective)

	// No intervening writes: identical result on a second read.
	again, err := ComputeBalance(db, user.ID)
	require.NoError(t, err)
	require.True(t, bal.Available.Equal(again.Available))
	require.True(t, bal.NetPending.Equal(again.NetPending))
	require.True(t, bal.Effective.Equal(again.Effective))
}

func TestComputeBalanceUnknownUser(t *testing.T) {
	db := newTestDB(t)

	_, err := ComputeBalance(db, 12345)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestComputeProfitPartitions(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "bob")

	seed := []models.Transaction{
		{UserID: user.ID, Amount: decimal.RequireFromString("500"), Type: models.TrxDeposit, Status: models.TrxSuccess, Kind: models.KindManual},
		{UserID: user.ID, Amount: decimal.RequireFromString("200"), Type: models.TrxWithdrawal, Status: models.TrxSuccess, Kind: models.KindManual},
		{UserID: user.ID, Amount: decimal.RequireFromString("50"), Type: models.TrxWithdrawal, Status: models.TrxSuccess, Kind: models.KindWager},
		{UserID: user.ID, Amount: decimal.RequireFromString("120"), Type: models.TrxDeposit, Status: models.TrxSuccess, Kind: models.KindWager},
		{UserID: user.ID, Amount: decimal.RequireFromString("10"), Type: models.TrxDeposit, Status: models.TrxSuccess, Kind: models.KindPromo},
		// pending rows are excluded from profit
		{UserID: user.ID, Amount: decimal.RequireFromString("75"), Type: models.TrxDeposit, Status: models.TrxPending, Kind: models.KindWager},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	report, err := ComputeProfit(db, user.ID)
	require.NoError(t, err)

	requireDecimal(t, "500", report.Manual.TotalDeposits)
	requireDecimal(t, "200", report.Manual.TotalWithdrawals)
	requireDecimal(t, "300", report.Manual.NetProfit)
	require.Equal(t, 2, report.Manual.TransactionCount)

	requireDecimal(t, "130", report.Game.TotalDeposits)
	requireDecimal(t, "50", report.Game.TotalWithdrawals)
	requireDecimal(t, "80", report.Game.NetProfit)
	require.Equal(t, 3, report.Game.TransactionCount)

	requireDecimal(t, "630", report.Overall.TotalDeposits)
	requireDecimal(t, "250", report.Overall.TotalWithdrawals)
	requireDecimal(t, "380", report.Overall.NetProfit)
	require.Equal(t, 5, report.Overall.TransactionCount)
}
