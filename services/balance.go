package services

import (
	"errors"

	"bookie/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Balance struct {
	Available  decimal.Decimal `json:"available"`
	NetPending decimal.Decimal `json:"net_pending"`
	Effective  decimal.Decimal `json:"effective"`
}

// ComputeBalance folds over every transaction of the user. There is no cached
// balance anywhere; this is the source of truth and must stay reproducible
// from the ledger alone.
func ComputeBalance(db *gorm.DB, userID uint) (*Balance, error) {
	if err := requireUser(db, userID); err != nil {
		return nil, err
	}

	var trxs []models.Transaction
	if err := db.Where("user_id = ?", userID).Find(&trxs).Error; err != nil {
		return nil, err
	}

	bal := &Balance{
		Available:  decimal.Zero,
		NetPending: decimal.Zero,
	}
	for _, t := range trxs {
		switch t.Status {
		case models.TrxSuccess:
			bal.Available = bal.Available.Add(signed(t))
		case models.TrxPending:
			bal.NetPending = bal.NetPending.Add(signed(t))
		}
	}
	bal.Effective = bal.Available.Add(bal.NetPending)
	return bal, nil
}

type ProfitBucket struct {
	TotalDeposits    decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	NetProfit        decimal.Decimal `json:"net_profit"`
	TransactionCount int             `json:"transaction_count"`
}

type ProfitReport struct {
	Manual  ProfitBucket `json:"manual"`
	Game    ProfitBucket `json:"game"`
	Overall ProfitBucket `json:"overall"`
}

// ComputeProfit partitions successful transactions into manual adjustments vs
// game activity (wager and promo kinds) and sums an overall bucket.
func ComputeProfit(db *gorm.DB, userID uint) (*ProfitReport, error) {
	if err := requireUser(db, userID); err != nil {
		return nil, err
	}

	var trxs []models.Transaction
	if err := db.Where("user_id = ? AND status = ?", userID, models.TrxSuccess).Find(&trxs).Error; err != nil {
		return nil, err
	}

	report := &ProfitReport{
		Manual:  zeroBucket(),
		Game:    zeroBucket(),
		Overall: zeroBucket(),
	}
	for _, t := range trxs {
		if t.Kind == models.KindManual {
			addToBucket(&report.Manual, t)
		} else {
			addToBucket(&report.Game, t)
		}
		addToBucket(&report.Overall, t)
	}
	return report, nil
}

func zeroBucket() ProfitBucket {
	return ProfitBucket{
		TotalDeposits:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
		NetProfit:        decimal.Zero,
	}
}

func addToBucket(b *ProfitBucket, t models.Transaction) {
	switch t.Type {
	case models.TrxDeposit:
		b.TotalDeposits = b.TotalDeposits.Add(t.Amount)
	case models.TrxWithdrawal:
		b.TotalWithdrawals = b.TotalWithdrawals.Add(t.Amount)
	}
	b.NetProfit = b.TotalDeposits.Sub(b.TotalWithdrawals)
	b.TransactionCount++
}

func signed(t models.Transaction) decimal.Decimal {
	if t.Type == models.TrxWithdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}

func requireUser(db *gorm.DB, userID uint) error {
	var user models.User
	if err := db.Select("id").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return wrapNotFound("user", userID)
		}
		return err
	}
	return nil
}
