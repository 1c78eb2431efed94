package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BetStatus string

const (
	BetPending   BetStatus = "PENDING"
	BetWon       BetStatus = "WON"
	BetLost      BetStatus = "LOST"
	BetCancelled BetStatus = "CANCELLED"
)

// Bet snapshots odds at placement time; later odds edits never change the
// payout. The settlement engine is the only writer allowed to move a bet out
// of PENDING.
type Bet struct {
	gorm.Model

	UserID    uint `gorm:"index" json:"user_id"`
	EventID   uint `gorm:"index" json:"event_id"`
	OutcomeID uint `gorm:"index" json:"outcome_id"`

	Amount       decimal.Decimal `gorm:"type:decimal(20,2)" json:"amount"`
	Odds         decimal.Decimal `gorm:"type:decimal(10,2)" json:"odds"`
	PotentialWin decimal.Decimal `gorm:"type:decimal(20,2)" json:"potential_win"`

	Status    BetStatus  `gorm:"size:16;index;default:PENDING" json:"status"`
	SettledAt *time.Time `json:"settled_at"`

	// Provisional payout ledger entry created at placement.
	TransactionID *uint        `gorm:"index" json:"transaction_id"`
	Transaction   *Transaction `gorm:"foreignKey:TransactionID" json:"-"`
}
