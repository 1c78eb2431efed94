package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TrxDeposit    TransactionType = "deposit"
	TrxWithdrawal TransactionType = "withdrawal"
)

type TransactionStatus string

const (
	TrxPending TransactionStatus = "pending"
	TrxSuccess TransactionStatus = "success"
	TrxFail    TransactionStatus = "fail"
)

// TransactionKind is decided once at creation and never inferred from
// free-text fields afterwards.
type TransactionKind string

const (
	KindWager  TransactionKind = "wager"
	KindManual TransactionKind = "manual"
	KindPromo  TransactionKind = "promo"
)

// Transaction is a ledger entry. Amount is always positive; Type carries the
// sign. Rows are immutable once status leaves pending, and no balance is ever
// cached off them — balances are recomputed from the full set on every read.
type Transaction struct {
	gorm.Model

	UserID      uint                 `gorm:"index" json:"user_id"`
	Amount      decimal.Decimal      `gorm:"type:decimal(20,2)" json:"amount"`
	Type        TransactionType      `gorm:"size:16;index" json:"type"`
	Status      TransactionStatus    `gorm:"size:16;index" json:"status"`
	Kind        TransactionKind      `gorm:"size:16;index" json:"kind"`
	Description string               `gorm:"size:255" json:"description"`
	RefID       string               `gorm:"size:64;index" json:"ref_id"`
	History     []TransactionHistory `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"-"`
}

// TransactionHistory gets one append-only row per status transition.
type TransactionHistory struct {
	gorm.Model

	TransactionID uint              `gorm:"index" json:"transaction_id"`
	FromStatus    TransactionStatus `gorm:"size:16" json:"from_status"`
	ToStatus      TransactionStatus `gorm:"size:16" json:"to_status"`
	Note          string            `gorm:"size:255" json:"note"`
	Actor         string            `gorm:"size:64" json:"actor"`
}
