package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BookStatus string

const (
	BookActive    BookStatus = "ACTIVE"
	BookInactive  BookStatus = "INACTIVE"
	BookSettled   BookStatus = "SETTLED"
	BookCancelled BookStatus = "CANCELLED"
)

// Book groups the markets for one real-world fixture.
type Book struct {
	gorm.Model

	Title        string     `gorm:"size:128" json:"title"`
	Date         time.Time  `gorm:"index" json:"date"`
	Category     string     `gorm:"size:64;index" json:"category"`
	Status       BookStatus `gorm:"size:16;index;default:ACTIVE" json:"status"`
	Championship string     `gorm:"size:128" json:"championship"`
	Country      string     `gorm:"size:64" json:"country"`
	IsHot        bool       `gorm:"default:false" json:"is_hot"`

	// Raw payload from the external feed when the book was imported or
	// auto-settled, kept for audit.
	FeedResult datatypes.JSON `gorm:"type:jsonb" json:"feed_result,omitempty"`

	Teams  []Team  `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"teams"`
	Events []Event `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"events"`
}

type Team struct {
	gorm.Model

	BookID   uint   `gorm:"index" json:"book_id"`
	Name     string `gorm:"size:128" json:"name"`
	Position int    `json:"position"` // 0 = home, 1 = away
}

type EventStatus string

const (
	EventUpcoming  EventStatus = "UPCOMING"
	EventLive      EventStatus = "LIVE"
	EventCompleted EventStatus = "COMPLETED"
	EventCancelled EventStatus = "CANCELLED"
)

// Event is one betting market within a Book. At most one event per book may
// hold each fast-bet slot; catalog writes enforce that, the schema does not.
type Event struct {
	gorm.Model

	BookID        uint        `gorm:"index" json:"book_id"`
	Name          string      `gorm:"size:128" json:"name"`
	Status        EventStatus `gorm:"size:16;index;default:UPCOMING" json:"status"`
	FastBetTop    bool        `gorm:"default:false" json:"fast_bet_top"`
	FastBetBottom bool        `gorm:"default:false" json:"fast_bet_bottom"`

	Outcomes []Outcome `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"outcomes"`
	Bets     []Bet     `gorm:"foreignKey:EventID" json:"-"`
}

type OutcomeResult string

const (
	ResultPending OutcomeResult = "PENDING"
	ResultWin     OutcomeResult = "WIN"
	ResultLose    OutcomeResult = "LOSE"
	ResultVoid    OutcomeResult = "VOID"
)

// Outcome is one selectable answer within an Event. Probability is fixed at
// 1/odds when the outcome is created and is not re-derived on odds edits.
type Outcome struct {
	gorm.Model

	EventID     uint            `gorm:"index" json:"event_id"`
	Name        string          `gorm:"size:128" json:"name"`
	Odds        decimal.Decimal `gorm:"type:decimal(10,2)" json:"odds"`
	Probability decimal.Decimal `gorm:"type:decimal(10,4)" json:"probability"`
	Result      OutcomeResult   `gorm:"size:8;default:PENDING" json:"result"`

	// Stake is derived from live bets on every read, never persisted.
	Stake decimal.Decimal `gorm:"-" json:"stake"`
}
