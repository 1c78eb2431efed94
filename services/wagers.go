package services

import (
	"errors"
	"fmt"

	"bookie/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PlaceBet creates a PENDING bet with odds snapshotted from the outcome at
// this moment. Two ledger entries are written in the same unit: a successful
// withdrawal for the stake and a pending deposit for the potential win, the
// latter linked to the bet so settlement can realize or void it.
func PlaceBet(db *gorm.DB, userID, outcomeID uint, amount decimal.Decimal) (*models.Bet, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: stake must be positive", ErrInvalidArgument)
	}
	if err := requireUser(db, userID); err != nil {
		return nil, err
	}

	var outcome models.Outcome
	if err := db.First(&outcome, outcomeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wrapNotFound("outcome", outcomeID)
		}
		return nil, err
	}

	var event models.Event
	if err := db.First(&event, outcome.EventID).Error; err != nil {
		return nil, err
	}
	var book models.Book
	if err := db.First(&book, event.BookID).Error; err != nil {
		return nil, err
	}

	if book.Status != models.BookActive {
		return nil, fmt.Errorf("%w: book %d is not open for betting", ErrInvalidArgument, book.ID)
	}
	if event.Status != models.EventUpcoming && event.Status != models.EventLive {
		return nil, fmt.Errorf("%w: event %d is not open for betting", ErrInvalidArgument, event.ID)
	}

	potentialWin := amount.Mul(outcome.Odds).Round(2)
	refID := uuid.New().String()

	var bet models.Bet
	err := db.Transaction(func(tx *gorm.DB) error {
		// Balance is checked inside the unit, against the same snapshot the
		// stake withdrawal commits into.
		bal, err := ComputeBalance(tx, userID)
		if err != nil {
			return err
		}
		if bal.Available.LessThan(amount) {
			return fmt.Errorf("%w: available %s, stake %s", ErrInsufficientFunds, bal.Available, amount)
		}

		stake := models.Transaction{
			UserID:      userID,
			Amount:      amount,
			Type:        models.TrxWithdrawal,
			Status:      models.TrxSuccess,
			Kind:        models.KindWager,
			Description: fmt.Sprintf("stake on %q", outcome.Name),
			RefID:       refID,
		}
		if err := tx.Create(&stake).Error; err != nil {
			return err
		}

		payout := models.Transaction{
			UserID:      userID,
			Amount:      potentialWin,
			Type:        models.TrxDeposit,
			Status:      models.TrxPending,
			Kind:        models.KindWager,
			Description: fmt.Sprintf("potential win on %q", outcome.Name),
			RefID:       refID,
		}
		if err := tx.Create(&payout).Error; err != nil {
			return err
		}

		bet = models.Bet{
			UserID:        userID,
			EventID:       event.ID,
			OutcomeID:     outcome.ID,
			Amount:        amount,
			Odds:          outcome.Odds,
			PotentialWin:  potentialWin,
			Status:        models.BetPending,
			TransactionID: &payout.ID,
		}
		return tx.Create(&bet).Error
	})
	if err != nil {
		return nil, err
	}
	return &bet, nil
}
