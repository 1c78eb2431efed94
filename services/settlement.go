package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookie/events"
	"bookie/metrics"
	"bookie/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const settlementActor = "settlement-engine"

// Engine resolves winning outcomes and reconciles bets with their linked
// ledger entries. Every public operation runs as one atomic unit; per-bet
// idempotency comes from guarded status updates re-checked inside that unit,
// so concurrent or retried settlements cannot pay a bet twice.
type Engine struct {
	db        *gorm.DB
	publisher *events.Publisher
}

func NewEngine(db *gorm.DB, publisher *events.Publisher) *Engine {
	return &Engine{db: db, publisher: publisher}
}

type SettleResult struct {
	SettledCount   int    `json:"settled_count"`
	WinningOutcome string `json:"winning_outcome"`
}

// SettleEvent marks the winning outcome of an event and transitions every
// still-PENDING bet on it. Bets already out of PENDING are skipped, not
// errors; re-running a settlement with the same winner is a no-op, with a
// different winner it is refused.
func (e *Engine) SettleEvent(ctx context.Context, eventID, winningOutcomeID uint) (*SettleResult, error) {
	var event models.Event
	if err := e.db.WithContext(ctx).Preload("Outcomes").First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wrapNotFound("event", eventID)
		}
		return nil, err
	}

	var winning *models.Outcome
	for i := range event.Outcomes {
		if event.Outcomes[i].ID == winningOutcomeID {
			winning = &event.Outcomes[i]
			break
		}
	}
	if winning == nil {
		return nil, fmt.Errorf("%w: outcome %d does not belong to event %d", ErrInvalidArgument, winningOutcomeID, eventID)
	}

	// A settled event never re-settles. Same winner is a clean no-op; a
	// different winner would move the WIN marker away from already-paid bets.
	switch event.Status {
	case models.EventCancelled:
		return nil, fmt.Errorf("%w: event %d is cancelled", ErrInvalidArgument, eventID)
	case models.EventCompleted:
		if winning.Result != models.ResultWin {
			return nil, fmt.Errorf("%w: event %d is already settled with a different outcome", ErrInvalidArgument, eventID)
		}
		return &SettleResult{WinningOutcome: winning.Name}, nil
	}

	result := &SettleResult{WinningOutcome: winning.Name}
	var settled []events.BetSettled

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bets []models.Bet
		if err := tx.Where("event_id = ?", eventID).Find(&bets).Error; err != nil {
			return err
		}

		now := time.Now()
		for i := range bets {
			bet := &bets[i]

			status := models.BetLost
			if bet.OutcomeID == winningOutcomeID {
				status = models.BetWon
			}

			// Only transition bets still PENDING. RowsAffected == 0 means a
			// concurrent or earlier settlement won the race; skip silently.
			res := tx.Model(&models.Bet{}).
				Where("id = ? AND status = ?", bet.ID, models.BetPending).
				Updates(map[string]any{"status": status, "settled_at": now})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				continue
			}

			if status == models.BetWon {
				if err := e.realizePayout(tx, bet, &event, winning); err != nil {
					return err
				}
			} else {
				if err := e.voidPayout(tx, bet, &event, winning); err != nil {
					return err
				}
			}

			result.SettledCount++
			settled = append(settled, events.BetSettled{
				BetID:     bet.ID,
				UserID:    bet.UserID,
				EventID:   bet.EventID,
				OutcomeID: bet.OutcomeID,
				Status:    string(status),
				Payout:    payoutString(status, bet),
			})
		}

		if err := tx.Model(&models.Outcome{}).
			Where("event_id = ? AND id = ?", eventID, winningOutcomeID).
			Update("result", models.ResultWin).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Outcome{}).
			Where("event_id = ? AND id <> ?", eventID, winningOutcomeID).
			Update("result", models.ResultLose).Error; err != nil {
			return err
		}

		return tx.Model(&models.Event{}).
			Where("id = ?", eventID).
			Update("status", models.EventCompleted).Error
	})
	if err != nil {
		metrics.SettlementFailures.Inc()
		return nil, &SettlementError{Cause: err}
	}

	metrics.SettledBets.Add(float64(result.SettledCount))
	e.publish(ctx, settled)

	zap.L().Info("event settled",
		zap.Uint("event_id", eventID),
		zap.String("winning_outcome", winning.Name),
		zap.Int("settled_count", result.SettledCount))
	return result, nil
}

// realizePayout turns the bet's provisional deposit into the actual payout.
// Bets without a linked entry (created outside the normal flow) get the
// payout deposit created here instead, so no win is ever lost.
func (e *Engine) realizePayout(tx *gorm.DB, bet *models.Bet, event *models.Event, winning *models.Outcome) error {
	description := fmt.Sprintf("won %q on %q", winning.Name, event.Name)

	if bet.TransactionID != nil {
		ok, err := transitionTransaction(tx, *bet.TransactionID,
			models.TrxPending, models.TrxSuccess,
			"payout realized", settlementActor, description)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		// Linked entry already left pending (manual admin edit); nothing to
		// realize.
		zap.L().Warn("won bet had non-pending linked transaction",
			zap.Uint("bet_id", bet.ID), zap.Uint("transaction_id", *bet.TransactionID))
		return nil
	}

	payout := models.Transaction{
		UserID:      bet.UserID,
		Amount:      bet.PotentialWin,
		Type:        models.TrxDeposit,
		Status:      models.TrxSuccess,
		Kind:        models.KindWager,
		Description: description,
	}
	if err := tx.Create(&payout).Error; err != nil {
		return err
	}
	return tx.Model(&models.Bet{}).Where("id = ?", bet.ID).
		Update("transaction_id", payout.ID).Error
}

// voidPayout fails the provisional deposit of a lost bet. Applied uniformly;
// there is no alternate path that leaves lost payouts pending.
func (e *Engine) voidPayout(tx *gorm.DB, bet *models.Bet, event *models.Event, winning *models.Outcome) error {
	if bet.TransactionID == nil {
		return nil
	}
	_, err := transitionTransaction(tx, *bet.TransactionID,
		models.TrxPending, models.TrxFail,
		"bet lost", settlementActor,
		fmt.Sprintf("lost to %q on %q", winning.Name, event.Name))
	return err
}

type BookSettleResult struct {
	SettledEvents int `json:"settled_events"`
	SettledBets   int `json:"settled_bets"`
}

type EventWinner struct {
	EventID   uint `json:"event_id"`
	OutcomeID uint `json:"outcome_id"`
}

// SettleBook runs SettleEvent for every unfinished event of the book, then
// marks the book SETTLED. Already-COMPLETED events are skipped, so a pass
// interrupted halfway can simply be re-invoked.
func (e *Engine) SettleBook(ctx context.Context, bookID uint, winners []EventWinner) (*BookSettleResult, error) {
	var book models.Book
	if err := e.db.WithContext(ctx).Preload("Events").First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wrapNotFound("book", bookID)
		}
		return nil, err
	}

	byEvent := make(map[uint]uint, len(winners))
	for _, w := range winners {
		byEvent[w.EventID] = w.OutcomeID
	}

	result := &BookSettleResult{}
	for i := range book.Events {
		ev := &book.Events[i]
		if ev.Status == models.EventCompleted || ev.Status == models.EventCancelled {
			continue
		}

		outcomeID, ok := byEvent[ev.ID]
		if !ok {
			return nil, fmt.Errorf("%w: no winning outcome given for event %d", ErrInvalidArgument, ev.ID)
		}

		res, err := e.SettleEvent(ctx, ev.ID, outcomeID)
		if err != nil {
			// Events settled earlier in this pass stay settled; the book is
			// left unmarked so the operation can be resumed.
			return nil, err
		}
		result.SettledEvents++
		result.SettledBets += res.SettledCount
	}

	if err := e.db.WithContext(ctx).Model(&models.Book{}).
		Where("id = ?", bookID).
		Update("status", models.BookSettled).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// CancelEvent voids a market: PENDING bets become CANCELLED, their pending
// payouts fail, stakes are refunded, and all outcomes are marked VOID.
func (e *Engine) CancelEvent(ctx context.Context, eventID uint) (int, error) {
	var event models.Event
	if err := e.db.WithContext(ctx).First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, wrapNotFound("event", eventID)
		}
		return 0, err
	}
	if event.Status == models.EventCompleted {
		return 0, fmt.Errorf("%w: event %d is already settled", ErrInvalidArgument, eventID)
	}

	cancelled := 0
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bets []models.Bet
		if err := tx.Where("event_id = ?", eventID).Find(&bets).Error; err != nil {
			return err
		}

		now := time.Now()
		for i := range bets {
			bet := &bets[i]

			res := tx.Model(&models.Bet{}).
				Where("id = ? AND status = ?", bet.ID, models.BetPending).
				Updates(map[string]any{"status": models.BetCancelled, "settled_at": now})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				continue
			}

			if bet.TransactionID != nil {
				if _, err := transitionTransaction(tx, *bet.TransactionID,
					models.TrxPending, models.TrxFail,
					"event cancelled", settlementActor,
					fmt.Sprintf("voided: %q cancelled", event.Name)); err != nil {
					return err
				}
			}

			refund := models.Transaction{
				UserID:      bet.UserID,
				Amount:      bet.Amount,
				Type:        models.TrxDeposit,
				Status:      models.TrxSuccess,
				Kind:        models.KindWager,
				Description: fmt.Sprintf("stake refund: %q cancelled", event.Name),
			}
			if err := tx.Create(&refund).Error; err != nil {
				return err
			}
			cancelled++
		}

		if err := tx.Model(&models.Outcome{}).
			Where("event_id = ?", eventID).
			Update("result", models.ResultVoid).Error; err != nil {
			return err
		}
		return tx.Model(&models.Event{}).
			Where("id = ?", eventID).
			Update("status", models.EventCancelled).Error
	})
	if err != nil {
		metrics.SettlementFailures.Inc()
		return 0, &SettlementError{Cause: err}
	}

	zap.L().Info("event cancelled", zap.Uint("event_id", eventID), zap.Int("cancelled_bets", cancelled))
	return cancelled, nil
}

func (e *Engine) publish(ctx context.Context, settled []events.BetSettled) {
	for _, ev := range settled {
		if err := e.publisher.PublishBetSettled(ctx, ev); err != nil {
			zap.L().Warn("failed to publish bet settled event",
				zap.Uint("bet_id", ev.BetID), zap.Error(err))
		}
	}
}

func payoutString(status models.BetStatus, bet *models.Bet) string {
	if status != models.BetWon {
		return ""
	}
	return bet.PotentialWin.String()
}
