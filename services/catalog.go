package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bookie/models"
	"bookie/providers/feed"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var one = decimal.NewFromInt(1)

type OutcomeInput struct {
	Name string          `json:"name"`
	Odds decimal.Decimal `json:"odds"`
}

type EventInput struct {
	Name          string         `json:"name"`
	FastBetTop    bool           `json:"fast_bet_top"`
	FastBetBottom bool           `json:"fast_bet_bottom"`
	Outcomes      []OutcomeInput `json:"outcomes"`
}

type TeamInput struct {
	Name string `json:"name"`
}

type BookInput struct {
	Title        string       `json:"title"`
	Date         time.Time    `json:"date"`
	Category     string       `json:"category"`
	Championship string       `json:"championship"`
	Country      string       `json:"country"`
	IsHot        bool         `json:"is_hot"`
	Teams        []TeamInput  `json:"teams"`
	Events       []EventInput `json:"events"`
}

func validateBookInput(in BookInput) error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	if len(in.Teams) < 2 {
		return fmt.Errorf("%w: a book needs at least 2 teams", ErrInvalidArgument)
	}
	if len(in.Events) == 0 {
		return fmt.Errorf("%w: a book needs at least 1 event", ErrInvalidArgument)
	}

	topTaken, bottomTaken := false, false
	for _, ev := range in.Events {
		if ev.Name == "" {
			return fmt.Errorf("%w: event name is required", ErrInvalidArgument)
		}
		if len(ev.Outcomes) == 0 {
			return fmt.Errorf("%w: event %q needs at least 1 outcome", ErrInvalidArgument, ev.Name)
		}
		for _, o := range ev.Outcomes {
			if !o.Odds.GreaterThan(one) {
				return fmt.Errorf("%w: outcome %q odds must be greater than 1.0", ErrInvalidArgument, o.Name)
			}
		}
		if ev.FastBetTop {
			if topTaken {
				return fmt.Errorf("%w: more than one event flagged fast-bet top", ErrInvalidArgument)
			}
			topTaken = true
		}
		if ev.FastBetBottom {
			if bottomTaken {
				return fmt.Errorf("%w: more than one event flagged fast-bet bottom", ErrInvalidArgument)
			}
			bottomTaken = true
		}
	}
	return nil
}

func buildBook(in BookInput) models.Book {
	book := models.Book{
		Title:        in.Title,
		Date:         in.Date,
		Category:     in.Category,
		Championship: in.Championship,
		Country:      in.Country,
		IsHot:        in.IsHot,
		Status:       models.BookActive,
	}
	for i, t := range in.Teams {
		book.Teams = append(book.Teams, models.Team{Name: t.Name, Position: i})
	}
	for _, ev := range in.Events {
		event := models.Event{
			Name:          ev.Name,
			Status:        models.EventUpcoming,
			FastBetTop:    ev.FastBetTop,
			FastBetBottom: ev.FastBetBottom,
		}
		for _, o := range ev.Outcomes {
			// Probability is derived once, here. Odds edits later on do not
			// touch it.
			event.Outcomes = append(event.Outcomes, models.Outcome{
				Name:        o.Name,
				Odds:        o.Odds,
				Probability: one.DivRound(o.Odds, 4),
				Result:      models.ResultPending,
			})
		}
		book.Events = append(book.Events, event)
	}
	return book
}

// CreateBook persists a book with its teams, events and outcomes as one
// atomic unit.
func CreateBook(db *gorm.DB, in BookInput) (*models.Book, error) {
	if err := validateBookInput(in); err != nil {
		return nil, err
	}

	book := buildBook(in)
	if err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&book).Error
	}); err != nil {
		return nil, err
	}
	return &book, nil
}

// ReplaceBook deletes the book's teams and events and recreates them from the
// submitted set. The replace is refused while any bet on the book is still
// PENDING, so historical wagers never end up pointing at deleted rows.
func ReplaceBook(db *gorm.DB, bookID uint, in BookInput) (*models.Book, error) {
	if err := validateBookInput(in); err != nil {
		return nil, err
	}

	var book models.Book
	if err := db.First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wrapNotFound("book", bookID)
		}
		return nil, err
	}

	replacement := buildBook(in)
	err := db.Transaction(func(tx *gorm.DB) error {
		// The pending-bet check shares the unit with the deletes, so a bet
		// placed while the replace runs cannot slip past the refusal.
		var eventIDs []uint
		if err := tx.Model(&models.Event{}).Where("book_id = ?", bookID).Pluck("id", &eventIDs).Error; err != nil {
			return err
		}
		if len(eventIDs) > 0 {
			var pending int64
			if err := tx.Model(&models.Bet{}).
				Where("event_id IN ? AND status = ?", eventIDs, models.BetPending).
				Count(&pending).Error; err != nil {
				return err
			}
			if pending > 0 {
				return fmt.Errorf("%w: book %d has %d unsettled bets, settle or cancel before editing", ErrInvalidArgument, bookID, pending)
			}
			if err := tx.Where("event_id IN ?", eventIDs).Delete(&models.Outcome{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("book_id = ?", bookID).Delete(&models.Event{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", bookID).Delete(&models.Team{}).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"title":        replacement.Title,
			"date":         replacement.Date,
			"category":     replacement.Category,
			"championship": replacement.Championship,
			"country":      replacement.Country,
			"is_hot":       replacement.IsHot,
		}
		if err := tx.Model(&models.Book{}).Where("id = ?", bookID).Updates(updates).Error; err != nil {
			return err
		}

		for i := range replacement.Teams {
			replacement.Teams[i].BookID = bookID
		}
		if err := tx.Create(&replacement.Teams).Error; err != nil {
			return err
		}
		for i := range replacement.Events {
			replacement.Events[i].BookID = bookID
		}
		return tx.Create(&replacement.Events).Error
	})
	if err != nil {
		return nil, err
	}
	return GetBook(db, bookID)
}

// GetBook loads a book with the outcome stake aggregates filled in. Stakes
// are read-through sums over live bets, never a stored counter.
func GetBook(db *gorm.DB, bookID uint) (*models.Book, error) {
	var book models.Book
	err := db.Preload("Teams").Preload("Events.Outcomes").First(&book, bookID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wrapNotFound("book", bookID)
		}
		return nil, err
	}

	eventIDs := make([]uint, 0, len(book.Events))
	for _, ev := range book.Events {
		eventIDs = append(eventIDs, ev.ID)
	}
	stakes, err := outcomeStakes(db, eventIDs)
	if err != nil {
		return nil, err
	}

	for i := range book.Events {
		for j := range book.Events[i].Outcomes {
			o := &book.Events[i].Outcomes[j]
			if s, ok := stakes[o.ID]; ok {
				o.Stake = s
			} else {
				o.Stake = decimal.Zero
			}
		}
	}
	return &book, nil
}

func outcomeStakes(db *gorm.DB, eventIDs []uint) (map[uint]decimal.Decimal, error) {
	stakes := make(map[uint]decimal.Decimal)
	if len(eventIDs) == 0 {
		return stakes, nil
	}

	var rows []struct {
		OutcomeID uint
		Total     decimal.Decimal
	}
	err := db.Model(&models.Bet{}).
		Select("outcome_id, SUM(amount) AS total").
		Where("event_id IN ? AND status <> ?", eventIDs, models.BetCancelled).
		Group("outcome_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		stakes[r.OutcomeID] = r.Total
	}
	return stakes, nil
}

// UpdateOutcomeOdds is the admin odds edit. Bets keep their snapshotted odds
// and the stored probability stays as derived at creation.
func UpdateOutcomeOdds(db *gorm.DB, outcomeID uint, odds decimal.Decimal) (*models.Outcome, error) {
	if !odds.GreaterThan(one) {
		return nil, fmt.Errorf("%w: odds must be greater than 1.0", ErrInvalidArgument)
	}

	var outcome models.Outcome
	if err := db.First(&outcome, outcomeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wrapNotFound("outcome", outcomeID)
		}
		return nil, err
	}

	if err := db.Model(&outcome).Update("odds", odds).Error; err != nil {
		return nil, err
	}
	outcome.Odds = odds
	return &outcome, nil
}

// ImportFeedBook turns one external feed event into a book: teams from the
// fixture, an event per market, and margined odds. The raw feed payload is
// kept on the book for audit.
func ImportFeedBook(db *gorm.DB, ev feed.Event) (*models.Book, error) {
	in := BookInput{
		Title:    fmt.Sprintf("%s vs %s", ev.HomeTeam, ev.AwayTeam),
		Date:     ev.CommenceTime,
		Category: ev.Sport,
		Teams: []TeamInput{
			{Name: ev.HomeTeam},
			{Name: ev.AwayTeam},
		},
	}
	for _, m := range ev.Markets {
		event := EventInput{Name: m.Name}
		for _, o := range m.Outcomes {
			event.Outcomes = append(event.Outcomes, OutcomeInput{
				Name: o.Name,
				Odds: feed.MarginOdds(o.Odds),
			})
		}
		in.Events = append(in.Events, event)
	}

	book, err := CreateBook(db, in)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(ev); err == nil {
		if err := db.Model(book).Update("feed_result", datatypes.JSON(raw)).Error; err != nil {
			return nil, err
		}
		book.FeedResult = datatypes.JSON(raw)
	}
	return book, nil
}
