package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"bookie/models"
	"bookie/providers/feed"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	results map[string]*feed.MatchResult
	fails   map[string]bool
}

func (s *stubSource) GetMatchResult(ctx context.Context, home, away, sport string) (*feed.MatchResult, error) {
	key := fmt.Sprintf("%s|%s|%s", home, away, sport)
	if s.fails[key] {
		return nil, errors.New("feed exploded")
	}
	return s.results[key], nil
}

func TestAutoSettleSettlesDueBooks(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	user := seedUser(t, db, "kate")
	fundUser(t, db, user.ID, "500")

	book := seedBook(t, db) // Home FC vs Away United, dated in the past
	event := book.Events[0]
	home := outcomeByName(t, event, "Home")

	bet, err := PlaceBet(db, user.ID, home.ID, decimal.RequireFromString("50"))
	require.NoError(t, err)

	source := &stubSource{results: map[string]*feed.MatchResult{
		"Home FC|Away United|football": {
			Status: feed.StatusCompleted,
			Outcomes: []feed.ResultOutcome{
				{MarketName: "Match Winner", WinningOutcomeName: "Home"},
				// Unknown market: logged and skipped, never fatal.
				{MarketName: "Total Goals", WinningOutcomeName: "Over 2.5"},
			},
		},
	}}

	settler := NewAutoSettler(db, engine, source)
	require.NoError(t, settler.RunOnce(context.Background()))

	var gotBook models.Book
	require.NoError(t, db.First(&gotBook, book.ID).Error)
	require.Equal(t, models.BookSettled, gotBook.Status)

	var gotEvent models.Event
	require.NoError(t, db.First(&gotEvent, event.ID).Error)
	require.Equal(t, models.EventCompleted, gotEvent.Status)

	var gotBet models.Bet
	require.NoError(t, db.First(&gotBet, bet.ID).Error)
	require.Equal(t, models.BetWon, gotBet.Status)
}

func TestAutoSettleLeavesUnfinishedMatchesActive(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	book := seedBook(t, db)

	source := &stubSource{results: map[string]*feed.MatchResult{
		"Home FC|Away United|football": {Status: "LIVE"},
	}}

	settler := NewAutoSettler(db, engine, source)
	require.NoError(t, settler.RunOnce(context.Background()))

	var gotBook models.Book
	require.NoError(t, db.First(&gotBook, book.ID).Error)
	require.Equal(t, models.BookActive, gotBook.Status)
}

func TestAutoSettleIsolatesBookFailures(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, nil)

	broken := seedBook(t, db)

	healthy, err := CreateBook(db, validInput())
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Book{}).Where("id = ?", healthy.ID).
		Update("date", broken.Date).Error)

	source := &stubSource{
		fails: map[string]bool{"Home FC|Away United|football": true},
		results: map[string]*feed.MatchResult{
			"A|B|football": {
				Status: feed.StatusCompleted,
				Outcomes: []feed.ResultOutcome{
					{MarketName: "Match Winner", WinningOutcomeName: "A"},
				},
			},
		},
	}

	settler := NewAutoSettler(db, engine, source)
	require.NoError(t, settler.RunOnce(context.Background()))

	// The failing book stays active for the next pass, the other settles.
	var gotBroken, gotHealthy models.Book
	require.NoError(t, db.First(&gotBroken, broken.ID).Error)
	require.NoError(t, db.First(&gotHealthy, healthy.ID).Error)
	require.Equal(t, models.BookActive, gotBroken.Status)
	require.Equal(t, models.BookSettled, gotHealthy.Status)
}
