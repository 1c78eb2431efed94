package services

import (
	"context"
	"fmt"
	"time"

	"bookie/metrics"
	"bookie/models"
	"bookie/providers/feed"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResultSource is what the auto-settler needs from the external feed.
type ResultSource interface {
	GetMatchResult(ctx context.Context, home, away, sport string) (*feed.MatchResult, error)
}

// AutoSettler settles books whose scheduled time has passed, using the
// external feed as the authority for winners. One RunOnce call is one
// complete, idempotent pass; scheduling and single-flight live in jobs.
type AutoSettler struct {
	db     *gorm.DB
	engine *Engine
	source ResultSource
}

func NewAutoSettler(db *gorm.DB, engine *Engine, source ResultSource) *AutoSettler {
	return &AutoSettler{db: db, engine: engine, source: source}
}

// RunOnce processes every due ACTIVE book. A failure on one book is logged
// and counted but never blocks the others.
func (a *AutoSettler) RunOnce(ctx context.Context) error {
	if a.source == nil {
		return nil
	}

	var books []models.Book
	err := a.db.WithContext(ctx).
		Preload("Teams").
		Preload("Events.Outcomes").
		Where("status = ? AND date <= ?", models.BookActive, time.Now()).
		Find(&books).Error
	if err != nil {
		return err
	}

	for i := range books {
		if err := a.settleBook(ctx, &books[i]); err != nil {
			metrics.AutoSettleBookFailures.Inc()
			zap.L().Error("auto-settle failed for book",
				zap.Uint("book_id", books[i].ID),
				zap.String("title", books[i].Title),
				zap.Error(err))
		}
	}
	return nil
}

func (a *AutoSettler) settleBook(ctx context.Context, book *models.Book) error {
	home, away, err := homeAway(book.Teams)
	if err != nil {
		return err
	}

	result, err := a.source.GetMatchResult(ctx, home, away, book.Category)
	if err != nil {
		return err
	}
	if result == nil || result.Status != feed.StatusCompleted {
		// Not finished yet; the book stays active for the next pass.
		return nil
	}

	for _, ro := range result.Outcomes {
		event, outcome := mapResult(book, ro)
		if event == nil || outcome == nil {
			zap.L().Warn("unmapped feed result, skipping",
				zap.Uint("book_id", book.ID),
				zap.String("market", ro.MarketName),
				zap.String("outcome", ro.WinningOutcomeName))
			continue
		}
		if event.Status == models.EventCompleted || event.Status == models.EventCancelled {
			continue
		}

		if _, err := a.engine.SettleEvent(ctx, event.ID, outcome.ID); err != nil {
			return err
		}
	}

	return a.db.WithContext(ctx).Model(&models.Book{}).
		Where("id = ?", book.ID).
		Update("status", models.BookSettled).Error
}

func mapResult(book *models.Book, ro feed.ResultOutcome) (*models.Event, *models.Outcome) {
	for i := range book.Events {
		ev := &book.Events[i]
		if ev.Name != ro.MarketName {
			continue
		}
		for j := range ev.Outcomes {
			if ev.Outcomes[j].Name == ro.WinningOutcomeName {
				return ev, &ev.Outcomes[j]
			}
		}
		return ev, nil
	}
	return nil, nil
}

func homeAway(teams []models.Team) (string, string, error) {
	if len(teams) < 2 {
		return "", "", fmt.Errorf("book needs two teams to query the feed, has %d", len(teams))
	}
	home, away := teams[0], teams[1]
	for _, t := range teams {
		switch t.Position {
		case 0:
			home = t
		case 1:
			away = t
		}
	}
	return home.Name, away.Name, nil
}
