package admin

import (
	"bookie/database"
	"bookie/helpers"
	"bookie/providers/feed"
	"bookie/services"

	"github.com/gofiber/fiber/v2"
)

// SearchFeedEvents lists external fixtures for a sport with the odds already
// margined, i.e. the prices that would actually be offered.
func SearchFeedEvents(client *feed.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sport := c.Query("sport")
		if sport == "" {
			return helpers.JSONError(c, "SPORT_REQUIRED")
		}

		feedEvents, err := client.GetEvents(c.Context(), sport)
		if err != nil {
			return helpers.ErrorJSON(c, err)
		}

		for i := range feedEvents {
			for j := range feedEvents[i].Markets {
				for k := range feedEvents[i].Markets[j].Outcomes {
					o := &feedEvents[i].Markets[j].Outcomes[k]
					o.Odds = feed.MarginOdds(o.Odds)
				}
			}
		}
		return helpers.JSONSuccess(c, "Feed events retrieved", feedEvents)
	}
}

type ImportFeedBookRequest struct {
	Sport       string `json:"sport"`
	FeedEventID string `json:"feed_event_id"`
}

func ImportFeedBook(client *feed.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ImportFeedBookRequest
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}
		if req.Sport == "" || req.FeedEventID == "" {
			return helpers.JSONError(c, "SPORT_AND_FEED_EVENT_ID_REQUIRED")
		}

		feedEvents, err := client.GetEvents(c.Context(), req.Sport)
		if err != nil {
			return helpers.ErrorJSON(c, err)
		}

		for _, ev := range feedEvents {
			if ev.ID != req.FeedEventID {
				continue
			}
			book, err := services.ImportFeedBook(database.DB, ev)
			if err != nil {
				return helpers.ErrorJSON(c, err)
			}
			return helpers.JSONSuccess(c, "Book imported", book)
		}
		return helpers.JSONStatus(c, fiber.StatusNotFound, "FEED_EVENT_NOT_FOUND")
	}
}
