package routes

import (
	"bookie/controllers/admin"
	"bookie/controllers/user"
	"bookie/middlewares"
	"bookie/providers/feed"
	"bookie/services"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App, engine *services.Engine, feedClient *feed.Client) {
	userroutes := app.Group("/user", middlewares.Identity())
	userroutes.Get("/balance", user.GetBalance)
	userroutes.Get("/balance/profit", user.GetProfitReport)
	userroutes.Post("/bets", user.PlaceBet)

	adminroutes := app.Group("/admin", middlewares.Identity(), middlewares.RequireAdmin())
	adminroutes.Post("/books", admin.CreateBook)
	adminroutes.Put("/books/:id", admin.ReplaceBook)
	adminroutes.Get("/books/:id", admin.GetBook)
	adminroutes.Post("/books/:id/settle", admin.SettleBook(engine))
	adminroutes.Post("/events/:id/settle", admin.SettleEvent(engine))
	adminroutes.Post("/events/:id/cancel", admin.CancelEvent(engine))
	adminroutes.Patch("/outcomes/:id/odds", admin.UpdateOutcomeOdds)
	adminroutes.Patch("/transactions/:id", admin.PatchTransaction)
	adminroutes.Post("/transactions", admin.CreateManualTransaction)
	adminroutes.Get("/feed/events", admin.SearchFeedEvents(feedClient))
	adminroutes.Post("/feed/import", admin.ImportFeedBook(feedClient))
}
