package handlers

import (
	"octagon-oracle/middleware"
	"octagon-oracle/services"

	"github.com/gofiber/fiber/v2"
)

func SetupEventRoutes(app *fiber.App, eventService *services.EventService, jwtSecret []byte) {
	// Public: event listing and fighter search
	app.Get("/api/events", eventService.ListEvents)
	app.Get("/api/fighters/search", eventService.SearchFighters)

	// The event view includes the caller's own picks, so it needs identity
	secured := app.Group("/api", middleware.RequireAuth(jwtSecret))
	secured.Get("/events/:id", eventService.GetEventView)
}
