package handlers

import (
	"octagon-oracle/middleware"
	"octagon-oracle/models"
	"octagon-oracle/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App, eventService *services.EventService, settlementService *services.SettlementService, jwtSecret []byte) {
	admin := app.Group("/api/admin", middleware.RequireAuth(jwtSecret), middleware.RequireAdmin())

	// Event and card management
	admin.Post("/events", eventService.CreateEvent)
	admin.Put("/events/:id", eventService.UpdateEvent)
	admin.Delete("/events/:id", eventService.DeleteEvent)
	admin.Post("/events/:id/fights", eventService.AddFight)

	// Results settlement: batch of fight results, all-or-nothing
	admin.Post("/results", func(c *fiber.Ctx) error {
		var req struct {
			Results []services.FightResultInput `json:"results"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
		}
		if err := settlementService.SettleFightResults(req.Results); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "results settled", "fights": len(req.Results)})
	})

	// Bonus category settlement; "none" deliberately awards nothing
	admin.Post("/events/:id/bonus-results", func(c *fiber.Ctx) error {
		var req struct {
			FightOfNightFightID    string `json:"fight_of_night_fight_id"`
			PerfOfNightFighterName string `json:"perf_of_night_fighter_name"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
		}
		if err := settlementService.SettleBonusResults(c.Params("id"), req.FightOfNightFightID, req.PerfOfNightFighterName); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "bonus results settled"})
	})

	// Fight edit; fighter renames propagate and trigger a re-score
	admin.Put("/fights/:id", func(c *fiber.Ctx) error {
		var in services.FightUpdateInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
		}
		if err := settlementService.RenameFighterOnFight(c.Params("id"), in); err != nil {
			return serviceError(c, err)
		}
		var fight models.Fight
		if err := settlementService.DB.First(&fight, "id = ?", c.Params("id")).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to reload fight"})
		}
		return c.JSON(fight)
	})
}
