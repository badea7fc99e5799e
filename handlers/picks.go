package handlers

import (
	"octagon-oracle/middleware"
	"octagon-oracle/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPickRoutes(app *fiber.App, pickService *services.PickService, paymentService *services.PaymentService, jwtSecret []byte) {
	secured := app.Group("/api", middleware.RequireAuth(jwtSecret))

	secured.Post("/picks", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var in services.PickInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
		}
		if in.FightID == "" {
			return c.Status(400).JSON(fiber.Map{"error": "fight_id is required"})
		}

		eventID, err := pickService.EventIDForFight(in.FightID)
		if err != nil {
			return serviceError(c, err)
		}
		paid, err := paymentService.HasPaid(userID, eventID)
		if err != nil {
			return serviceError(c, err)
		}
		if !paid {
			return c.Status(403).JSON(fiber.Map{"error": "entry fee not paid for this event"})
		}

		pick, err := pickService.UpsertPick(userID, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(201).JSON(fiber.Map{"message": "pick saved", "pick": pick})
	})

	secured.Post("/bonus-picks", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var in services.BonusPickInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
		}
		if in.EventID == "" {
			return c.Status(400).JSON(fiber.Map{"error": "event_id is required"})
		}

		paid, err := paymentService.HasPaid(userID, in.EventID)
		if err != nil {
			return serviceError(c, err)
		}
		if !paid {
			return c.Status(403).JSON(fiber.Map{"error": "entry fee not paid for this event"})
		}

		bonusPick, err := pickService.UpsertBonusPick(userID, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(201).JSON(fiber.Map{"message": "bonus pick saved", "bonus_pick": bonusPick})
	})

	secured.Get("/payments/mine", paymentService.ListMine)
}
