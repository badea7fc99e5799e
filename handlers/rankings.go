package handlers

import (
	"log"

	"octagon-oracle/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRankingRoutes(app *fiber.App, rankingService *services.RankingService) {
	app.Get("/api/rankings/general", func(c *fiber.Ctx) error {
		entries, err := rankingService.GeneralRanking()
		if err != nil {
			log.Printf("ERROR computing general ranking: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "failed to compute ranking"})
		}
		return c.JSON(entries)
	})

	app.Get("/api/rankings/accuracy", func(c *fiber.Ctx) error {
		entries, err := rankingService.AccuracyRanking()
		if err != nil {
			log.Printf("ERROR computing accuracy ranking: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "failed to compute ranking"})
		}
		return c.JSON(entries)
	})
}
