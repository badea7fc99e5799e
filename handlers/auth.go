package handlers

import (
	"octagon-oracle/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService) {
	app.Post("/api/auth/register", authService.Register)
	app.Post("/api/auth/login", authService.Login)
}
