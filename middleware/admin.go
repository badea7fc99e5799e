package middleware

import "github.com/gofiber/fiber/v2"

// RequireAdmin gates admin operations. Runs after RequireAuth, which sets the
// is_admin local from the token.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isAdmin, _ := c.Locals("is_admin").(bool)
		if !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin access required",
			})
		}
		return c.Next()
	}
}
