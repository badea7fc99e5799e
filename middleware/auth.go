package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// RequireAuth verifies the Bearer token and attaches the caller's identity to
// the request context. Missing token is 401, a bad or expired one is 403.
func RequireAuth(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid Authorization header",
			})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "invalid token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "invalid claims"})
		}
		userID, ok := claims["id"].(string)
		if !ok || userID == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "user id missing from token"})
		}
		username, _ := claims["username"].(string)
		isAdmin, _ := claims["admin"].(bool)

		c.Locals("user_id", userID)
		c.Locals("username", username)
		c.Locals("is_admin", isAdmin)

		return c.Next()
	}
}
