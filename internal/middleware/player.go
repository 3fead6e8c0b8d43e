package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// EnsurePlayerID stores the caller's player id in c.Locals("playerID"). The
// X-Player-ID header wins over the playerId query parameter, which browsers
// opening a websocket have to use instead.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("playerID") != nil {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			playerID = c.Query("playerId")
		}

		if playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		c.Locals("playerID", playerID)
		return c.Next()
	}
}
