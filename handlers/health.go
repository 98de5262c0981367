package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/reviseo/reviseo-api/database"
)

// HandleCheckHealth reports process liveness and database reachability.
func HandleCheckHealth(store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.HealthCheck(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "degraded",
				"error":  "database unreachable",
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
