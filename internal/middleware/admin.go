package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lazarnikolic5396/Razmenime/internal/models"
)

// RequireAdmin gates moderation routes. It runs after RequireAuth and
// checks the role on the freshly loaded profile, a stale token alone
// never grants admin.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile := Profile(c)
		if profile == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization"})
		}
		if profile.Role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin only"})
		}
		return c.Next()
	}
}
