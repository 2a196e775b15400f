package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lazarnikolic5396/Razmenime/internal/auth"
	"github.com/lazarnikolic5396/Razmenime/internal/models"
)

// ProfileLoader resolves an authenticated subject to its profile.
type ProfileLoader interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

const (
	// SessionCookie carries the token for browser clients, API clients
	// send it as a bearer header.
	SessionCookie = "razmenime_session"

	LocalUserID  = "user_id"
	LocalProfile = "profile"
)

func tokenFrom(c *fiber.Ctx) string {
	if h := c.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return c.Cookies(SessionCookie)
}

// RequireAuth verifies the session token and loads the caller's profile
// into locals. Deactivated accounts get 403 on every authenticated
// route, not just at login.
func RequireAuth(tokens *auth.TokenManager, profiles ProfileLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFrom(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization"})
		}
		userID, err := tokens.Verify(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}
		profile, err := profiles.GetByID(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unknown account"})
		}
		if !profile.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "account deactivated"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalProfile, profile)
		return c.Next()
	}
}

// Profile returns the caller loaded by RequireAuth.
func Profile(c *fiber.Ctx) *models.Profile {
	p, _ := c.Locals(LocalProfile).(*models.Profile)
	return p
}

func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}
