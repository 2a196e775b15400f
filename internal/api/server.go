package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/redis/go-redis/v9"

	"github.com/lazarnikolic5396/Razmenime/internal/auth"
	"github.com/lazarnikolic5396/Razmenime/internal/config"
	"github.com/lazarnikolic5396/Razmenime/internal/handlers"
	"github.com/lazarnikolic5396/Razmenime/internal/middleware"
)

type Deps struct {
	Config   *config.Config
	Tokens   *auth.TokenManager
	Profiles middleware.ProfileLoader
	Redis    *redis.Client

	Auth     *handlers.AuthHandler
	Ads      *handlers.AdsHandler
	Chat     *handlers.ChatHandler
	Requests *handlers.RequestsHandler
	Admin    *handlers.AdminHandler
	Media    *handlers.MediaHandler
	Catalog  *handlers.CatalogHandler
}

// NewServer assembles the Fiber app and mounts every route group.
func NewServer(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		BodyLimit:    12 << 20,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	requireAuth := middleware.RequireAuth(d.Tokens, d.Profiles)
	limiter := middleware.NewRateLimiter(d.Redis, "rl", d.Config.RateLimit.PerMinute, time.Minute)

	api := app.Group("/api")

	// public
	authGroup := api.Group("/auth", limiter.ByIP())
	authGroup.Post("/register", d.Auth.Register)
	authGroup.Post("/login", d.Auth.Login)
	authGroup.Post("/logout", d.Auth.Logout)

	api.Get("/ads", d.Ads.List)
	api.Get("/ads/:id", d.Ads.Get)
	api.Get("/requests", d.Requests.List)
	api.Get("/categories", d.Catalog.Categories)
	api.Get("/locations/:id", d.Catalog.Location)
	api.Get("/map/locations", d.Catalog.MapLocations)

	// authenticated
	priv := api.Group("", requireAuth)
	priv.Get("/auth/me", d.Auth.Me)
	priv.Put("/profile", d.Auth.UpdateProfile)
	priv.Get("/profiles/:id", d.Auth.GetProfile)
	priv.Get("/family", d.Auth.MyFamily)
	priv.Put("/family", d.Auth.UpdateFamily)

	priv.Post("/ads", d.Ads.Create)
	priv.Get("/my/ads", d.Ads.Mine)
	priv.Put("/ads/:id", d.Ads.Update)
	priv.Delete("/ads/:id", d.Ads.Delete)
	priv.Post("/ads/:id/contact", d.Chat.ContactAdOwner)

	priv.Post("/requests", d.Requests.Create)
	priv.Get("/my/requests", d.Requests.Mine)
	priv.Delete("/requests/:id", d.Requests.Delete)
	priv.Post("/requests/:id/contact", d.Chat.ContactFamily)

	priv.Get("/conversations", d.Chat.Conversations)
	priv.Get("/conversations/:id/messages", d.Chat.Messages)
	priv.Post("/conversations/:id/messages", d.Chat.Send)
	priv.Post("/conversations/:id/read", d.Chat.MarkRead)
	priv.Get("/my/ad-requests", d.Chat.MyAdRequests)
	priv.Get("/my/family-contacts", d.Chat.MyFamilyContacts)

	priv.Post("/media", d.Media.Upload)
	priv.Get("/media/url", d.Media.DownloadURL)

	priv.Get("/ws", upgradeRequired, d.Chat.Socket())

	// moderation
	admin := priv.Group("/admin", middleware.RequireAdmin())
	admin.Post("/users", d.Admin.ListUsers)
	admin.Post("/user-status", d.Admin.SetUserStatus)
	admin.Post("/delete-user", d.Admin.DeleteUser)
	admin.Get("/ads/pending", d.Admin.PendingAds)
	admin.Post("/ads/:id/approve", d.Admin.ApproveAd)
	admin.Post("/ads/:id/remove", d.Admin.RemoveAd)

	return app
}

func upgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}
