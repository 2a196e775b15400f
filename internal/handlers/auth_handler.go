package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lazarnikolic5396/Razmenime/internal/middleware"
	"github.com/lazarnikolic5396/Razmenime/internal/services"
)

type AuthHandler struct {
	accounts *services.AccountService
	tokenTTL time.Duration
}

func NewAuthHandler(accounts *services.AccountService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokenTTL: tokenTTL}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	profile, err := h.accounts.Register(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	token, profile, err := h.accounts.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return fail(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(h.tokenTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.JSON(fiber.Map{"token": token, "profile": profile})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(middleware.Profile(c))
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var in services.UpdateProfileInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := h.accounts.UpdateProfile(c.Context(), middleware.UserID(c), in); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.accounts.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(profile)
}

func (h *AuthHandler) MyFamily(c *fiber.Ctx) error {
	fam, err := h.accounts.GetFamily(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fam)
}

type updateFamilyReq struct {
	Description string `json:"description"`
}

func (h *AuthHandler) UpdateFamily(c *fiber.Ctx) error {
	var req updateFamilyReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := h.accounts.UpdateFamily(c.Context(), middleware.UserID(c), req.Description); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
