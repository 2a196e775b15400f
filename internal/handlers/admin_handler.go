package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/lazarnikolic5396/Razmenime/internal/services"
)

// AdminHandler serves the moderation API. Routes are mounted behind
// RequireAuth and RequireAdmin; a failed storage call here answers 400
// so the dashboard can distinguish bad requests from platform outages,
// which only a missing service credential (500) signals.
type AdminHandler struct {
	moderation *services.ModerationService
}

func NewAdminHandler(moderation *services.ModerationService) *AdminHandler {
	return &AdminHandler{moderation: moderation}
}

func adminFail(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrNotConfigured) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "service credential not configured"})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.moderation.ListUsers(c.Context())
	if err != nil {
		return adminFail(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

type userStatusReq struct {
	UserID string `json:"user_id"`
	Active bool   `json:"active"`
}

func (h *AdminHandler) SetUserStatus(c *fiber.Ctx) error {
	var req userStatusReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := h.moderation.SetUserActive(c.Context(), req.UserID, req.Active); err != nil {
		return adminFail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

type deleteUserReq struct {
	UserID string `json:"user_id"`
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	var req deleteUserReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := h.moderation.DeleteUser(c.Context(), req.UserID); err != nil {
		return adminFail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *AdminHandler) PendingAds(c *fiber.Ctx) error {
	ads, err := h.moderation.ListPendingAds(c.Context())
	if err != nil {
		return adminFail(c, err)
	}
	return c.JSON(fiber.Map{"ads": ads})
}

func (h *AdminHandler) ApproveAd(c *fiber.Ctx) error {
	if err := h.moderation.ApproveAd(c.Context(), c.Params("id")); err != nil {
		return adminFail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

type removeAdReq struct {
	Reason string `json:"reason"`
}

func (h *AdminHandler) RemoveAd(c *fiber.Ctx) error {
	var req removeAdReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := h.moderation.RemoveAd(c.Context(), c.Params("id"), req.Reason); err != nil {
		return adminFail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
