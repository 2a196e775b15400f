package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/lazarnikolic5396/Razmenime/internal/middleware"
	"github.com/lazarnikolic5396/Razmenime/internal/models"
	"github.com/lazarnikolic5396/Razmenime/internal/services"
)

type AdsHandler struct {
	ads *services.AdService
}

func NewAdsHandler(ads *services.AdService) *AdsHandler {
	return &AdsHandler{ads: ads}
}

func (h *AdsHandler) Create(c *fiber.Ctx) error {
	var in services.CreateAdInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	ad, err := h.ads.Create(c.Context(), middleware.Profile(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ad)
}

// List serves the public marketplace feed, active ads only.
func (h *AdsHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)
	ads, err := h.ads.ListActive(c.Context(), c.Query("category_id"), c.Query("search"), limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ads": ads})
}

func (h *AdsHandler) Mine(c *fiber.Ctx) error {
	ads, err := h.ads.ListByOwner(c.Context(), middleware.UserID(c), models.AdStatus(c.Query("status")))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ads": ads})
}

func (h *AdsHandler) Get(c *fiber.Ctx) error {
	ad, err := h.ads.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ad)
}

func (h *AdsHandler) Update(c *fiber.Ctx) error {
	var in services.CreateAdInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := h.ads.Update(c.Context(), middleware.UserID(c), c.Params("id"), in); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *AdsHandler) Delete(c *fiber.Ctx) error {
	if err := h.ads.Delete(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
