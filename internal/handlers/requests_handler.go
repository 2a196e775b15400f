package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lazarnikolic5396/Razmenime/internal/middleware"
	"github.com/lazarnikolic5396/Razmenime/internal/services"
)

type RequestsHandler struct {
	donations *services.DonationService
}

func NewRequestsHandler(donations *services.DonationService) *RequestsHandler {
	return &RequestsHandler{donations: donations}
}

func (h *RequestsHandler) Create(c *fiber.Ctx) error {
	var in services.CreateDonationRequestInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	req, err := h.donations.Create(c.Context(), middleware.Profile(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}

func (h *RequestsHandler) List(c *fiber.Ctx) error {
	reqs, err := h.donations.ListBoard(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"requests": reqs})
}

func (h *RequestsHandler) Mine(c *fiber.Ctx) error {
	reqs, err := h.donations.ListByRequester(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"requests": reqs})
}

func (h *RequestsHandler) Delete(c *fiber.Ctx) error {
	if err := h.donations.Remove(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
