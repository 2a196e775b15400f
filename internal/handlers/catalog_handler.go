package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lazarnikolic5396/Razmenime/internal/services"
)

type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.catalog.Categories(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"categories": cats})
}

func (h *CatalogHandler) Location(c *fiber.Ctx) error {
	loc, err := h.catalog.Location(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(loc)
}

// MapLocations backs the map view on the landing page.
func (h *CatalogHandler) MapLocations(c *fiber.Ctx) error {
	locs, err := h.catalog.ActiveAdLocations(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"locations": locs})
}
