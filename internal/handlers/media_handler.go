package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/lazarnikolic5396/Razmenime/internal/middleware"
	"github.com/lazarnikolic5396/Razmenime/internal/services"
)

type MediaHandler struct {
	media *services.MediaService
}

func NewMediaHandler(media *services.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// Upload accepts a multipart form with a `file` field. The `kind` query
// parameter routes the object to the ad, chat or profile bucket.
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file field is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable upload"})
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable upload"})
	}

	kind := services.MediaKind(c.Query("kind", string(services.MediaAdImage)))
	res, err := h.media.UploadImage(
		c.Context(),
		middleware.UserID(c),
		kind,
		fh.Filename,
		fh.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *MediaHandler) DownloadURL(c *fiber.Ctx) error {
	kind := services.MediaKind(c.Query("kind", string(services.MediaAdImage)))
	url, err := h.media.DownloadURL(c.Context(), kind, c.Query("key"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}
