package server

import (
	"io"
	"log/slog"

	"nexafolio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Upload accepts a multipart image under the "file" field, converts it
// to webp and returns the public URL it is served from.
func (s *Server) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("file is required"))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("could not read uploaded file"))
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("could not read uploaded file"))
	}

	url, err := s.images.Store(content)
	if err != nil {
		if models.IsValidation(err) {
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		}
		s.log.Error("image store failed", slog.String("error", err.Error()))
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	s.log.Info("image uploaded",
		slog.String("url", url),
		slog.Int("bytes", len(content)))
	return c.JSON(fiber.Map{"url": url})
}
