package server

import (
	"log/slog"

	"nexafolio/internal/models"
	"nexafolio/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type createMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// CreateMessage accepts a contact-form submission. This is the one
// write endpoint open to anonymous visitors, so it is rate limited at
// the route.
func (s *Server) CreateMessage(c *fiber.Ctx) error {
	var req createMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("name is required"))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if req.Message == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("message is required"))
	}

	msg := &models.Message{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}

	if err := s.messageRepo.Create(c.Context(), msg); err != nil {
		return models.RespondWithStoreError(c, err)
	}

	s.log.Info("contact message received", slog.Uint64("message_id", uint64(msg.ID)))
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// ListMessages returns all contact messages, newest first.
func (s *Server) ListMessages(c *fiber.Ctx) error {
	messages, err := s.messageRepo.List(c.Context())
	if err != nil {
		return models.RespondWithStoreError(c, err)
	}
	return c.JSON(messages)
}

// DeleteMessage removes a message by ID.
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.messageRepo.Delete(c.Context(), id); err != nil {
		return models.RespondWithStoreError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
