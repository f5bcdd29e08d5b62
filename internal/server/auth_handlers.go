package server

import (
	"log/slog"
	"time"

	"nexafolio/internal/auth"
	"nexafolio/internal/models"

	"github.com/gofiber/fiber/v2"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login verifies credentials, issues a session token and sets it as an
// HTTP-only cookie. Unknown username and wrong password are
// indistinguishable to the caller.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username and password are required"))
	}

	user, err := s.userRepo.GetByUsername(c.Context(), req.Username)
	if err != nil {
		s.log.Error("login user lookup failed", slog.String("error", err.Error()))
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if user == nil || !auth.VerifyPassword(req.Password, user.Password) {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.log.Error("token issue failed", slog.String("error", err.Error()))
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	s.setSessionCookie(c, token, s.config.SessionTTL())

	s.log.Info("user logged in",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("username", user.Username))

	return c.JSON(userResponse{ID: user.ID, Username: user.Username, Role: user.Role})
}

// Logout clears the session cookie. The token itself simply expires.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.setSessionCookie(c, "", -time.Hour)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Me returns the authenticated user resolved by the auth middleware.
func (s *Server) Me(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Unauthorized"))
	}
	return c.JSON(userResponse{ID: user.ID, Username: user.Username, Role: user.Role})
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		Secure:   s.config.Env == "production",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
