package server

import (
	"time"

	"propertyadda/internal/models"
	"propertyadda/internal/session"
	"propertyadda/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/register. On success the created user is
// returned without its password; a duplicate username surfaces as a 400 like
// any other rejected payload.
func (s *Server) Register(c *fiber.Ctx) error {
	var req models.InsertUser
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateInsertUser(req); err != nil {
		return models.RespondWithAppError(c, err)
	}

	user, err := s.store.CreateUser(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /api/login. An unknown username and a wrong password
// produce the same 401 so the response carries no enumeration signal.
func (s *Server) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateLogin(req); err != nil {
		return models.RespondWithAppError(c, err)
	}

	user, err := s.store.GetUserByUsername(c.UserContext(), req.Username)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if user == nil || user.Password != req.Password {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid username or password"))
	}

	token, err := s.sessions.Issue(c.UserContext(), session.Session{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	s.setSessionCookie(c, token, s.sessions.TTL())

	return c.JSON(user)
}

// Logout handles GET /api/logout and destroys the current session.
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.sessions.Destroy(c.UserContext(), c.Cookies(SessionCookie)); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	s.clearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Me handles GET /api/me. A session whose user has disappeared is destroyed
// rather than served.
func (s *Server) Me(c *fiber.Ctx) error {
	sess := currentSession(c)

	user, err := s.store.GetUser(c.UserContext(), sess.UserID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if user == nil {
		_ = s.sessions.Destroy(c.UserContext(), c.Cookies(SessionCookie))
		s.clearSessionCookie(c)
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("User not found"))
	}

	return c.JSON(user)
}

// GetUsers handles GET /api/users (admin only).
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.store.ListUsers(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(users)
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   s.config.IsProduction(),
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
