package server

import (
	"errors"

	"propertyadda/internal/models"
	"propertyadda/internal/session"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "session_id"

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, resource string) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+resource+" ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentSession returns the session attached by AuthRequired. It is nil on
// routes without that middleware.
func currentSession(c *fiber.Ctx) *session.Session {
	if sess, ok := c.Locals("session").(*session.Session); ok {
		return sess
	}
	return nil
}

// AuthRequired enforces a valid session on protected routes and attaches it
// to the request.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := s.sessions.Get(c.UserContext(), c.Cookies(SessionCookie))
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		if sess == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Not authenticated"))
		}
		c.Locals("session", sess)
		c.Locals("userID", sess.UserID)
		return c.Next()
	}
}

// AdminRequired enforces a valid session with the admin role.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := s.sessions.Get(c.UserContext(), c.Cookies(SessionCookie))
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		if sess == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Not authenticated"))
		}
		if sess.Role != models.RoleAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Forbidden"))
		}
		c.Locals("session", sess)
		c.Locals("userID", sess.UserID)
		return c.Next()
	}
}
