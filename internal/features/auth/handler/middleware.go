package handler

import (
	"errors"
	"net/http"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/core/httpapi"
	"fleet-admin/internal/core/logger"
	"fleet-admin/internal/features/auth/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionHeader lets non-browser callers pass the session id without a cookie.
const SessionHeader = "X-Session-ID"

const sessionLocal = "session"

// SessionID reads the session identifier from the cookie or the header.
func (h *AuthHandler) SessionID(c *fiber.Ctx) string {
	if id := c.Cookies(h.cookie.Name); id != "" {
		return id
	}
	return c.Get(SessionHeader)
}

// RequireSession rejects requests without a live session. On success the
// session is stored in Locals and its API client bound to the user context.
func (h *AuthHandler) RequireSession(c *fiber.Ctx) error {
	id := h.SessionID(c)

	session, client, err := h.service.Resolve(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			h.clearCookie(c)
			return c.Status(http.StatusUnauthorized).JSON(httpapi.ErrorResponse{
				Message:  "Authentication required.",
				RayID:    httpapi.RayID(c),
				Redirect: httpapi.LoginRoute,
			})
		}
		return httpapi.Fail(c, err)
	}

	SetSession(c, session)
	c.SetUserContext(apiclient.WithClient(c.UserContext(), client))

	err = c.Next()

	// A refresh failure inside the handler has already cleared the store.
	if httpapi.SessionEnded(c) {
		h.clearCookie(c)
	}
	return err
}

// RequireRole allows only the given roles. Must run after RequireSession.
func RequireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := CurrentSession(c)
		if !ok {
			return httpapi.SessionExpired(c)
		}
		if !session.User.HasRole(roles...) {
			logger.ForSession(session.ID).Info("Role not allowed",
				zap.String("role", string(session.User.Role)),
				zap.String("path", c.Path()),
			)
			return httpapi.Respond(c, http.StatusForbidden, domain.DeniedMessage(roles))
		}
		return c.Next()
	}
}

// SetSession stores the session for RequireRole and handlers.
func SetSession(c *fiber.Ctx, s *domain.Session) {
	c.Locals(sessionLocal, s)
}

// CurrentSession returns the session set by RequireSession.
func CurrentSession(c *fiber.Ctx) (*domain.Session, bool) {
	s, ok := c.Locals(sessionLocal).(*domain.Session)
	return s, ok && s != nil
}
