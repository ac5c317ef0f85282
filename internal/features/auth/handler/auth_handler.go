package handler

import (
	"errors"
	"net/http"
	"time"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/core/httpapi"
	"fleet-admin/internal/features/auth/domain"
	"fleet-admin/internal/features/auth/ports"

	"github.com/gofiber/fiber/v2"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// AuthHandler handles HTTP requests for sign-in, sign-out and the user's own profile.
type AuthHandler struct {
	service ports.SessionService
	cookie  CookieConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(s ports.SessionService, cookie CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "fleet_session"
	}
	return &AuthHandler{
		service: s,
		cookie:  cookie,
	}
}

// Register mounts the auth routes on r.
func (h *AuthHandler) Register(r fiber.Router) {
	r.Post("/login", h.Login)
	r.Post("/register", h.SignUp)
	r.Post("/logout", h.Logout)
	r.Get("/session", h.Session)

	r.Get("/me", h.RequireSession, h.Me)
	r.Patch("/me", h.RequireSession, h.UpdateMe)
	r.Post("/change-password", h.RequireSession, h.ChangePassword)
}

// Login handles POST /auth/login.
// @Summary Sign in
// @Description Authenticates against the fleet backend and opens a session. The session id is returned in the body and as a cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body domain.Credentials true "Username and password"
// @Success 200 {object} domain.Session
// @Failure 400 {object} httpapi.ErrorResponse
// @Failure 401 {object} httpapi.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var creds domain.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
	}

	session, err := h.service.Login(c.UserContext(), creds)
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return httpapi.Respond(c, http.StatusUnauthorized, apiErr.Notification())
		}
		return httpapi.Fail(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    session.ID,
		Path:     "/",
		Expires:  time.Now().Add(h.cookie.TTL),
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(http.StatusOK).JSON(session)
}

// SignUp handles POST /auth/register.
// @Summary Register an account
// @Description Creates a user. Driver accounts also need a license number and expiry. Does not sign in.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registration body domain.Registration true "Account details"
// @Success 201 {object} domain.User
// @Failure 400 {object} httpapi.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var reg domain.Registration
	if err := c.BodyParser(&reg); err != nil {
		return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
	}

	user, err := h.service.Register(c.UserContext(), reg)
	if err != nil {
		return httpapi.Fail(c, err)
	}

	return c.Status(http.StatusCreated).JSON(user)
}

// Logout handles POST /auth/logout.
// @Summary Sign out
// @Description Blacklists the refresh token on the backend and always clears the local session.
// @Tags Auth
// @Produce json
// @Success 200 {object} httpapi.MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if id := h.SessionID(c); id != "" {
		if err := h.service.Logout(c.UserContext(), id); err != nil {
			return httpapi.Fail(c, err)
		}
	}

	h.clearCookie(c)
	return c.Status(http.StatusOK).JSON(httpapi.MessageResponse{Message: "Logged out successfully."})
}

// Session handles GET /auth/session.
// @Summary Current session
// @Description Returns the signed-in user and the access token expiry hint.
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.Session
// @Failure 401 {object} httpapi.ErrorResponse
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	session, err := h.service.Describe(c.UserContext(), h.SessionID(c))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			h.clearCookie(c)
			return httpapi.SessionExpired(c)
		}
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(session)
}

// Me handles GET /auth/me.
// @Summary Own profile
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} httpapi.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	session, _ := CurrentSession(c)

	user, err := h.service.Me(c.UserContext(), session.ID)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(user)
}

// UpdateMe handles PATCH /auth/me.
// @Summary Update own profile
// @Tags Auth
// @Accept json
// @Produce json
// @Param profile body domain.ProfileUpdate true "Fields to change"
// @Success 200 {object} domain.User
// @Failure 400 {object} httpapi.ErrorResponse
// @Router /auth/me [patch]
func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	session, _ := CurrentSession(c)

	var upd domain.ProfileUpdate
	if err := c.BodyParser(&upd); err != nil {
		return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
	}

	user, err := h.service.UpdateMe(c.UserContext(), session.ID, upd)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(user)
}

// ChangePassword handles POST /auth/change-password.
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Param passwords body domain.PasswordChange true "Old and new password"
// @Success 200 {object} httpapi.MessageResponse
// @Failure 400 {object} httpapi.ErrorResponse
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var pc domain.PasswordChange
	if err := c.BodyParser(&pc); err != nil {
		return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := h.service.ChangePassword(c.UserContext(), pc); err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(httpapi.MessageResponse{Message: "Password changed successfully."})
}

func (h *AuthHandler) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
