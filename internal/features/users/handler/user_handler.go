package handler

import (
	"errors"
	"net/http"

	"fleet-admin/internal/core/httpapi"
	authdomain "fleet-admin/internal/features/auth/domain"
	authhandler "fleet-admin/internal/features/auth/handler"
	"fleet-admin/internal/features/users/domain"
	"fleet-admin/internal/features/users/ports"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user administration.
type UserHandler struct {
	service ports.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(s ports.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// Register mounts the user routes on r, which must already require a session.
func (h *UserHandler) Register(r fiber.Router) {
	r.Use(authhandler.RequireRole(authdomain.ManagersOnly...))

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/:id", h.Get)
	r.Patch("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}

// List handles GET /users.
// @Summary List users
// @Tags Users
// @Produce json
// @Param page query int false "Page number"
// @Param search query string false "Username, name, email or role"
// @Param ordering query string false "date_joined, role or username"
// @Success 200 {object} apiclient.Page[authdomain.User]
// @Failure 403 {object} httpapi.ErrorResponse
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), httpapi.ListQuery(c))
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(page)
}

// Get handles GET /users/{id}.
// @Summary Get user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} authdomain.User
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	u, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(u)
}

// Create handles POST /users.
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Param user body domain.NewUser true "New user"
// @Success 201 {object} authdomain.User
// @Failure 400 {object} httpapi.ErrorResponse
// @Router /users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in domain.NewUser
	if err := c.BodyParser(&in); err != nil {
		return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
	}

	u, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(u)
}

// Update handles PATCH /users/{id}.
// @Summary Update user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body domain.Update true "Fields to change"
// @Success 200 {object} authdomain.User
// @Router /users/{id} [patch]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	var in domain.Update
	if err := c.BodyParser(&in); err != nil {
		return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
	}

	u, err := h.service.Update(c.UserContext(), id, in)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(u)
}

// Delete handles DELETE /users/{id}.
// @Summary Delete user
// @Tags Users
// @Param id path int true "User ID"
// @Success 204
// @Failure 409 {object} httpapi.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	session, ok := authhandler.CurrentSession(c)
	if !ok {
		return httpapi.SessionExpired(c)
	}
	if err := h.service.Delete(c.UserContext(), session.User.ID, id); err != nil {
		if errors.Is(err, domain.ErrSelfDelete) {
			return httpapi.Respond(c, http.StatusConflict, "You cannot delete your own account.")
		}
		return httpapi.Fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
