package handler

import (
	"net/http"

	"fleet-admin/internal/core/httpapi"
	authdomain "fleet-admin/internal/features/auth/domain"
	authhandler "fleet-admin/internal/features/auth/handler"
	"fleet-admin/internal/features/expenses/domain"
	"fleet-admin/internal/features/expenses/ports"

	"github.com/gofiber/fiber/v2"
)

// ExpenseHandler handles HTTP requests for expenses.
type ExpenseHandler struct {
	service ports.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(s ports.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: s}
}

// Register mounts the expense routes on r, which must already require a session.
// Any role may read; writes are for managers and analysts.
func (h *ExpenseHandler) Register(r fiber.Router) {
	write := authhandler.RequireRole(authdomain.ManagersOrAnalysts...)

	r.Get("/", h.List)
	r.Post("/", write, h.Create)
	r.Get("/:id", h.Get)
	r.Patch("/:id", write, h.Update)
	r.Delete("/:id", write, h.Delete)
}

// List handles GET /expenses.
// @Summary List expenses
// @Tags Expenses
// @Produce json
// @Param page query int false "Page number"
// @Param ordering query string false "date, amount or category"
// @Param vehicle query int false "Vehicle ID"
// @Param category query string false "Expense category"
// @Param trip query int false "Trip ID"
// @Success 200 {object} apiclient.Page[domain.Expense]
// @Router /expenses [get]
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), httpapi.ListQuery(c, "vehicle", "category", "trip"))
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(page)
}

// Get handles GET /expenses/{id}.
// @Summary Get expense
// @Tags Expenses
// @Produce json
// @Param id path int true "Expense ID"
// @Success 200 {object} domain.Expense
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) Get(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	e, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(e)
}

// Create handles POST /expenses.
// @Summary Log an expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Param expense body domain.Input true "Expense"
// @Success 201 {object} domain.Expense
// @Failure 400 {object} httpapi.ErrorResponse
// @Failure 403 {object} httpapi.ErrorResponse
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	var in domain.Input
	if err := c.BodyParser(&in); err != nil {
		return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
	}

	e, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(e)
}

// Update handles PATCH /expenses/{id}.
// @Summary Update expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Param id path int true "Expense ID"
// @Param expense body domain.Input true "Fields to change"
// @Success 200 {object} domain.Expense
// @Router /expenses/{id} [patch]
func (h *ExpenseHandler) Update(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	var in domain.Input
	if err := c.BodyParser(&in); err != nil {
		return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
	}

	e, err := h.service.Update(c.UserContext(), id, in)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(e)
}

// Delete handles DELETE /expenses/{id}.
// @Summary Delete expense
// @Tags Expenses
// @Param id path int true "Expense ID"
// @Success 204
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return httpapi.Fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
