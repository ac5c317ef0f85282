package handler

import (
	"net/http"

	"fleet-admin/internal/core/httpapi"
	authdomain "fleet-admin/internal/features/auth/domain"
	authhandler "fleet-admin/internal/features/auth/handler"
	"fleet-admin/internal/features/fuel/domain"
	"fleet-admin/internal/features/fuel/ports"

	"github.com/gofiber/fiber/v2"
)

// FuelHandler handles HTTP requests for fuel logs.
type FuelHandler struct {
	service ports.FuelService
}

// NewFuelHandler creates a new FuelHandler.
func NewFuelHandler(s ports.FuelService) *FuelHandler {
	return &FuelHandler{service: s}
}

// Register mounts the fuel routes on r, which must already require a session.
func (h *FuelHandler) Register(r fiber.Router) {
	logs := authhandler.RequireRole(authdomain.ManagersOrDispatch...)

	r.Get("/efficiency", authhandler.RequireRole(authdomain.ManagersOrAnalysts...), h.Efficiency)
	r.Post("/estimate", logs, h.Estimate)
	r.Get("/", logs, h.List)
	r.Post("/", logs, h.Create)
	r.Get("/:id", logs, h.Get)
	r.Patch("/:id", logs, h.Update)
	r.Delete("/:id", logs, h.Delete)
}

// List handles GET /fuel.
// @Summary List fuel logs
// @Tags Fuel
// @Produce json
// @Param page query int false "Page number"
// @Param ordering query string false "date, total_cost or liters"
// @Param vehicle query int false "Vehicle ID"
// @Param trip query int false "Trip ID"
// @Success 200 {object} apiclient.Page[domain.Log]
// @Router /fuel [get]
func (h *FuelHandler) List(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), httpapi.ListQuery(c, "vehicle", "trip"))
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(page)
}

// Get handles GET /fuel/{id}.
// @Summary Get fuel log
// @Tags Fuel
// @Produce json
// @Param id path int true "Fuel log ID"
// @Success 200 {object} domain.Log
// @Router /fuel/{id} [get]
func (h *FuelHandler) Get(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	entry, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(entry)
}

// Create handles POST /fuel.
// @Summary Log a fill-up
// @Tags Fuel
// @Accept json
// @Produce json
// @Param log body domain.Input true "Fill-up"
// @Success 201 {object} domain.Log
// @Failure 400 {object} httpapi.ErrorResponse
// @Router /fuel [post]
func (h *FuelHandler) Create(c *fiber.Ctx) error {
	var in domain.Input
	if err := c.BodyParser(&in); err != nil {
		return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
	}

	entry, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(entry)
}

// Update handles PATCH /fuel/{id}.
// @Summary Update fuel log
// @Tags Fuel
// @Accept json
// @Produce json
// @Param id path int true "Fuel log ID"
// @Param log body domain.Input true "Fields to change"
// @Success 200 {object} domain.Log
// @Router /fuel/{id} [patch]
func (h *FuelHandler) Update(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	var in domain.Input
	if err := c.BodyParser(&in); err != nil {
		return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
	}

	entry, err := h.service.Update(c.UserContext(), id, in)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(entry)
}

// Delete handles DELETE /fuel/{id}.
// @Summary Delete fuel log
// @Tags Fuel
// @Param id path int true "Fuel log ID"
// @Success 204
// @Router /fuel/{id} [delete]
func (h *FuelHandler) Delete(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return httpapi.Fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Efficiency handles GET /fuel/efficiency.
// @Summary Fuel efficiency per vehicle
// @Tags Fuel
// @Produce json
// @Success 200 {array} domain.Efficiency
// @Router /fuel/efficiency [get]
func (h *FuelHandler) Efficiency(c *fiber.Ctx) error {
	rows, err := h.service.Efficiency(c.UserContext())
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(rows)
}

// Estimate handles POST /fuel/estimate.
// @Summary Preview fill-up cost
// @Tags Fuel
// @Accept json
// @Produce json
// @Param log body domain.Input true "Liters and price"
// @Success 200 {object} domain.Estimate
// @Failure 400 {object} httpapi.ErrorResponse
// @Router /fuel/estimate [post]
func (h *FuelHandler) Estimate(c *fiber.Ctx) error {
	var in domain.Input
	if err := c.BodyParser(&in); err != nil {
		return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
	}

	est, err := h.service.Estimate(in)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(est)
}
