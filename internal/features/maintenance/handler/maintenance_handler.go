package handler

import (
	"errors"
	"net/http"

	"fleet-admin/internal/core/httpapi"
	authdomain "fleet-admin/internal/features/auth/domain"
	authhandler "fleet-admin/internal/features/auth/handler"
	"fleet-admin/internal/features/maintenance/domain"
	"fleet-admin/internal/features/maintenance/ports"

	"github.com/gofiber/fiber/v2"
)

// MaintenanceHandler handles HTTP requests for maintenance records.
type MaintenanceHandler struct {
	service ports.MaintenanceService
}

// NewMaintenanceHandler creates a new MaintenanceHandler.
func NewMaintenanceHandler(s ports.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{service: s}
}

// Register mounts the maintenance routes on r, which must already require a session.
func (h *MaintenanceHandler) Register(r fiber.Router) {
	r.Use(authhandler.RequireRole(authdomain.ManagersOrSafety...))

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/:id", h.Get)
	r.Patch("/:id", h.Update)
	r.Delete("/:id", h.Delete)
	r.Post("/:id/complete", h.Complete)
}

// List handles GET /maintenance.
// @Summary List maintenance records
// @Tags Maintenance
// @Produce json
// @Param page query int false "Page number"
// @Param ordering query string false "start_date, cost or status"
// @Param vehicle query int false "Vehicle ID"
// @Param status query string false "pending, in_progress, completed"
// @Param maintenance_type query string false "Maintenance type"
// @Success 200 {object} apiclient.Page[domain.Record]
// @Router /maintenance [get]
func (h *MaintenanceHandler) List(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), httpapi.ListQuery(c, "vehicle", "status", "maintenance_type"))
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(page)
}

// Get handles GET /maintenance/{id}.
// @Summary Get maintenance record
// @Tags Maintenance
// @Produce json
// @Param id path int true "Record ID"
// @Success 200 {object} domain.Record
// @Router /maintenance/{id} [get]
func (h *MaintenanceHandler) Get(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	record, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(record)
}

// Create handles POST /maintenance.
// @Summary Open maintenance job
// @Description Sends the vehicle to the shop.
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param record body domain.Input true "Maintenance job"
// @Success 201 {object} domain.Record
// @Failure 400 {object} httpapi.ErrorResponse
// @Router /maintenance [post]
func (h *MaintenanceHandler) Create(c *fiber.Ctx) error {
	var in domain.Input
	if err := c.BodyParser(&in); err != nil {
		return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
	}

	record, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(record)
}

// Update handles PATCH /maintenance/{id}.
// @Summary Update maintenance record
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param id path int true "Record ID"
// @Param record body domain.Input true "Fields to change"
// @Success 200 {object} domain.Record
// @Router /maintenance/{id} [patch]
func (h *MaintenanceHandler) Update(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	var in domain.Input
	if err := c.BodyParser(&in); err != nil {
		return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
	}

	record, err := h.service.Update(c.UserContext(), id, in)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(record)
}

// Delete handles DELETE /maintenance/{id}.
// @Summary Delete maintenance record
// @Tags Maintenance
// @Param id path int true "Record ID"
// @Success 204
// @Router /maintenance/{id} [delete]
func (h *MaintenanceHandler) Delete(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return httpapi.Fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Complete handles POST /maintenance/{id}/complete.
// @Summary Complete maintenance job
// @Description Returns the vehicle to the fleet.
// @Tags Maintenance
// @Produce json
// @Param id path int true "Record ID"
// @Success 200 {object} domain.Record
// @Failure 409 {object} httpapi.ErrorResponse
// @Router /maintenance/{id}/complete [post]
func (h *MaintenanceHandler) Complete(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	record, err := h.service.Complete(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyCompleted) {
			return httpapi.Respond(c, http.StatusConflict, "Maintenance is already completed.")
		}
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(record)
}
