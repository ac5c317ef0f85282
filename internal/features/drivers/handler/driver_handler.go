package handler

import (
	"errors"
	"net/http"

	"fleet-admin/internal/core/httpapi"
	authdomain "fleet-admin/internal/features/auth/domain"
	authhandler "fleet-admin/internal/features/auth/handler"
	"fleet-admin/internal/features/drivers/domain"
	"fleet-admin/internal/features/drivers/ports"

	"github.com/gofiber/fiber/v2"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	service ports.DriverService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(s ports.DriverService) *DriverHandler {
	return &DriverHandler{service: s}
}

// Register mounts the driver routes on r, which must already require a session.
// Reads are open to every role.
func (h *DriverHandler) Register(r fiber.Router) {
	safety := authhandler.RequireRole(authdomain.ManagersOrSafety...)

	r.Get("/", h.List)
	r.Post("/", safety, h.Create)
	r.Get("/available", h.Available)
	r.Get("/compliance-alerts", safety, h.ComplianceAlerts)
	r.Get("/:id", h.Get)
	r.Patch("/:id", safety, h.Update)
	r.Delete("/:id", safety, h.Delete)
	r.Post("/:id/suspend", safety, h.Suspend)
	r.Post("/:id/reinstate", safety, h.Reinstate)
}

// List handles GET /drivers.
// @Summary List drivers
// @Tags Drivers
// @Produce json
// @Param page query int false "Page number"
// @Param search query string false "Name, license number or phone"
// @Param ordering query string false "last_name, status or license_expiry"
// @Param status query string false "off_duty, on_duty, suspended"
// @Success 200 {object} apiclient.Page[domain.Driver]
// @Router /drivers [get]
func (h *DriverHandler) List(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), httpapi.ListQuery(c, "status"))
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(page)
}

// Available handles GET /drivers/available.
// @Summary Drivers available for dispatch
// @Description Off-duty drivers with a valid license. Empty when the role may not read drivers.
// @Tags Drivers
// @Produce json
// @Success 200 {array} domain.Driver
// @Router /drivers/available [get]
func (h *DriverHandler) Available(c *fiber.Ctx) error {
	drivers, err := h.service.Available(c.UserContext())
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(drivers)
}

// ComplianceAlerts handles GET /drivers/compliance-alerts.
// @Summary Driver compliance alerts
// @Tags Drivers
// @Produce json
// @Success 200 {object} domain.ComplianceAlerts
// @Failure 403 {object} httpapi.ErrorResponse
// @Router /drivers/compliance-alerts [get]
func (h *DriverHandler) ComplianceAlerts(c *fiber.Ctx) error {
	alerts, err := h.service.ComplianceAlerts(c.UserContext())
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(alerts)
}

// Get handles GET /drivers/{id}.
// @Summary Get driver
// @Tags Drivers
// @Produce json
// @Param id path int true "Driver ID"
// @Success 200 {object} domain.Driver
// @Failure 404 {object} httpapi.ErrorResponse
// @Router /drivers/{id} [get]
func (h *DriverHandler) Get(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	driver, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(driver)
}

// Create handles POST /drivers.
// @Summary Create driver
// @Tags Drivers
// @Accept json
// @Produce json
// @Param driver body domain.Input true "Driver"
// @Success 201 {object} domain.Driver
// @Failure 400 {object} httpapi.ErrorResponse
// @Router /drivers [post]
func (h *DriverHandler) Create(c *fiber.Ctx) error {
	var in domain.Input
	if err := c.BodyParser(&in); err != nil {
		return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
	}

	driver, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(driver)
}

// Update handles PATCH /drivers/{id}.
// @Summary Update driver
// @Tags Drivers
// @Accept json
// @Produce json
// @Param id path int true "Driver ID"
// @Param driver body domain.Input true "Fields to change"
// @Success 200 {object} domain.Driver
// @Failure 400 {object} httpapi.ErrorResponse
// @Router /drivers/{id} [patch]
func (h *DriverHandler) Update(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	var in domain.Input
	if err := c.BodyParser(&in); err != nil {
		return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
	}

	driver, err := h.service.Update(c.UserContext(), id, in)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(driver)
}

// Delete handles DELETE /drivers/{id}.
// @Summary Delete driver
// @Tags Drivers
// @Param id path int true "Driver ID"
// @Success 204
// @Router /drivers/{id} [delete]
func (h *DriverHandler) Delete(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return httpapi.Fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Suspend handles POST /drivers/{id}/suspend.
// @Summary Suspend driver
// @Tags Drivers
// @Produce json
// @Param id path int true "Driver ID"
// @Success 200 {object} domain.Driver
// @Failure 409 {object} httpapi.ErrorResponse
// @Router /drivers/{id}/suspend [post]
func (h *DriverHandler) Suspend(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	driver, err := h.service.Suspend(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, domain.ErrDriverOnDuty) {
			return httpapi.Respond(c, http.StatusConflict, "Cannot suspend a driver currently on duty.")
		}
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(driver)
}

// Reinstate handles POST /drivers/{id}/reinstate.
// @Summary Reinstate driver
// @Tags Drivers
// @Produce json
// @Param id path int true "Driver ID"
// @Success 200 {object} domain.Driver
// @Router /drivers/{id}/reinstate [post]
func (h *DriverHandler) Reinstate(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	driver, err := h.service.Reinstate(c.UserContext(), id)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(driver)
}
