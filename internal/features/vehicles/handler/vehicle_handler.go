package handler

import (
	"errors"
	"net/http"

	"fleet-admin/internal/core/httpapi"
	authdomain "fleet-admin/internal/features/auth/domain"
	authhandler "fleet-admin/internal/features/auth/handler"
	"fleet-admin/internal/features/vehicles/domain"
	"fleet-admin/internal/features/vehicles/ports"

	"github.com/gofiber/fiber/v2"
)

// VehicleHandler handles HTTP requests for vehicles.
type VehicleHandler struct {
	service ports.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(s ports.VehicleService) *VehicleHandler {
	return &VehicleHandler{service: s}
}

// Register mounts the vehicle routes on r, which must already require a session.
func (h *VehicleHandler) Register(r fiber.Router) {
	fleet := authhandler.RequireRole(authdomain.ManagersOrDispatch...)

	r.Get("/", fleet, h.List)
	r.Post("/", fleet, h.Create)
	r.Get("/available", fleet, h.Available)
	r.Get("/:id", fleet, h.Get)
	r.Patch("/:id", fleet, h.Update)
	r.Delete("/:id", fleet, h.Delete)
	r.Post("/:id/retire", authhandler.RequireRole(authdomain.ManagersOnly...), h.Retire)
	r.Get("/:id/roi", authhandler.RequireRole(authdomain.ManagersOrAnalysts...), h.ROI)
}

// List handles GET /vehicles.
// @Summary List vehicles
// @Tags Vehicles
// @Produce json
// @Param page query int false "Page number"
// @Param search query string false "Plate, make or model"
// @Param ordering query string false "license_plate, odometer_km or status, prefix - for descending"
// @Param status query string false "available, on_trip, in_shop, retired"
// @Param vehicle_type query string false "truck, van, pickup, tanker, trailer"
// @Success 200 {object} apiclient.Page[domain.Vehicle]
// @Failure 403 {object} httpapi.ErrorResponse
// @Router /vehicles [get]
func (h *VehicleHandler) List(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), httpapi.ListQuery(c, "status", "vehicle_type"))
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(page)
}

// Available handles GET /vehicles/available.
// @Summary Vehicles available for dispatch
// @Tags Vehicles
// @Produce json
// @Success 200 {array} domain.Vehicle
// @Router /vehicles/available [get]
func (h *VehicleHandler) Available(c *fiber.Ctx) error {
	vehicles, err := h.service.Available(c.UserContext())
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(vehicles)
}

// Get handles GET /vehicles/{id}.
// @Summary Get vehicle
// @Tags Vehicles
// @Produce json
// @Param id path int true "Vehicle ID"
// @Success 200 {object} domain.Vehicle
// @Failure 404 {object} httpapi.ErrorResponse
// @Router /vehicles/{id} [get]
func (h *VehicleHandler) Get(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	vehicle, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(vehicle)
}

// Create handles POST /vehicles.
// @Summary Create vehicle
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param vehicle body domain.Input true "Vehicle"
// @Success 201 {object} domain.Vehicle
// @Failure 400 {object} httpapi.ErrorResponse
// @Router /vehicles [post]
func (h *VehicleHandler) Create(c *fiber.Ctx) error {
	var in domain.Input
	if err := c.BodyParser(&in); err != nil {
		return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
	}

	vehicle, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(vehicle)
}

// Update handles PATCH /vehicles/{id}.
// @Summary Update vehicle
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param id path int true "Vehicle ID"
// @Param vehicle body domain.Input true "Fields to change"
// @Success 200 {object} domain.Vehicle
// @Failure 400 {object} httpapi.ErrorResponse
// @Router /vehicles/{id} [patch]
func (h *VehicleHandler) Update(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	var in domain.Input
	if err := c.BodyParser(&in); err != nil {
		return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
	}

	vehicle, err := h.service.Update(c.UserContext(), id, in)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(vehicle)
}

// Delete handles DELETE /vehicles/{id}.
// @Summary Delete vehicle
// @Tags Vehicles
// @Param id path int true "Vehicle ID"
// @Success 204
// @Router /vehicles/{id} [delete]
func (h *VehicleHandler) Delete(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return httpapi.Fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Retire handles POST /vehicles/{id}/retire.
// @Summary Retire vehicle
// @Description Permanently takes a vehicle out of service. Rejected while the vehicle is on a trip.
// @Tags Vehicles
// @Produce json
// @Param id path int true "Vehicle ID"
// @Success 200 {object} domain.Vehicle
// @Failure 409 {object} httpapi.ErrorResponse
// @Router /vehicles/{id}/retire [post]
func (h *VehicleHandler) Retire(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	vehicle, err := h.service.Retire(c.UserContext(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrVehicleOnTrip):
			return httpapi.Respond(c, http.StatusConflict, "Cannot retire a vehicle currently on a trip.")
		case errors.Is(err, domain.ErrAlreadyRetired):
			return httpapi.Respond(c, http.StatusConflict, "Vehicle is already retired.")
		}
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(vehicle)
}

// ROI handles GET /vehicles/{id}/roi.
// @Summary Vehicle ROI report
// @Tags Vehicles
// @Produce json
// @Param id path int true "Vehicle ID"
// @Success 200 {object} domain.ROIReport
// @Failure 403 {object} httpapi.ErrorResponse
// @Router /vehicles/{id}/roi [get]
func (h *VehicleHandler) ROI(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	report, err := h.service.ROI(c.UserContext(), id)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(report)
}
