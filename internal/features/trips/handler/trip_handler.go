package handler

import (
	"errors"
	"net/http"

	"fleet-admin/internal/core/httpapi"
	authdomain "fleet-admin/internal/features/auth/domain"
	authhandler "fleet-admin/internal/features/auth/handler"
	"fleet-admin/internal/features/trips/domain"
	"fleet-admin/internal/features/trips/ports"

	"github.com/gofiber/fiber/v2"
)

// TripView is a trip plus the actions its status allows.
type TripView struct {
	*domain.Trip
	Actions []domain.Action `json:"actions"`
}

func view(t *domain.Trip) TripView {
	actions := domain.Actions(t.Status)
	if actions == nil {
		actions = []domain.Action{}
	}
	return TripView{Trip: t, Actions: actions}
}

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	service ports.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(s ports.TripService) *TripHandler {
	return &TripHandler{service: s}
}

// Register mounts the trip routes on r, which must already require a session.
func (h *TripHandler) Register(r fiber.Router) {
	r.Use(authhandler.RequireRole(authdomain.ManagersOrDispatch...))

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/:id", h.Get)
	r.Patch("/:id", h.Update)
	r.Delete("/:id", h.Delete)
	r.Post("/:id/dispatch", h.Dispatch)
	r.Post("/:id/complete", h.Complete)
	r.Post("/:id/cancel", h.Cancel)
}

// fail maps lifecycle errors before falling back to the shared mapping.
func fail(c *fiber.Ctx, err error) error {
	var te *domain.TransitionError
	switch {
	case errors.As(err, &te):
		return httpapi.Respond(c, http.StatusConflict, te.Message())
	case errors.Is(err, domain.ErrTripClosed):
		return httpapi.Respond(c, http.StatusConflict, "Completed or cancelled trips cannot be edited.")
	case errors.Is(err, domain.ErrTripActive):
		return httpapi.Respond(c, http.StatusConflict, "Only draft or cancelled trips can be deleted.")
	case errors.Is(err, domain.ErrStale):
		return c.Status(http.StatusAccepted).JSON(httpapi.MessageResponse{
			Message: "Trip updated. Reload to see its current state.",
		})
	}
	return httpapi.Fail(c, err)
}

// List handles GET /trips.
// @Summary List trips
// @Tags Trips
// @Produce json
// @Param page query int false "Page number"
// @Param search query string false "Origin, destination or cargo"
// @Param ordering query string false "scheduled_date, status or revenue"
// @Param status query string false "draft, dispatched, completed, cancelled"
// @Param vehicle query int false "Vehicle ID"
// @Param driver query int false "Driver ID"
// @Success 200 {object} apiclient.Page[domain.Trip]
// @Failure 403 {object} httpapi.ErrorResponse
// @Router /trips [get]
func (h *TripHandler) List(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), httpapi.ListQuery(c, "status", "vehicle", "driver"))
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(page)
}

// Get handles GET /trips/{id}.
// @Summary Get trip
// @Tags Trips
// @Produce json
// @Param id path int true "Trip ID"
// @Success 200 {object} TripView
// @Failure 404 {object} httpapi.ErrorResponse
// @Router /trips/{id} [get]
func (h *TripHandler) Get(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	trip, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(view(trip))
}

// Create handles POST /trips.
// @Summary Create draft trip
// @Description Checks vehicle availability, capacity, driver compliance and the date before submitting.
// @Tags Trips
// @Accept json
// @Produce json
// @Param trip body domain.NewTrip true "Trip"
// @Success 201 {object} TripView
// @Failure 400 {object} httpapi.ErrorResponse
// @Router /trips [post]
func (h *TripHandler) Create(c *fiber.Ctx) error {
	var n domain.NewTrip
	if err := c.BodyParser(&n); err != nil {
		return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
	}

	trip, err := h.service.Create(c.UserContext(), n)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(view(trip))
}

// Update handles PATCH /trips/{id}.
// @Summary Update trip notes and figures
// @Tags Trips
// @Accept json
// @Produce json
// @Param id path int true "Trip ID"
// @Param trip body domain.Update true "Fields to change"
// @Success 200 {object} TripView
// @Failure 409 {object} httpapi.ErrorResponse
// @Router /trips/{id} [patch]
func (h *TripHandler) Update(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	var u domain.Update
	if err := c.BodyParser(&u); err != nil {
		return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
	}

	trip, err := h.service.Update(c.UserContext(), id, u)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(view(trip))
}

// Delete handles DELETE /trips/{id}.
// @Summary Delete trip
// @Tags Trips
// @Param id path int true "Trip ID"
// @Success 204
// @Failure 409 {object} httpapi.ErrorResponse
// @Router /trips/{id} [delete]
func (h *TripHandler) Delete(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Dispatch handles POST /trips/{id}/dispatch.
// @Summary Dispatch trip
// @Tags Trips
// @Produce json
// @Param id path int true "Trip ID"
// @Success 200 {object} TripView
// @Failure 409 {object} httpapi.ErrorResponse
// @Router /trips/{id}/dispatch [post]
func (h *TripHandler) Dispatch(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	trip, err := h.service.DispatchByID(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(view(trip))
}

// Complete handles POST /trips/{id}/complete.
// @Summary Complete trip
// @Tags Trips
// @Accept json
// @Produce json
// @Param id path int true "Trip ID"
// @Param figures body domain.CompleteInput false "Final distance and revenue"
// @Success 200 {object} TripView
// @Failure 409 {object} httpapi.ErrorResponse
// @Router /trips/{id}/complete [post]
func (h *TripHandler) Complete(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	var in domain.CompleteInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return httpapi.Respond(c, http.StatusBadRequest, "Invalid request body")
		}
	}

	trip, err := h.service.CompleteByID(c.UserContext(), id, in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(view(trip))
}

// Cancel handles POST /trips/{id}/cancel.
// @Summary Cancel trip
// @Tags Trips
// @Produce json
// @Param id path int true "Trip ID"
// @Success 200 {object} TripView
// @Failure 409 {object} httpapi.ErrorResponse
// @Router /trips/{id}/cancel [post]
func (h *TripHandler) Cancel(c *fiber.Ctx) error {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		return httpapi.Fail(c, err)
	}

	trip, err := h.service.CancelByID(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(view(trip))
}
