package handler

import (
	"net/http"

	"fleet-admin/internal/core/httpapi"
	"fleet-admin/internal/features/dashboard/ports"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves the KPI dashboard.
type DashboardHandler struct {
	service ports.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(s ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// Register mounts the dashboard route on r, which must already require a session.
func (h *DashboardHandler) Register(r fiber.Router) {
	r.Get("/", h.Get)
}

// Get handles GET /dashboard.
// @Summary Dashboard KPIs
// @Description Fleet, trip, driver and financial summary with header alerts.
// @Tags Dashboard
// @Produce json
// @Param refresh query bool false "Skip the shared snapshot"
// @Success 200 {object} domain.Snapshot
// @Failure 401 {object} httpapi.ErrorResponse
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	snap, err := h.service.Snapshot(c.UserContext(), c.QueryBool("refresh"))
	if err != nil {
		return httpapi.Fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(snap)
}
