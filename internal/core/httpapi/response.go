// Package httpapi holds the response conventions shared by every feature handler.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/core/logger"
	"fleet-admin/internal/core/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LoginRoute is where the UI sends users whose session is gone.
const LoginRoute = "/login"

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the user-facing notification.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
	// Fields carries per-field validation messages.
	Fields validation.Fields `json:"fields,omitempty"`
	// Redirect is set when the UI must navigate, e.g. back to the login screen.
	Redirect string `json:"redirect,omitempty"`
}

// MessageResponse is returned by action endpoints with no resource body.
type MessageResponse struct {
	Message string `json:"message"`
}

// RayID returns the request id set by the requestid middleware.
func RayID(c *fiber.Ctx) string {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return rayID
}

// Respond writes an error body with the given status and message.
func Respond(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{
		Message: msg,
		RayID:   RayID(c),
	})
}

const sessionEndedLocal = "session_ended"

// SessionExpired tells the UI to go back to the login screen and marks the
// request so the session middleware drops the cookie.
func SessionExpired(c *fiber.Ctx) error {
	c.Locals(sessionEndedLocal, true)
	return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
		Message:  apiclient.MsgSessionExpired,
		RayID:    RayID(c),
		Redirect: LoginRoute,
	})
}

// SessionEnded reports whether SessionExpired answered this request.
func SessionEnded(c *fiber.Ctx) bool {
	ended, _ := c.Locals(sessionEndedLocal).(bool)
	return ended
}

// Fail maps a service error to a response. Feature handlers check their own
// sentinel errors first and hand everything else here.
func Fail(c *fiber.Ctx, err error) error {
	rayID := RayID(c)
	log := logger.Get().With(
		zap.String("ray_id", rayID),
		zap.String("path", c.Path()),
	)

	var apiErr *apiclient.APIError

	switch {
	case errors.Is(err, apiclient.ErrSessionExpired), errors.Is(err, apiclient.ErrNoClient):
		log.Info("Session expired, sign-in required", zap.Error(err))
		return SessionExpired(c)

	case errors.As(err, &apiErr):
		status := apiErr.Status
		switch {
		case status == http.StatusUnauthorized:
			// The token was already refreshed once; the session itself stays valid.
			status = http.StatusForbidden
			log.Warn("Backend still rejects refreshed token", zap.Error(err))
		case status >= http.StatusInternalServerError:
			status = http.StatusBadGateway
			log.Error("Backend error", zap.Int("backend_status", apiErr.Status), zap.Error(err))
		default:
			log.Warn("Backend rejected request", zap.Int("backend_status", apiErr.Status), zap.Error(err))
		}
		return c.Status(status).JSON(ErrorResponse{
			Message: apiErr.Notification(),
			RayID:   rayID,
			Fields:  apiErr.Fields,
		})

	case errors.Is(err, validation.ErrInvalid):
		fields, _ := validation.FieldsOf(err)
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: apiclient.MsgFieldErrors,
			RayID:   rayID,
			Fields:  fields,
		})

	case errors.Is(err, apiclient.ErrUnavailable):
		log.Error("Backend unreachable", zap.Error(err))
		return Respond(c, http.StatusServiceUnavailable, apiclient.MsgUnavailable)

	default:
		log.Error("Request failed", zap.Error(err))
		return Respond(c, http.StatusInternalServerError, apiclient.MsgUnexpected)
	}
}

// ParseID reads a positive integer path parameter.
func ParseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &validation.Error{Fields: validation.Fields{name: {"A valid integer is required."}}}
	}
	return id, nil
}

// ListQuery reads page, search and ordering plus the allowed exact-match filters.
func ListQuery(c *fiber.Ctx, filters ...string) apiclient.ListQuery {
	q := apiclient.ListQuery{
		Page:     c.QueryInt("page", 1),
		Search:   strings.TrimSpace(c.Query("search")),
		Ordering: c.Query("ordering"),
	}
	for _, f := range filters {
		if v := c.Query(f); v != "" {
			if q.Filters == nil {
				q.Filters = map[string]string{}
			}
			q.Filters[f] = v
		}
	}
	return q
}
