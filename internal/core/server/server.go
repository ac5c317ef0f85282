package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fleet-admin/internal/core/config"
	"fleet-admin/internal/core/httpapi"
	"fleet-admin/internal/core/logger"
	"fleet-admin/internal/core/metrics"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "fleet-admin/docs/swagger"
)

// healthTimeout bounds the dependency check behind /healthz.
const healthTimeout = 2 * time.Second

// Pinger is a dependency the health check probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg *config.AppConfig
	// health is probed by /healthz; nil reports healthy.
	health Pinger
}

// New creates a new Server instance with configured middleware.
func New(cfg *config.AppConfig, health Pinger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "fleet-admin",
		ErrorHandler:          errorHandler,
	})

	app.Use(requestid.New(requestid.Config{
		Header: "X-Ray-ID",
	}))

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
	}))

	app.Use(recover.New())

	s := &Server{
		App:    app,
		cfg:    cfg,
		health: health,
	}

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	app.Get("/healthz", s.healthz)

	return s
}

// API returns the group every backend-facing route is mounted under.
func (s *Server) API() fiber.Router {
	return s.App.Group("/api")
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.App.ShutdownWithContext(ctx)
}

// healthz handles GET /healthz.
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} httpapi.MessageResponse
// @Failure 503 {object} httpapi.ErrorResponse
// @Router /healthz [get]
func (s *Server) healthz(c *fiber.Ctx) error {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			logger.Get().Warn("Health check failed", zap.Error(err))
			return httpapi.Respond(c, http.StatusServiceUnavailable, "Session storage unavailable")
		}
	}
	return c.Status(http.StatusOK).JSON(httpapi.MessageResponse{Message: "ok"})
}

// errorHandler renders errors that escape handlers, such as unknown routes,
// in the same shape as handler errors.
func errorHandler(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	msg := "An unexpected error occurred. Please try again."

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		msg = fe.Message
	} else {
		logger.Get().Error("Unhandled error",
			zap.String("path", c.Path()),
			zap.String("ray_id", httpapi.RayID(c)),
			zap.Error(err),
		)
	}
	return httpapi.Respond(c, status, msg)
}
