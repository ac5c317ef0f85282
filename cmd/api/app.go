package main

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/core/cache"
	"fleet-admin/internal/core/config"
	"fleet-admin/internal/core/httpclient"
	"fleet-admin/internal/core/logger"
	"fleet-admin/internal/core/proxy"
	"fleet-admin/internal/core/server"
	authadapter "fleet-admin/internal/features/auth/adapters"
	authhandler "fleet-admin/internal/features/auth/handler"
	authservice "fleet-admin/internal/features/auth/service"
	dashboardadapter "fleet-admin/internal/features/dashboard/adapters"
	dashboardhandler "fleet-admin/internal/features/dashboard/handler"
	dashboardservice "fleet-admin/internal/features/dashboard/service"
	driveradapter "fleet-admin/internal/features/drivers/adapters"
	driverhandler "fleet-admin/internal/features/drivers/handler"
	driverservice "fleet-admin/internal/features/drivers/service"
	expenseadapter "fleet-admin/internal/features/expenses/adapters"
	expensehandler "fleet-admin/internal/features/expenses/handler"
	expenseservice "fleet-admin/internal/features/expenses/service"
	fueladapter "fleet-admin/internal/features/fuel/adapters"
	fuelhandler "fleet-admin/internal/features/fuel/handler"
	fuelservice "fleet-admin/internal/features/fuel/service"
	maintenanceadapter "fleet-admin/internal/features/maintenance/adapters"
	maintenancehandler "fleet-admin/internal/features/maintenance/handler"
	maintenanceservice "fleet-admin/internal/features/maintenance/service"
	tripadapter "fleet-admin/internal/features/trips/adapters"
	triphandler "fleet-admin/internal/features/trips/handler"
	tripservice "fleet-admin/internal/features/trips/service"
	useradapter "fleet-admin/internal/features/users/adapters"
	userhandler "fleet-admin/internal/features/users/handler"
	userservice "fleet-admin/internal/features/users/service"
	vehicleadapter "fleet-admin/internal/features/vehicles/adapters"
	vehiclehandler "fleet-admin/internal/features/vehicles/handler"
	vehicleservice "fleet-admin/internal/features/vehicles/service"

	"github.com/gofiber/fiber/v2"
)

// newApp builds the server with every feature mounted under /api.
func newApp(cfg *config.AppConfig, redisCache cache.Cache) (*server.Server, *authservice.SessionManager) {
	l := logger.Get()

	// One HTTP client and limiter for the whole process; one API client per session.
	proxySettings := proxy.FromConfig(cfg.Proxy)
	httpClient := httpclient.NewClient(cfg.FleetAPI.Timeout(), proxySettings)
	limiter := apiclient.NewLimiter(cfg.FleetAPI.RatePerSecond, cfg.FleetAPI.Burst)

	newClient := func(store apiclient.TokenStore, onExpired func(ctx context.Context, cause error)) *apiclient.Client {
		return apiclient.New(apiclient.Options{
			BaseURL:          cfg.FleetAPI.URL,
			HTTPClient:       httpClient,
			Timeout:          cfg.FleetAPI.Timeout(),
			Limiter:          limiter,
			OnSessionExpired: onExpired,
			Logger:           l,
		}, store)
	}

	// Every REST adapter resolves the session's client from the request context.
	api := apiclient.ContextRequester{}

	// Auth
	sessionStore := authadapter.NewRedisSessionStore(redisCache, cfg.Session.TTL())
	sessions := authservice.NewSessionManager(authadapter.NewRESTBackend(api), sessionStore, newClient)
	authHdl := authhandler.NewAuthHandler(sessions, authhandler.CookieConfig{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL(),
		Secure: cfg.Environment == "production",
	})

	// Fleet resources
	vehicleRepo := vehicleadapter.NewRESTRepository(api)
	driverRepo := driveradapter.NewRESTRepository(api)

	vehicleHdl := vehiclehandler.NewVehicleHandler(vehicleservice.NewVehicleService(vehicleRepo))
	driverHdl := driverhandler.NewDriverHandler(driverservice.NewDriverService(driverRepo))
	tripHdl := triphandler.NewTripHandler(
		tripservice.NewTripController(tripadapter.NewRESTRepository(api), vehicleRepo, driverRepo),
	)
	maintenanceHdl := maintenancehandler.NewMaintenanceHandler(
		maintenanceservice.NewMaintenanceService(maintenanceadapter.NewRESTRepository(api)),
	)
	fuelHdl := fuelhandler.NewFuelHandler(fuelservice.NewFuelService(fueladapter.NewRESTRepository(api)))
	expenseHdl := expensehandler.NewExpenseHandler(expenseservice.NewExpenseService(expenseadapter.NewRESTRepository(api)))
	userHdl := userhandler.NewUserHandler(userservice.NewUserService(useradapter.NewRESTRepository(api)))
	dashboardHdl := dashboardhandler.NewDashboardHandler(dashboardservice.NewDashboardService(
		dashboardadapter.NewRESTSource(api),
		dashboardadapter.NewRedisSnapshotCache(redisCache),
		cfg.DashboardCacheTTL(),
	))

	srv := server.New(cfg, redisCache)

	// Register Routes
	apiGroup := srv.API()
	authHdl.Register(apiGroup.Group("/auth"))

	private := func(prefix string) fiber.Router {
		return apiGroup.Group(prefix, authHdl.RequireSession)
	}
	vehicleHdl.Register(private("/vehicles"))
	driverHdl.Register(private("/drivers"))
	tripHdl.Register(private("/trips"))
	maintenanceHdl.Register(private("/maintenance"))
	fuelHdl.Register(private("/fuel"))
	expenseHdl.Register(private("/expenses"))
	userHdl.Register(private("/users"))
	dashboardHdl.Register(private("/dashboard"))

	return srv, sessions
}
