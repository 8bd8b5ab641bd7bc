package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/unityscripts/script-library/docs"
	"github.com/unityscripts/script-library/internal/api/handler"
	"github.com/unityscripts/script-library/internal/api/middleware"
	"github.com/unityscripts/script-library/internal/core/ports"
)

// Dependencies is everything the HTTP layer needs from the rest of the process.
type Dependencies struct {
	Auth    ports.AuthService
	Scripts ports.ScriptService
	Cookie  *middleware.SessionCookie

	// Readiness lists the backends pinged by /health/ready.
	Readiness map[string]handler.PingFunc

	Logger zerolog.Logger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "script_library",
		Registerer: registerer,
	}))
	e.Use(middleware.Session(deps.Auth, deps.Cookie))

	requireAuth := middleware.RequireAuth()

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Cookie, deps.Logger)
	e.POST("/api/login", authHandler.Login)
	e.POST("/api/logout", authHandler.Logout)
	e.GET("/api/user", authHandler.User)

	// --- Script routes ---
	scriptHandler := handler.NewScriptHandler(deps.Scripts)
	scripts := e.Group("/api/scripts")
	scripts.GET("", scriptHandler.List)
	scripts.POST("", scriptHandler.Create, requireAuth)
	scripts.GET("/:id", scriptHandler.Get)
	scripts.DELETE("/:id", scriptHandler.Delete, requireAuth)

	// --- Health checks (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
