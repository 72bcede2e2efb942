package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/salvaclients/vet-admin/docs"
	"github.com/salvaclients/vet-admin/internal/api/handler"
	"github.com/salvaclients/vet-admin/internal/api/middleware"
	"github.com/salvaclients/vet-admin/internal/api/view"
	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/core/ports"
	"github.com/salvaclients/vet-admin/internal/infrastructure/http/handlers"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Sessions ports.SessionService
	Records  ports.RecordsService
	// Checks are pinged by /health/ready, keyed by dependency name.
	Checks map[string]handlers.Pinger
	Cookie middleware.SessionConfig
	Log    zerolog.Logger
	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Screen routes come from the access policy table, each behind the guard
// for its feature.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = view.MustNew()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "vetadmin",
		Subsystem:  "http",
		Registerer: deps.Registerer,
		Skipper:    isInfraPath,
	}))

	deps.Cookie.Skipper = isInfraPath
	e.Use(middleware.Session(deps.Sessions, deps.Cookie))
	e.Use(echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
		Skipper: func(c echo.Context) bool {
			return isInfraPath(c) || strings.HasPrefix(c.Path(), "/api/")
		},
		TokenLookup:    "form:_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   deps.Cookie.Secure,
		CookieSameSite: http.SameSiteLaxMode,
	}))

	// --- Probes, metrics, docs (no session) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Session ---
	sessionHandler := handler.NewSessionHandler(deps.Sessions)
	e.GET("/", sessionHandler.Home)
	e.POST("/login", sessionHandler.Login)
	e.POST("/logout", sessionHandler.Logout)
	e.GET("/api/session", sessionHandler.GetSession)
	e.POST("/api/session", sessionHandler.CreateSession)
	e.DELETE("/api/session", sessionHandler.DeleteSession)

	// --- Screens ---
	registerScreens(e, screenRoutes(deps))

	return e
}

// screenRoutes maps each feature of the access policy to the routes that
// implement it.
func screenRoutes(deps Dependencies) map[domain.Feature]func(e *echo.Echo, guard echo.MiddlewareFunc) {
	clients := handler.NewClientHandler(deps.Records)
	services := handler.NewServiceHandler(deps.Records)
	inventory := handler.NewInventoryHandler(deps.Records)
	costs := handler.NewCostHandler(deps.Records)
	users := handler.NewUserHandler(deps.Records)
	password := handler.NewPasswordHandler(deps.Sessions)

	return map[domain.Feature]func(e *echo.Echo, guard echo.MiddlewareFunc){
		domain.FeatureRegisterClient: func(e *echo.Echo, guard echo.MiddlewareFunc) {
			e.POST("/", clients.Register, guard)
		},
		domain.FeatureSearchClients: func(e *echo.Echo, guard echo.MiddlewareFunc) {
			e.GET("/search", clients.Search, guard)
		},
		domain.FeatureClientProfile: func(e *echo.Echo, guard echo.MiddlewareFunc) {
			e.GET("/clients/:id", clients.Profile, guard)
			e.POST("/clients/:id", clients.Update, guard)
		},
		domain.FeatureServices: func(e *echo.Echo, guard echo.MiddlewareFunc) {
			e.GET("/services", services.List, guard)
			e.POST("/services", services.Create, guard)
			e.POST("/services/:id", services.Update, guard)
			e.POST("/services/:id/delete", services.Delete, guard)
		},
		domain.FeatureInventory: func(e *echo.Echo, guard echo.MiddlewareFunc) {
			e.GET("/inventory", inventory.Show, guard)
			e.POST("/inventory/products", inventory.CreateProduct, guard)
			e.POST("/inventory/products/:id", inventory.UpdateProduct, guard)
			e.POST("/inventory/products/:id/delete", inventory.DeleteProduct, guard)
			e.POST("/inventory/movements", inventory.RecordMovement, guard)
		},
		domain.FeatureCosts: func(e *echo.Echo, guard echo.MiddlewareFunc) {
			e.GET("/costs", costs.Show, guard)
			e.POST("/costs", costs.Create, guard)
			e.POST("/costs/:id", costs.Update, guard)
			e.POST("/costs/:id/delete", costs.Delete, guard)
		},
		domain.FeatureUsers: func(e *echo.Echo, guard echo.MiddlewareFunc) {
			e.GET("/users", users.List, guard)
			e.POST("/users", users.Create, guard)
			e.POST("/users/:id", users.Update, guard)
			e.POST("/users/:id/toggle", users.Toggle, guard)
			e.POST("/users/:id/delete", users.Delete, guard)
		},
		domain.FeatureChangePassword: func(e *echo.Echo, guard echo.MiddlewareFunc) {
			e.GET("/change-password", password.Form, guard)
			e.POST("/change-password", password.Change, guard)
		},
	}
}

// registerScreens walks the access policy in order. A feature without routes
// is a wiring bug and stops startup.
func registerScreens(e *echo.Echo, routes map[domain.Feature]func(e *echo.Echo, guard echo.MiddlewareFunc)) {
	for _, entry := range domain.AccessPolicy() {
		register, ok := routes[entry.Feature]
		if !ok {
			panic("api: no routes for feature " + string(entry.Feature))
		}
		register(e, middleware.RequireFeature(entry.Feature))
	}
}

func isInfraPath(c echo.Context) bool {
	p := c.Path()
	return p == "/health" || p == "/health/ready" || p == "/metrics" || strings.HasPrefix(p, "/swagger")
}

// requestLogger logs one zerolog line per request and puts a request-scoped
// logger on the request context for handlers.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	logValues := echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return logValues(func(c echo.Context) error {
			reqLog := log.With().Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).Logger()
			c.SetRequest(c.Request().WithContext(reqLog.WithContext(c.Request().Context())))
			return next(c)
		})
	}
}
