package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/fanmerch/storefront/docs"
	"github.com/fanmerch/storefront/internal/api/handler"
	"github.com/fanmerch/storefront/internal/api/metrics"
	"github.com/fanmerch/storefront/internal/api/middleware"
	"github.com/fanmerch/storefront/internal/core/ports"
)

// Dependencies are the services and settings the router wires into handlers.
type Dependencies struct {
	Auth          ports.AuthService
	Wishlist      ports.WishlistService
	Subscriptions ports.SubscriptionService

	// AdminEmails may call /api/admin/*.
	AdminEmails []string
	// Checks are run by the readiness probe, keyed by dependency name.
	Checks map[string]handler.Check

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Every router owns its Prometheus registry.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "storefront",
		Registerer: reg,
	}))

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authHandler := handler.NewAuthHandler(deps.Auth, m)
	wishlistHandler := handler.NewWishlistHandler(deps.Wishlist, m)
	subscriptionHandler := handler.NewSubscriptionHandler(deps.Subscriptions, m)
	adminHandler := handler.NewAdminHandler(deps.Auth, deps.Subscriptions)
	healthHandler := handler.NewHealthHandler(deps.Checks)

	requireAuth := middleware.Auth(deps.Auth)

	g := e.Group("/api")

	// --- Health probes (no auth required) ---
	g.GET("/health", healthHandler.Liveness)
	g.GET("/health/ready", healthHandler.Readiness)

	// --- Auth routes ---
	auth := g.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, requireAuth)
	auth.PUT("/profile", authHandler.UpdateProfile, requireAuth)

	// --- Wishlist routes ---
	wishlist := g.Group("/wishlist", requireAuth)
	wishlist.GET("", wishlistHandler.List)
	wishlist.POST("", wishlistHandler.Add)
	wishlist.POST("/move-to-cart", wishlistHandler.MoveToCart)
	wishlist.DELETE("/:productId", wishlistHandler.Remove)

	// --- Newsletter routes ---
	g.POST("/subscribe", subscriptionHandler.Subscribe, requireAuth)
	g.DELETE("/subscribe", subscriptionHandler.Unsubscribe, requireAuth)

	// --- Admin routes ---
	admin := g.Group("/admin", requireAuth, middleware.AdminOnly(deps.AdminEmails...))
	admin.GET("/users", adminHandler.Users)
	admin.GET("/subscriptions", adminHandler.Subscriptions)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
