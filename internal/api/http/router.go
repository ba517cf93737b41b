package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/stringing-service/internal/api/http/handlers"
	"github.com/spec-kit/stringing-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Stringings     *handlers.StringingsHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/me", cfg.Users.Me)
	users.Put("/me", cfg.Users.UpdateMe)
	users.Get("/stringers", cfg.Users.ListStringers)

	stringings := app.Group("/stringings", cfg.AuthMiddleware.Handle)
	stringings.Post("", cfg.Stringings.CreateStringing)
	stringings.Get("", cfg.Stringings.ListStringings)
	stringings.Get("/:id", cfg.Stringings.GetStringing)
	stringings.Patch("/:id", cfg.Stringings.UpdateStringing)

	analytics := app.Group("/analytics", cfg.AuthMiddleware.Handle)
	analytics.Get("/me", cfg.Analytics.Get)
	analytics.Post("/me/refresh", cfg.Analytics.Refresh)
}
