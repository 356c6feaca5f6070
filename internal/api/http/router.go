package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-mesh/internal/api/http/handlers"
	"github.com/spec-kit/auth-mesh/internal/auth"
)

func registerHealthRoutes(app *fiber.App, health *handlers.HealthHandler) {
	app.Get("/", health.Index)
	app.Get("/health/live", health.Live)
	app.Get("/health/ready", health.Ready)
	app.Get("/metrics", health.Metrics)
}

// AuthRouteConfig bundles dependencies for the authentication service.
type AuthRouteConfig struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
}

// RegisterAuthRoutes wires the authentication service routes.
func RegisterAuthRoutes(app *fiber.App, cfg AuthRouteConfig) {
	registerHealthRoutes(app, cfg.Health)

	app.Post("/register", cfg.Auth.Register)
	app.Post("/login", cfg.Auth.Login)
	app.Post("/validate", cfg.Auth.Validate)
}

// ProfileRouteConfig bundles dependencies for the profile service.
type ProfileRouteConfig struct {
	Health         *handlers.HealthHandler
	Profiles       *handlers.ProfileHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterProfileRoutes wires the profile service routes. Every /users route
// requires a valid token; mutations of a single profile also require that the
// caller owns it.
func RegisterProfileRoutes(app *fiber.App, cfg ProfileRouteConfig) {
	registerHealthRoutes(app, cfg.Health)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("", cfg.Profiles.List)
	users.Post("", cfg.Profiles.Create)
	users.Get("/:id", cfg.Profiles.Get)
	users.Put("/:id", auth.RequireOwner("id"), cfg.Profiles.Update)
	users.Delete("/:id", auth.RequireOwner("id"), cfg.Profiles.Delete)
}

// GatewayRouteConfig bundles dependencies for the gateway.
type GatewayRouteConfig struct {
	Health  *handlers.HealthHandler
	Gateway *handlers.GatewayHandler
}

// RegisterGatewayRoutes wires the /api relay routes.
func RegisterGatewayRoutes(app *fiber.App, cfg GatewayRouteConfig) {
	registerHealthRoutes(app, cfg.Health)

	api := app.Group("/api")
	api.Post("/register", cfg.Gateway.Auth("/register"))
	api.Post("/login", cfg.Gateway.Auth("/login"))
	api.Post("/validate", cfg.Gateway.Auth("/validate"))

	api.Get("/users", cfg.Gateway.Users)
	api.Post("/users", cfg.Gateway.Users)
	api.Get("/users/:id", cfg.Gateway.Users)
	api.Put("/users/:id", cfg.Gateway.Users)
	api.Delete("/users/:id", cfg.Gateway.Users)
}
