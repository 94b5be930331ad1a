package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/product-service/internal/api/http/handlers"
	"github.com/spec-kit/product-service/internal/auth"
	"github.com/spec-kit/product-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tokens         *handlers.TokensHandler
	Products       *handlers.ProductsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. There is no login route: the first
// credential for any principal comes from the offline admin tool.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/token", cfg.AuthMiddleware.Handle, cfg.Tokens.Create)

	products := app.Group("/products", cfg.AuthMiddleware.Handle)
	products.Post("", auth.RequireRole(domain.RoleAdmin), cfg.Products.Create)
	products.Get("", auth.RequireRole(domain.RoleAdmin, domain.RolePrivileged), cfg.Products.List)
	products.Get("/:id", auth.RequireRole(domain.RoleAdmin, domain.RolePrivileged), cfg.Products.Get)
	products.Put("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Products.Update)
	products.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Products.Delete)
}
