package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/commerce-services/internal/api/http/handlers"
)

// UserRouteConfig bundles dependencies for the user service routes.
type UserRouteConfig struct {
	Health *handlers.HealthHandler
	Users  *handlers.UsersHandler
}

// RegisterUserRoutes wires the user service HTTP surface.
func RegisterUserRoutes(app *fiber.App, cfg UserRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	v1 := app.Group("/api/v1")
	v1.Post("/auth/login", cfg.Users.Login)

	users := v1.Group("/users")
	users.Post("", cfg.Users.Create)
	users.Get("", cfg.Users.List)
	users.Get("/search-username", cfg.Users.SearchByUsername)
	users.Get("/search-email", cfg.Users.SearchByEmail)
	users.Get("/:id", cfg.Users.GetByID)
	users.Put("/:id", cfg.Users.Put)
	users.Patch("/:id", cfg.Users.Patch)
	users.Delete("/:id", cfg.Users.Delete)
}

// ProductRouteConfig bundles dependencies for the product service routes.
type ProductRouteConfig struct {
	Health     *handlers.HealthHandler
	Products   *handlers.ProductsHandler
	Categories *handlers.CategoriesHandler
}

// RegisterProductRoutes wires the product service HTTP surface.
func RegisterProductRoutes(app *fiber.App, cfg ProductRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	v1 := app.Group("/api/v1")

	products := v1.Group("/products")
	products.Post("", cfg.Products.Create)
	products.Get("", cfg.Products.List)
	products.Get("/search", cfg.Products.Search)
	products.Get("/:id", cfg.Products.GetByID)
	products.Put("/:id", cfg.Products.Put)
	products.Patch("/:id/stock", cfg.Products.UpdateStock)
	products.Delete("/:id", cfg.Products.Delete)

	categories := v1.Group("/categories")
	categories.Post("", cfg.Categories.Create)
	categories.Get("", cfg.Categories.List)
	categories.Get("/:id", cfg.Categories.GetByID)
	categories.Put("/:id", cfg.Categories.Put)
	categories.Delete("/:id", cfg.Categories.Delete)
}
