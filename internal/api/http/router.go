package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/api/http/handlers"
	"github.com/spec-kit/order-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Orders         *handlers.OrdersHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. The authenticator runs on every /api
// route; register, login, and logout stay public, everything else requires an
// authenticated principal.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1.0", cfg.AuthMiddleware.Handle)

	user := api.Group("/user")
	user.Post("/register", cfg.Users.Register)
	user.Post("/login", cfg.Users.Login)
	user.Post("/logout", cfg.Users.Logout)
	user.Get("/all", auth.RequireAuthenticated(), cfg.Users.GetAll)
	user.Get("/:user_role", auth.RequireAuthenticated(), cfg.Users.GetByRole)

	order := api.Group("/order", auth.RequireAuthenticated())
	order.Get("/all", cfg.Orders.GetAll)
	order.Get("/orders", cfg.Orders.GetFiltered)
	order.Post("/add", cfg.Orders.Add)
	order.Put("/update/:orderId", cfg.Orders.Update)
	order.Delete("/delete/:id", cfg.Orders.Delete)
	order.Delete("/bulk-delete/:status", cfg.Orders.BulkDelete)
	order.Get("/:status", cfg.Orders.GetByStatus)
}
