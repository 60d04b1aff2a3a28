package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/akazakov/shop-backend/internal/auth"
	"github.com/akazakov/shop-backend/internal/transport/http/handler"
	"github.com/akazakov/shop-backend/internal/transport/http/middleware"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
}

func RegisterRoutes(app *fiber.App, h *Handlers, tokens *auth.TokenManager) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	authGroup := app.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)

	api := app.Group("/api", middleware.NewAuthMiddleware(tokens))
	api.Get("/me", h.User.GetMe)

	users := api.Group("/users")
	users.Get("", h.User.List)
	users.Get("/:id", h.User.GetByID)
	users.Patch("/:id", h.User.Update)
	users.Delete("/:id", h.User.Deactivate)

	categories := api.Group("/categories")
	categories.Post("", h.Category.Create)
	categories.Get("", h.Category.List)
	categories.Get("/:id", h.Category.GetByID)
	categories.Patch("/:id", h.Category.Update)
	categories.Delete("/:id", h.Category.Deactivate)
	categories.Get("/:id/products", h.Category.ListProducts)

	products := api.Group("/products")
	products.Post("", h.Product.Create)
	products.Get("", h.Product.List)
	products.Get("/:id", h.Product.FindByID)
	products.Patch("/:id", h.Product.Update)
	products.Delete("/:id", h.Product.Deactivate)
}
