package authRoutes

import (
	authControllers "ibuild/controllers/auth"
	"ibuild/middleware"
	authValidator "ibuild/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up registration, login and profile routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authValidator.Register(), authControllers.Register)
	authGroup.Post("/login", authValidator.Login(), authControllers.Login)
	authGroup.Get("/profile", middleware.JWTMiddleware, authControllers.Profile)
}
