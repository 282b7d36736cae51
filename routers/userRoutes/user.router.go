package userRoutes

import (
	userControllers "ibuild/controllers/users"
	"ibuild/middleware"
	"ibuild/models"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up user management routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/users")

	userGroup.Get("/list", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), userControllers.GetAllUsers)
	userGroup.Get("/:id", middleware.JWTMiddleware, userControllers.GetUser)
	userGroup.Patch("/:id", middleware.JWTMiddleware, userControllers.UpdateUser)
	userGroup.Delete("/:id", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), userControllers.DeleteUser)
}
