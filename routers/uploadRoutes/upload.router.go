package uploadRoutes

import (
	controllers "ibuild/controllers/upload"
	"ibuild/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupUploadRoutes sets up file upload routes
func SetupUploadRoutes(app *fiber.App) {
	uploadGroup := app.Group("/upload")

	uploadGroup.Post("/file", middleware.JWTMiddleware, controllers.UploadFile)
	uploadGroup.Get("/mine", middleware.JWTMiddleware, controllers.GetMyFiles)
}
