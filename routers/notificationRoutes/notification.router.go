package notificationRoutes

import (
	controllers "ibuild/controllers/notification"
	"ibuild/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupNotificationRoutes sets up in-app notification routes
func SetupNotificationRoutes(app *fiber.App) {
	notificationGroup := app.Group("/notification")

	notificationGroup.Get("/list", middleware.JWTMiddleware, controllers.GetMyNotifications)
	notificationGroup.Get("/unread/count", middleware.JWTMiddleware, controllers.GetUnreadCount)
	notificationGroup.Patch("/:id/read", middleware.JWTMiddleware, controllers.MarkNotificationRead)
	notificationGroup.Patch("/read/all", middleware.JWTMiddleware, controllers.MarkAllNotificationsRead)
}
