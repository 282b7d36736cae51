package chatRoutes

import (
	controllers "ibuild/controllers/chat"
	"ibuild/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupChatRoutes sets up the live event stream and chat routes. The stream
// authenticates via a token query parameter; everything else uses the
// bearer header.
func SetupChatRoutes(app *fiber.App) {
	chatGroup := app.Group("/chat")

	chatGroup.Get("/stream", controllers.Stream)
	chatGroup.Post("/message", middleware.JWTMiddleware, controllers.SendMessage)
	chatGroup.Post("/room/join", middleware.JWTMiddleware, controllers.JoinRoom)
	chatGroup.Post("/room/leave", middleware.JWTMiddleware, controllers.LeaveRoom)
	chatGroup.Post("/typing", middleware.JWTMiddleware, controllers.Typing)
	chatGroup.Get("/history", middleware.JWTMiddleware, controllers.GetHistory)
	chatGroup.Get("/online", middleware.JWTMiddleware, controllers.GetOnlineUsers)
}
