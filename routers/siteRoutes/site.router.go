package siteRoutes

import (
	controllers "ibuild/controllers/site"
	"ibuild/middleware"
	"ibuild/models"
	validators "ibuild/validators/site"

	"github.com/gofiber/fiber/v2"
)

// SetupSiteRoutes sets up quote and worksite routes
func SetupSiteRoutes(app *fiber.App) {
	quoteGroup := app.Group("/quote")

	quoteGroup.Post("/create", middleware.JWTMiddleware, middleware.RequireRole(models.RoleClient), validators.Quote(), controllers.CreateQuote)
	quoteGroup.Get("/list", middleware.JWTMiddleware, controllers.GetQuotes)
	quoteGroup.Get("/:quoteId", middleware.JWTMiddleware, validators.QuoteID(), controllers.GetQuote)
	quoteGroup.Patch("/:quoteId", middleware.JWTMiddleware, validators.QuoteID(), validators.Quote(), controllers.UpdateQuote)
	quoteGroup.Patch("/:quoteId/status", middleware.JWTMiddleware, validators.QuoteID(), validators.QuoteStatus(), controllers.UpdateQuoteStatus)

	worksiteGroup := app.Group("/worksite")

	worksiteGroup.Post("/create", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.Worksite(), controllers.CreateWorksite)
	worksiteGroup.Get("/list", middleware.JWTMiddleware, controllers.GetWorksites)
	worksiteGroup.Get("/:worksiteId", middleware.JWTMiddleware, validators.WorksiteID(), controllers.GetWorksite)
	worksiteGroup.Patch("/:worksiteId", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.WorksiteID(), validators.Worksite(), controllers.UpdateWorksite)
	worksiteGroup.Delete("/:worksiteId", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.WorksiteID(), controllers.DeleteWorksite)
	worksiteGroup.Post("/:worksiteId/update", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.WorksiteID(), validators.WorksiteUpdate(), controllers.AddWorksiteUpdate)
}
