package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TobiasFuchs/AdBoard/app/controllers"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/middleware"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.RequireAdmin)
	adminGroup.Get("/", controllers.HandleAdminDashboard)

	// Plan entitlement rules
	adminGroup.Get("/plan-rules", controllers.HandleAdminPlanRules)
	adminGroup.Post("/plan-rules", controllers.HandleAdminPlanRuleSave)
	adminGroup.Post("/plan-rules/delete/:id", controllers.HandleAdminPlanRuleDelete)

	// Billing price mappings
	adminGroup.Get("/plan-mappings", controllers.HandleAdminPlanMappings)
	adminGroup.Post("/plan-mappings", controllers.HandleAdminPlanMappingSave)

	// Application settings
	adminGroup.Get("/settings", controllers.HandleAdminSettings)
	adminGroup.Post("/settings", controllers.HandleAdminSettingsSave)
}
