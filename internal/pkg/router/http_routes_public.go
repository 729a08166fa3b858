package router

import (
	"github.com/gofiber/fiber/v2"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/TobiasFuchs/AdBoard/app/controllers"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/middleware"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Auth
	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)

	// Social OAuth
	app.Get("/auth/:provider", gothfiber.BeginAuthHandler)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)

	// Billing provider webhooks (no CSRF, signature-verified in controller)
	app.Post("/webhooks/stripe", controllers.HandleStripeWebhook)
}
