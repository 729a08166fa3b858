package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	apiv1 "github.com/TobiasFuchs/AdBoard/internal/api/v1"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/entitlements"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes: company API key auth plus the api.access plan feature
	v1 := api.Group("/v1",
		middleware.APIKeyAuthMiddleware(),
		middleware.RequireFeature(entitlements.FeatureAPIAccess, false),
	)
	apiServer := apiv1.NewAPIServer()
	apiv1.RegisterHandlers(v1, apiServer)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
