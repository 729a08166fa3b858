package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TobiasFuchs/AdBoard/internal/pkg/middleware"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/oauth"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
	h.registerAdminRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func loggedInMiddleware(c *fiber.Ctx) error {
	// UserContextMiddleware already set all user context; guest access is
	// allowed on these routes.
	return c.Next()
}
