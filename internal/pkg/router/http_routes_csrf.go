package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/TobiasFuchs/AdBoard/app/controllers"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/entitlements"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/env"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/middleware"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/usage"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/") || strings.HasPrefix(c.Path(), "/webhooks/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get("/", loggedInMiddleware, controllers.HandleHome)
	group.Get("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Post("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Get("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Post("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Get("/activate", loggedInMiddleware, controllers.HandleAuthActivate)

	group.Get("/dashboard", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleDashboard)

	// Company management; switching and creation work without an active company
	group.Get("/companies", middleware.RequireAuth, controllers.HandleCompanies)
	group.Post("/companies", middleware.RequireAuth, controllers.HandleCompanyCreate)
	group.Post("/companies/:id/switch", middleware.RequireAuth, controllers.HandleCompanySwitch)
	group.Get("/companies/settings", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleCompanySettings)
	group.Post("/companies/settings", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleCompanySettings)
	group.Post("/companies/api-key", middleware.RequireAuth, middleware.RequireCompany,
		middleware.RequireFeature(entitlements.FeatureAPIAccess, false), controllers.HandleCompanyAPIKeyIssue)
	group.Post("/companies/api-key/revoke", middleware.RequireAuth, middleware.RequireCompany,
		controllers.HandleCompanyAPIKeyRevoke)

	// Billing
	group.Get("/upgrade", loggedInMiddleware, controllers.HandleUpgrade)
	group.Post("/upgrade/checkout", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleCheckout)

	// Team; invitation accept only needs a logged-in user
	group.Get("/team", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleTeam)
	group.Post("/team/invite", middleware.RequireAuth, middleware.RequireCompany,
		middleware.RequireFeature(entitlements.FeatureTeamInvitations, false),
		middleware.RequireWithinLimit(entitlements.LimitTeamMembersMax, usage.CounterTeamMembers),
		controllers.HandleTeamInvite)
	group.Post("/team/remove/:userId", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleTeamRemove)
	group.Get("/invitations/accept", middleware.RequireAuth, controllers.HandleInvitationAccept)

	// Clients
	group.Get("/clients", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleClients)
	group.Get("/clients/new", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleClientNew)
	group.Post("/clients", middleware.RequireAuth, middleware.RequireCompany,
		middleware.RequireWithinLimit(entitlements.LimitClientsMax, usage.CounterClients),
		controllers.HandleClientCreate)
	group.Get("/clients/:id/edit", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleClientEdit)
	group.Post("/clients/:id", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleClientUpdate)
	group.Post("/clients/:id/delete", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleClientDelete)

	// Billboards
	group.Get("/billboards", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleBillboards)
	group.Get("/billboards/new", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleBillboardNew)
	group.Post("/billboards", middleware.RequireAuth, middleware.RequireCompany,
		middleware.RequireWithinLimit(entitlements.LimitBillboardsMax, usage.CounterBillboards),
		controllers.HandleBillboardCreate)
	group.Get("/billboards/:uuid/edit", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleBillboardEdit)
	group.Post("/billboards/:uuid", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleBillboardUpdate)
	group.Post("/billboards/:uuid/delete", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleBillboardDelete)
	group.Post("/billboards/:uuid/photo", middleware.RequireAuth, middleware.RequireCompany,
		middleware.RequireFeature(entitlements.FeatureBillboardPhotos, false),
		controllers.HandleBillboardPhotoUpload)

	// Contracts
	group.Get("/contracts", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleContracts)
	group.Get("/contracts/new", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleContractNew)
	group.Post("/contracts", middleware.RequireAuth, middleware.RequireCompany,
		middleware.RequireWithinLimit(entitlements.LimitContractsMax, usage.CounterContracts),
		controllers.HandleContractCreate)
	group.Get("/contracts/:uuid", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleContractShow)
	group.Get("/contracts/:uuid/edit", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleContractEdit)
	group.Post("/contracts/:uuid", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleContractUpdate)
	group.Post("/contracts/:uuid/delete", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleContractDelete)
	group.Get("/contracts/:uuid/document", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleContractDocument)
	group.Get("/contracts/:uuid/preview-values", middleware.RequireAuth, middleware.RequireCompany, controllers.HandleContractPreviewValues)
	group.Post("/contracts/:uuid/export", middleware.RequireAuth, middleware.RequireCompany,
		middleware.RequireFeature(entitlements.FeatureContractExport, false),
		controllers.HandleContractExport)

	// Contract templates; the whole area is plan-gated
	templates := group.Group("/templates", middleware.RequireAuth, middleware.RequireCompany,
		middleware.RequireFeature(entitlements.FeatureContractTemplate, false))
	templates.Get("/", controllers.HandleTemplates)
	templates.Get("/new", controllers.HandleTemplateNew)
	templates.Post("/",
		middleware.RequireWithinLimit(entitlements.LimitTemplatesMax, usage.CounterTemplates),
		controllers.HandleTemplateCreate)
	templates.Get("/:id/edit", controllers.HandleTemplateEdit)
	templates.Post("/:id", controllers.HandleTemplateUpdate)
	templates.Post("/:id/delete", controllers.HandleTemplateDelete)
}
