package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TobiasFuchs/AdBoard/app/repository"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/entitlements"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/middleware"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/usage"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/usercontext"
)

func HandleHome(c *fiber.Ctx) error {
	if isLoggedIn(c) {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}
	data := layoutData(c, "home")
	return c.Render("home", data, "layouts/main")
}

// HandleDashboard shows the tenant overview with usage against plan limits.
func HandleDashboard(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	snapshot, err := usage.GetSnapshot(uc.CompanyID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load usage")
	}

	gate := middleware.FeatureGate()
	limits := fiber.Map{}
	for key, label := range map[entitlements.FeatureKey]string{
		entitlements.LimitBillboardsMax:  "Billboards",
		entitlements.LimitContractsMax:   "Contracts",
		entitlements.LimitClientsMax:     "Clients",
		entitlements.LimitTeamMembersMax: "TeamMembers",
	} {
		limit, err := gate.Limit(uc.Plan, key, nil)
		if err != nil {
			continue
		}
		if limit == nil {
			limits[label] = "unlimited"
		} else {
			limits[label] = *limit
		}
	}

	company, err := repository.GetGlobalFactory().GetCompanyRepository().GetByID(uc.CompanyID)
	if err != nil {
		return c.Redirect("/companies", fiber.StatusSeeOther)
	}

	data := layoutData(c, "dashboard")
	data["Company"] = company
	data["Usage"] = snapshot
	data["Limits"] = limits
	return c.Render("dashboard", data, "layouts/main")
}
