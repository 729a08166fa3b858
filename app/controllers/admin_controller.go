package controllers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/TobiasFuchs/AdBoard/app/models"
	"github.com/TobiasFuchs/AdBoard/app/repository"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/database"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/entitlements"
)

// HandleAdminDashboard shows platform-wide counts.
func HandleAdminDashboard(c *fiber.Ctx) error {
	db := database.GetDB()

	var userCount, companyCount, billboardCount, contractCount int64
	db.Model(&models.User{}).Count(&userCount)
	db.Model(&models.Company{}).Count(&companyCount)
	db.Model(&models.Billboard{}).Count(&billboardCount)
	db.Model(&models.Contract{}).Count(&contractCount)

	data := layoutData(c, "admin")
	data["UserCount"] = userCount
	data["CompanyCount"] = companyCount
	data["BillboardCount"] = billboardCount
	data["ContractCount"] = contractCount
	return c.Render("admin/dashboard", data, "layouts/main")
}

// HandleAdminPlanRules lists all plan rules grouped against the feature
// catalog so missing rows are visible.
func HandleAdminPlanRules(c *fiber.Ctx) error {
	repos := repository.GetGlobalFactory()

	rules, err := repos.GetPlanRuleRepository().GetAll()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load plan rules")
	}

	byPlan := map[string][]models.PlanRule{}
	for _, r := range rules {
		byPlan[r.PlanID] = append(byPlan[r.PlanID], r)
	}

	data := layoutData(c, "admin")
	data["Plans"] = []string{string(entitlements.PlanFree), string(entitlements.PlanPro), string(entitlements.PlanBusiness)}
	data["RulesByPlan"] = byPlan
	data["Catalog"] = entitlements.Catalog()
	return c.Render("admin/plan_rules", data, "layouts/main")
}

// HandleAdminPlanRuleSave upserts one (plan, key) -> value rule. The rule
// cache keeps serving the old value for up to ten minutes.
func HandleAdminPlanRuleSave(c *fiber.Ctx) error {
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	planID := strings.TrimSpace(c.FormValue("plan_id"))
	key := strings.TrimSpace(c.FormValue("rule_key"))
	value := strings.TrimSpace(c.FormValue("rule_value"))
	if planID == "" || key == "" {
		fm["message"] = "Plan and feature key are required"

		return flash.WithError(c, fm).Redirect("/admin/plan-rules")
	}
	if !entitlements.Known(entitlements.FeatureKey(key)) {
		fm["message"] = "Unknown feature key: " + key

		return flash.WithError(c, fm).Redirect("/admin/plan-rules")
	}

	rule := &models.PlanRule{PlanID: planID, Key: key, Value: value}
	if err := repos.GetPlanRuleRepository().Upsert(rule); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/admin/plan-rules")
	}

	fm = fiber.Map{"type": "success", "message": "Rule saved. Cached values expire within 10 minutes."}
	return flash.WithSuccess(c, fm).Redirect("/admin/plan-rules")
}

// HandleAdminPlanRuleDelete removes a rule row. The gate then falls back to
// the route default for that key.
func HandleAdminPlanRuleDelete(c *fiber.Ctx) error {
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	if err := repos.GetPlanRuleRepository().Delete(paramUint(c, "id")); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/admin/plan-rules")
	}

	fm = fiber.Map{"type": "success", "message": "Rule deleted"}
	return flash.WithSuccess(c, fm).Redirect("/admin/plan-rules")
}

// HandleAdminPlanMappings lists the provider price -> internal plan mappings.
func HandleAdminPlanMappings(c *fiber.Ctx) error {
	var mappings []models.BillingPlanMapping
	if err := database.GetDB().Order("provider, internal_plan, billing_interval").Find(&mappings).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load plan mappings")
	}

	data := layoutData(c, "admin")
	data["Mappings"] = mappings
	return c.Render("admin/plan_mappings", data, "layouts/main")
}

// HandleAdminPlanMappingSave creates or updates a provider plan mapping.
func HandleAdminPlanMappingSave(c *fiber.Ctx) error {
	fm := fiber.Map{"type": "error"}

	mapping := models.BillingPlanMapping{
		Provider:        strings.TrimSpace(c.FormValue("provider")),
		ProviderPlanRef: strings.TrimSpace(c.FormValue("provider_plan_ref")),
		InternalPlan:    strings.TrimSpace(c.FormValue("internal_plan")),
		BillingInterval: strings.TrimSpace(c.FormValue("billing_interval")),
		IsActive:        c.FormValue("is_active") != "0",
	}
	if mapping.Provider == "" || mapping.ProviderPlanRef == "" || mapping.InternalPlan == "" {
		fm["message"] = "Provider, plan reference and internal plan are required"

		return flash.WithError(c, fm).Redirect("/admin/plan-mappings")
	}
	if mapping.BillingInterval == "" {
		mapping.BillingInterval = "unknown"
	}

	db := database.GetDB()
	var existing models.BillingPlanMapping
	err := db.Where("provider = ? AND provider_plan_ref = ? AND billing_interval = ?",
		mapping.Provider, mapping.ProviderPlanRef, mapping.BillingInterval).First(&existing).Error
	if err == nil {
		existing.InternalPlan = mapping.InternalPlan
		existing.IsActive = mapping.IsActive
		err = db.Save(&existing).Error
	} else {
		err = db.Create(&mapping).Error
	}
	if err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/admin/plan-mappings")
	}

	fm = fiber.Map{"type": "success", "message": "Mapping saved"}
	return flash.WithSuccess(c, fm).Redirect("/admin/plan-mappings")
}

// HandleAdminSettings renders and saves the global application settings.
func HandleAdminSettings(c *fiber.Ctx) error {
	repos := repository.GetGlobalFactory()

	settings, err := repos.GetSettingRepository().Get()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load settings")
	}

	data := layoutData(c, "admin")
	data["Settings"] = settings
	return c.Render("admin/settings", data, "layouts/main")
}

// HandleAdminSettingsSave applies the settings form.
func HandleAdminSettingsSave(c *fiber.Ctx) error {
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	settings, err := repos.GetSettingRepository().Get()
	if err != nil {
		fm["message"] = "failed to load settings"

		return flash.WithError(c, fm).Redirect("/admin/settings")
	}

	settings.SiteTitle = strings.TrimSpace(c.FormValue("site_title"))
	settings.SiteDescription = strings.TrimSpace(c.FormValue("site_description"))
	settings.RegistrationEnabled = c.FormValue("registration_enabled") == "on" || c.FormValue("registration_enabled") == "1"
	settings.DocExportEnabled = c.FormValue("doc_export_enabled") == "on" || c.FormValue("doc_export_enabled") == "1"

	if err := repos.GetSettingRepository().Save(settings); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/admin/settings")
	}

	fm = fiber.Map{"type": "success", "message": "Settings saved"}
	return flash.WithSuccess(c, fm).Redirect("/admin/settings")
}
