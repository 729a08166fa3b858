package middleware

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/TobiasFuchs/AdBoard/internal/pkg/database"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/entitlements"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/usage"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/usercontext"
)

var (
	gateMu sync.RWMutex
	gate   *entitlements.Gate
)

// FeatureGate returns the shared plan gate, building it on first use.
func FeatureGate() *entitlements.Gate {
	gateMu.RLock()
	g := gate
	gateMu.RUnlock()
	if g != nil {
		return g
	}
	gateMu.Lock()
	defer gateMu.Unlock()
	if gate == nil {
		gate = entitlements.NewGate(entitlements.NewRuleStore(database.GetDB()))
	}
	return gate
}

// SetFeatureGate replaces the shared gate. Used by main during startup and by tests.
func SetFeatureGate(g *entitlements.Gate) {
	gateMu.Lock()
	gate = g
	gateMu.Unlock()
}

// RequireCompany ensures the request has an active tenant resolved.
// Browser requests are sent to the company picker, API requests get JSON.
func RequireCompany(c *fiber.Ctx) error {
	if usercontext.GetUserContext(c).HasCompany() {
		return c.Next()
	}
	return denyNoCompany(c)
}

func denyNoCompany(c *fiber.Ctx) error {
	if wantsJSON(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "no_active_company",
			"message": "Select or create a company first",
		})
	}
	fm := fiber.Map{"type": "error", "message": "Select or create a company first"}
	return flash.WithError(c, fm).Redirect("/companies", fiber.StatusSeeOther)
}

// RequireFeature gates a route on a boolean plan feature. Keys outside the
// catalog pass through unchanged so stale route wiring never locks tenants
// out. A request without a resolved tenant is sent to the company picker.
func RequireFeature(key entitlements.FeatureKey, def bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !entitlements.Known(key) {
			return c.Next()
		}

		uc := usercontext.GetUserContext(c)
		if !uc.HasCompany() {
			return denyNoCompany(c)
		}

		allowed, err := FeatureGate().Allows(uc.Plan, key, def)
		if err != nil {
			log.Printf("feature check %s for plan %s failed: %v", key, uc.Plan, err)
			return serverError(c)
		}
		if !allowed {
			return denyFeature(c, key, uc.Plan)
		}
		return c.Next()
	}
}

// RequireWithinLimit gates a create route on a numeric plan limit, counting
// current usage live so a just-created row is always reflected.
func RequireWithinLimit(key entitlements.FeatureKey, counter usage.CounterKey) fiber.Handler {
	count, ok := usage.For(counter)
	if !ok {
		panic(fmt.Sprintf("middleware: unknown usage counter %q", counter))
	}
	return LimitCheck(key, count)
}

// LimitCheck is RequireWithinLimit with an explicit count function.
func LimitCheck(key entitlements.FeatureKey, count usage.CountFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !entitlements.Known(key) {
			return c.Next()
		}

		uc := usercontext.GetUserContext(c)
		if !uc.HasCompany() {
			return denyNoCompany(c)
		}

		limit, err := FeatureGate().Limit(uc.Plan, key, nil)
		if err != nil {
			log.Printf("limit check %s for plan %s failed: %v", key, uc.Plan, err)
			return serverError(c)
		}
		if limit == nil {
			return c.Next()
		}

		current, err := count(uc.CompanyID)
		if err != nil {
			log.Printf("usage count for %s (company %d) failed: %v", key, uc.CompanyID, err)
			return serverError(c)
		}
		if current >= *limit {
			return denyLimit(c, key, uc.Plan, *limit, current)
		}
		return c.Next()
	}
}

func denyFeature(c *fiber.Ctx, key entitlements.FeatureKey, plan string) error {
	if plan == "" {
		plan = "free"
	}
	if wantsJSON(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":            "feature_not_available",
			"message":          "This feature is not included in your current plan",
			"feature":          string(key),
			"current_plan":     plan,
			"upgrade_required": true,
		})
	}
	fm := fiber.Map{
		"type":             "error",
		"message":          "This feature is not included in your current plan",
		"feature":          string(key),
		"current_plan":     plan,
		"upgrade_required": true,
	}
	return flash.WithError(c, fm).Redirect("/upgrade", fiber.StatusSeeOther)
}

func denyLimit(c *fiber.Ctx, key entitlements.FeatureKey, plan string, limit, current int) error {
	if plan == "" {
		plan = "free"
	}
	if wantsJSON(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":            "limit_reached",
			"message":          "Your plan limit for this resource is reached",
			"feature":          string(key),
			"current_plan":     plan,
			"limit":            limit,
			"current":          current,
			"upgrade_required": true,
		})
	}
	fm := fiber.Map{
		"type":             "error",
		"message":          fmt.Sprintf("Your plan allows %d of these, you already have %d", limit, current),
		"feature":          string(key),
		"current_plan":     plan,
		"limit":            limit,
		"current":          current,
		"upgrade_required": true,
	}
	return flash.WithError(c, fm).Redirect("/upgrade", fiber.StatusSeeOther)
}

func serverError(c *fiber.Ctx) error {
	if wantsJSON(c) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Please try again later",
		})
	}
	return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
}

// wantsJSON reports whether the client should get a JSON denial instead of a
// flash-and-redirect.
func wantsJSON(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Path(), "/api/") {
		return true
	}
	if c.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}
