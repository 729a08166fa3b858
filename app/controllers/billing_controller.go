package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/TobiasFuchs/AdBoard/app/repository"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/billing"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/database"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/env"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/usercontext"
)

// HandleUpgrade renders the plan comparison page. Feature and limit
// middleware redirect here when a plan blocks an action.
func HandleUpgrade(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	data := layoutData(c, "upgrade")
	data["CurrentPlan"] = uc.Plan
	if uc.IsLoggedIn && uc.CompanyID != 0 {
		subs, err := billing.NewRepository(database.GetDB()).ListSubscriptionsByCompany(uc.CompanyID)
		if err == nil {
			data["Subscriptions"] = subs
		}
	}
	return c.Render("billing/upgrade", data, "layouts/main")
}

// HandleCheckout starts a Stripe checkout session for the requested plan and
// redirects the browser to the hosted payment page.
func HandleCheckout(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	member, err := repos.GetCompanyRepository().GetMembership(uc.CompanyID, uc.UserID)
	if err != nil || !member.CanManage() {
		fm["message"] = "Only owners and managers can change the plan"

		return flash.WithError(c, fm).Redirect("/upgrade")
	}

	plan := c.FormValue("plan")
	if plan != "pro" && plan != "business" {
		fm["message"] = "Unknown plan"

		return flash.WithError(c, fm).Redirect("/upgrade")
	}

	base := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:4000")
	service := billing.NewServiceFromDB(database.GetDB())
	checkoutURL, err := service.CreateCheckoutSession(
		c.Context(),
		uc.CompanyID,
		plan,
		base+"/upgrade?checkout=success",
		base+"/upgrade?checkout=cancelled",
	)
	if err != nil {
		log.Errorf("[Billing] checkout session failed for company %d: %v", uc.CompanyID, err)
		fm["message"] = fmt.Sprintf("checkout could not be started: %s", err)

		return flash.WithError(c, fm).Redirect("/upgrade")
	}

	return c.Redirect(checkoutURL, fiber.StatusSeeOther)
}

// HandleStripeWebhook receives subscription lifecycle events from Stripe.
// Signature failures return 400 so Stripe retries; everything else returns
// 200 because handled and deduplicated events must not be redelivered.
func HandleStripeWebhook(c *fiber.Ctx) error {
	service := billing.NewServiceFromDB(database.GetDB())

	err := service.HandleStripeWebhook(c.Context(), c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, billing.ErrInvalidSignature) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid signature"})
		}
		log.Errorf("[Billing] webhook processing failed: %v", err)
	}
	return c.SendStatus(fiber.StatusOK)
}
