package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/TobiasFuchs/AdBoard/app/models"
	"github.com/TobiasFuchs/AdBoard/app/repository"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/session"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/usercontext"
)

// HandleCompanies lists the user's companies and the create form.
func HandleCompanies(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	companies, err := repository.GetGlobalFactory().GetCompanyRepository().GetForUser(uc.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load companies")
	}

	data := layoutData(c, "companies")
	data["Companies"] = companies
	data["ActiveCompanyID"] = uc.CompanyID
	return c.Render("company/index", data, "layouts/main")
}

// HandleCompanyCreate creates a new tenant and makes the user its owner.
func HandleCompanyCreate(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	fm := fiber.Map{"type": "error"}

	company := &models.Company{
		Name:           c.FormValue("name"),
		Address:        c.FormValue("address"),
		City:           c.FormValue("city"),
		ZipCode:        c.FormValue("zip_code"),
		Country:        c.FormValue("country"),
		TaxID:          c.FormValue("tax_id"),
		Email:          c.FormValue("email"),
		Representative: c.FormValue("representative"),
		CurrencyCode:   firstNonEmpty(c.FormValue("currency_code"), "EUR"),
		CurrencySymbol: firstNonEmpty(c.FormValue("currency_symbol"), "€"),
		Plan:           "free",
	}
	if err := company.Validate(); err != nil {
		fm["message"] = "Please check your input"

		return flash.WithError(c, fm).Redirect("/companies")
	}

	repos := repository.GetGlobalFactory()
	if err := repos.GetCompanyRepository().Create(company); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/companies")
	}
	member := &models.CompanyMember{
		CompanyID: company.ID,
		UserID:    uc.UserID,
		Role:      models.MEMBER_ROLE_OWNER,
	}
	if err := repos.GetCompanyRepository().AddMember(member); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/companies")
	}

	if err := activateCompany(c, uc.UserID, company); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/companies")
	}

	fm = fiber.Map{"type": "success", "message": "Company created"}
	return flash.WithSuccess(c, fm).Redirect("/dashboard")
}

// HandleCompanySwitch changes the active tenant for the session.
func HandleCompanySwitch(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	fm := fiber.Map{"type": "error"}

	companyID := paramUint(c, "id")
	repos := repository.GetGlobalFactory()
	if _, err := repos.GetCompanyRepository().GetMembership(companyID, uc.UserID); err != nil {
		fm["message"] = "You are not a member of this company"

		return flash.WithError(c, fm).Redirect("/companies")
	}
	company, err := repos.GetCompanyRepository().GetByID(companyID)
	if err != nil {
		fm["message"] = "Company not found"

		return flash.WithError(c, fm).Redirect("/companies")
	}

	if err := activateCompany(c, uc.UserID, company); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/companies")
	}

	fm = fiber.Map{"type": "success", "message": "Switched to " + company.Name}
	return flash.WithSuccess(c, fm).Redirect("/dashboard")
}

// activateCompany rewrites the session tenant and cached plan together and
// remembers the choice on the user record.
func activateCompany(c *fiber.Ctx, userID uint, company *models.Company) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}
	sess.Set(COMPANY_ID, company.ID)
	plan := company.Plan
	if plan == "" {
		plan = "free"
	}
	sess.Set(COMPANY_PLAN, plan)
	if err := sess.Save(); err != nil {
		return err
	}

	repos := repository.GetGlobalFactory()
	user, err := repos.GetUserRepository().GetByID(userID)
	if err != nil {
		return err
	}
	user.ActiveCompanyID = &company.ID
	return repos.GetUserRepository().Update(user)
}

// HandleCompanySettings shows and updates the active company profile.
func HandleCompanySettings(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()

	company, err := repos.GetCompanyRepository().GetByID(uc.CompanyID)
	if err != nil {
		return c.Redirect("/companies", fiber.StatusSeeOther)
	}

	if c.Method() == fiber.MethodPost {
		fm := fiber.Map{"type": "error"}

		member, err := repos.GetCompanyRepository().GetMembership(uc.CompanyID, uc.UserID)
		if err != nil || !member.CanManage() {
			fm["message"] = "Only owners and managers can edit company settings"

			return flash.WithError(c, fm).Redirect("/company/settings")
		}

		company.Name = firstNonEmpty(c.FormValue("name"), company.Name)
		company.Address = c.FormValue("address")
		company.City = c.FormValue("city")
		company.ZipCode = c.FormValue("zip_code")
		company.Country = c.FormValue("country")
		company.TaxID = c.FormValue("tax_id")
		company.RegistrationNo = c.FormValue("registration_no")
		company.Phone = c.FormValue("phone")
		company.Email = c.FormValue("email")
		company.Representative = c.FormValue("representative")
		company.CurrencyCode = firstNonEmpty(c.FormValue("currency_code"), company.CurrencyCode)
		company.CurrencySymbol = firstNonEmpty(c.FormValue("currency_symbol"), company.CurrencySymbol)
		if rate := formFloat(c, "exchange_rate"); rate > 0 {
			company.ExchangeRate = rate
		}

		if err := company.Validate(); err != nil {
			fm["message"] = "Please check your input"

			return flash.WithError(c, fm).Redirect("/company/settings")
		}
		if err := repos.GetCompanyRepository().Update(company); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/company/settings")
		}

		fm = fiber.Map{"type": "success", "message": "Company settings saved"}
		return flash.WithSuccess(c, fm).Redirect("/company/settings")
	}

	data := layoutData(c, "company-settings")
	data["Company"] = company
	return c.Render("company/settings", data, "layouts/main")
}

// HandleCompanyAPIKeyIssue generates a new company API key. The raw secret is
// shown exactly once.
func HandleCompanyAPIKeyIssue(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	member, err := repos.GetCompanyRepository().GetMembership(uc.CompanyID, uc.UserID)
	if err != nil || member.Role != models.MEMBER_ROLE_OWNER {
		fm["message"] = "Only the owner can manage the API key"

		return flash.WithError(c, fm).Redirect("/company/settings")
	}

	company, err := repos.GetCompanyRepository().GetByID(uc.CompanyID)
	if err != nil {
		return c.Redirect("/companies", fiber.StatusSeeOther)
	}
	rawKey, err := company.IssueAPIKey()
	if err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/company/settings")
	}
	if err := repos.GetCompanyRepository().Update(company); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/company/settings")
	}

	data := layoutData(c, "company-api-key")
	data["Company"] = company
	data["RawAPIKey"] = rawKey
	return c.Render("company/api_key", data, "layouts/main")
}

// HandleCompanyAPIKeyRevoke revokes the company API key.
func HandleCompanyAPIKeyRevoke(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	member, err := repos.GetCompanyRepository().GetMembership(uc.CompanyID, uc.UserID)
	if err != nil || member.Role != models.MEMBER_ROLE_OWNER {
		fm["message"] = "Only the owner can manage the API key"

		return flash.WithError(c, fm).Redirect("/company/settings")
	}

	company, err := repos.GetCompanyRepository().GetByID(uc.CompanyID)
	if err != nil {
		return c.Redirect("/companies", fiber.StatusSeeOther)
	}
	company.RevokeAPIKey()
	if err := repos.GetCompanyRepository().Update(company); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/company/settings")
	}

	fm = fiber.Map{"type": "success", "message": "API key revoked"}
	return flash.WithSuccess(c, fm).Redirect("/company/settings")
}
