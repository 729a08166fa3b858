package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/TobiasFuchs/AdBoard/app/models"
	"github.com/TobiasFuchs/AdBoard/app/repository"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/placeholder"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/usercontext"
)

// HandleTemplates lists the contract document templates of the active company.
// The whole template area is gated on the contracts.template plan feature.
func HandleTemplates(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()

	templates, err := repos.GetTemplateRepository().GetByCompany(uc.CompanyID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load templates")
	}

	data := layoutData(c, "templates")
	data["Templates"] = templates
	return c.Render("template/index", data, "layouts/main")
}

// HandleTemplateNew renders the editor with the placeholder catalog grouped
// by category.
func HandleTemplateNew(c *fiber.Ctx) error {
	data := layoutData(c, "templates")
	data["Template"] = &models.ContractTemplate{}
	data["Categories"] = placeholder.Categories()
	data["Placeholders"] = placeholder.ByCategory()
	return c.Render("template/form", data, "layouts/main")
}

// HandleTemplateCreate stores a new template. The route is gated on the
// templates.max plan limit.
func HandleTemplateCreate(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	template := &models.ContractTemplate{
		CompanyID: uc.CompanyID,
		Name:      c.FormValue("name"),
		Body:      c.FormValue("body"),
		IsDefault: c.FormValue("is_default") == "on" || c.FormValue("is_default") == "1",
	}
	if err := template.Validate(); err != nil {
		fm["message"] = fmt.Sprintf("invalid input: %s", err)

		return flash.WithError(c, fm).Redirect("/templates/new")
	}

	if err := repos.GetTemplateRepository().Create(template); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/templates/new")
	}
	if template.IsDefault {
		if err := clearOtherDefaults(uc.CompanyID, template.ID); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/templates")
		}
	}

	fm = fiber.Map{"type": "success", "message": "Template created"}
	return flash.WithSuccess(c, fm).Redirect("/templates")
}

// HandleTemplateEdit renders the editor for an existing template.
func HandleTemplateEdit(c *fiber.Ctx) error {
	template, err := templateForCompany(c)
	if err != nil {
		return err
	}

	data := layoutData(c, "templates")
	data["Template"] = template
	data["Categories"] = placeholder.Categories()
	data["Placeholders"] = placeholder.ByCategory()
	return c.Render("template/form", data, "layouts/main")
}

// HandleTemplateUpdate applies the editor form.
func HandleTemplateUpdate(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	template, err := templateForCompany(c)
	if err != nil {
		return err
	}
	redirectTo := fmt.Sprintf("/templates/%d/edit", template.ID)

	template.Name = c.FormValue("name")
	template.Body = c.FormValue("body")
	template.IsDefault = c.FormValue("is_default") == "on" || c.FormValue("is_default") == "1"
	if err := template.Validate(); err != nil {
		fm["message"] = fmt.Sprintf("invalid input: %s", err)

		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	if err := repos.GetTemplateRepository().Update(template); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect(redirectTo)
	}
	if template.IsDefault {
		if err := clearOtherDefaults(uc.CompanyID, template.ID); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/templates")
		}
	}

	fm = fiber.Map{"type": "success", "message": "Template updated"}
	return flash.WithSuccess(c, fm).Redirect("/templates")
}

// HandleTemplateDelete soft-deletes a template.
func HandleTemplateDelete(c *fiber.Ctx) error {
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	template, err := templateForCompany(c)
	if err != nil {
		return err
	}

	if err := repos.GetTemplateRepository().Delete(template.ID); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/templates")
	}

	fm = fiber.Map{"type": "success", "message": "Template deleted"}
	return flash.WithSuccess(c, fm).Redirect("/templates")
}

// templateForCompany loads the template from the :id param and verifies it
// belongs to the active company.
func templateForCompany(c *fiber.Ctx) (*models.ContractTemplate, error) {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()

	template, err := repos.GetTemplateRepository().GetByID(paramUint(c, "id"))
	if err != nil || template.CompanyID != uc.CompanyID {
		return nil, fiber.NewError(fiber.StatusNotFound, "template not found")
	}
	return template, nil
}

// clearOtherDefaults keeps at most one default template per company.
func clearOtherDefaults(companyID, keepID uint) error {
	repos := repository.GetGlobalFactory()

	templates, err := repos.GetTemplateRepository().GetByCompany(companyID)
	if err != nil {
		return err
	}
	for i := range templates {
		t := &templates[i]
		if t.ID == keepID || !t.IsDefault {
			continue
		}
		t.IsDefault = false
		if err := repos.GetTemplateRepository().Update(t); err != nil {
			return err
		}
	}
	return nil
}
