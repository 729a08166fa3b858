package controllers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/TobiasFuchs/AdBoard/app/models"
	"github.com/TobiasFuchs/AdBoard/app/repository"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/usercontext"
)

// HandleClients lists the advertisers of the active company.
func HandleClients(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()

	clients, err := repos.GetClientRepository().GetByCompany(uc.CompanyID, 0, 0)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load clients")
	}

	data := layoutData(c, "clients")
	data["Clients"] = clients
	return c.Render("client/index", data, "layouts/main")
}

// HandleClientNew renders the create form.
func HandleClientNew(c *fiber.Ctx) error {
	data := layoutData(c, "clients")
	data["Client"] = &models.Client{}
	return c.Render("client/form", data, "layouts/main")
}

// HandleClientCreate stores a new advertiser. The route is gated on the
// clients.max plan limit.
func HandleClientCreate(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	client := clientFromForm(c, &models.Client{CompanyID: uc.CompanyID})
	if err := client.Validate(); err != nil {
		fm["message"] = fmt.Sprintf("invalid input: %s", err)

		return flash.WithError(c, fm).Redirect("/clients/new")
	}

	if err := repos.GetClientRepository().Create(client); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/clients/new")
	}

	fm = fiber.Map{"type": "success", "message": "Client created"}
	return flash.WithSuccess(c, fm).Redirect("/clients")
}

// HandleClientEdit renders the edit form.
func HandleClientEdit(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()

	client, err := repos.GetClientRepository().GetByID(paramUint(c, "id"))
	if err != nil || client.CompanyID != uc.CompanyID {
		return fiber.NewError(fiber.StatusNotFound, "client not found")
	}

	data := layoutData(c, "clients")
	data["Client"] = client
	return c.Render("client/form", data, "layouts/main")
}

// HandleClientUpdate applies the edit form.
func HandleClientUpdate(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	client, err := repos.GetClientRepository().GetByID(paramUint(c, "id"))
	if err != nil || client.CompanyID != uc.CompanyID {
		return fiber.NewError(fiber.StatusNotFound, "client not found")
	}

	clientFromForm(c, client)
	if err := client.Validate(); err != nil {
		fm["message"] = fmt.Sprintf("invalid input: %s", err)

		return flash.WithError(c, fm).Redirect(fmt.Sprintf("/clients/%d/edit", client.ID))
	}

	if err := repos.GetClientRepository().Update(client); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect(fmt.Sprintf("/clients/%d/edit", client.ID))
	}

	fm = fiber.Map{"type": "success", "message": "Client updated"}
	return flash.WithSuccess(c, fm).Redirect("/clients")
}

// HandleClientDelete soft-deletes an advertiser.
func HandleClientDelete(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	client, err := repos.GetClientRepository().GetByID(paramUint(c, "id"))
	if err != nil || client.CompanyID != uc.CompanyID {
		return fiber.NewError(fiber.StatusNotFound, "client not found")
	}

	if err := repos.GetClientRepository().Delete(client.ID); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/clients")
	}

	fm = fiber.Map{"type": "success", "message": "Client deleted"}
	return flash.WithSuccess(c, fm).Redirect("/clients")
}

func clientFromForm(c *fiber.Ctx, client *models.Client) *models.Client {
	client.Name = strings.TrimSpace(c.FormValue("name"))
	client.Address = strings.TrimSpace(c.FormValue("address"))
	client.City = strings.TrimSpace(c.FormValue("city"))
	client.Country = strings.TrimSpace(c.FormValue("country"))
	client.TaxID = strings.TrimSpace(c.FormValue("tax_id"))
	client.Phone = strings.TrimSpace(c.FormValue("phone"))
	client.Email = strings.TrimSpace(c.FormValue("email"))
	client.Representative = strings.TrimSpace(c.FormValue("representative"))
	client.Notes = c.FormValue("notes")
	return client
}
