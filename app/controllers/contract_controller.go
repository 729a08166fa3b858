package controllers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/TobiasFuchs/AdBoard/app/models"
	"github.com/TobiasFuchs/AdBoard/app/repository"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/docexport"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/placeholder"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/usercontext"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/viewmodel"
)

const dateFormValue = "2006-01-02"

// HandleContracts lists the contracts of the active company.
func HandleContracts(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()

	contracts, err := repos.GetContractRepository().GetByCompany(uc.CompanyID, 0, 0)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load contracts")
	}

	data := layoutData(c, "contracts")
	data["Contracts"] = contracts
	return c.Render("contract/index", data, "layouts/main")
}

// HandleContractNew renders the create form with client and billboard pickers.
func HandleContractNew(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()

	clients, err := repos.GetClientRepository().GetByCompany(uc.CompanyID, 0, 0)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load clients")
	}
	billboards, err := repos.GetBillboardRepository().GetByCompany(uc.CompanyID, 0, 0)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load billboards")
	}

	data := layoutData(c, "contracts")
	data["Contract"] = &models.Contract{Type: models.ContractTypeRental, Status: models.ContractStatusDraft}
	data["Clients"] = clients
	data["AvailableBillboards"] = billboards
	return c.Render("contract/form", data, "layouts/main")
}

// HandleContractCreate stores a new contract and its billboard assignment.
// The route is gated on the contracts.max plan limit.
func HandleContractCreate(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	contract := contractFromForm(c, &models.Contract{CompanyID: uc.CompanyID})
	if err := contract.Validate(); err != nil {
		fm["message"] = fmt.Sprintf("invalid input: %s", err)

		return flash.WithError(c, fm).Redirect("/contracts/new")
	}

	client, err := repos.GetClientRepository().GetByID(contract.ClientID)
	if err != nil || client.CompanyID != uc.CompanyID {
		fm["message"] = "Please choose one of your clients"

		return flash.WithError(c, fm).Redirect("/contracts/new")
	}

	if err := repos.GetContractRepository().Create(contract); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/contracts/new")
	}

	if ids := billboardIDsFromForm(c, uc.CompanyID); len(ids) > 0 {
		if err := repos.GetContractRepository().SetBillboards(contract.ID, ids); err != nil {
			fm["message"] = fmt.Sprintf("contract saved but billboards could not be assigned: %s", err)

			return flash.WithError(c, fm).Redirect("/contracts/" + contract.UUID)
		}
	}

	fm = fiber.Map{"type": "success", "message": "Contract " + contract.Number + " created"}
	return flash.WithSuccess(c, fm).Redirect("/contracts/" + contract.UUID)
}

// HandleContractShow renders the contract detail page.
func HandleContractShow(c *fiber.Ctx) error {
	contract, company, err := contractAggregateForCompany(c)
	if err != nil {
		return err
	}

	data := layoutData(c, "contracts")
	data["Contract"] = buildContractViewModel(company, contract, "")
	return c.Render("contract/show", data, "layouts/main")
}

// HandleContractEdit renders the edit form.
func HandleContractEdit(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()

	contract, _, err := contractAggregateForCompany(c)
	if err != nil {
		return err
	}
	clients, err := repos.GetClientRepository().GetByCompany(uc.CompanyID, 0, 0)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load clients")
	}
	billboards, err := repos.GetBillboardRepository().GetByCompany(uc.CompanyID, 0, 0)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load billboards")
	}

	data := layoutData(c, "contracts")
	data["Contract"] = contract
	data["Clients"] = clients
	data["AvailableBillboards"] = billboards
	return c.Render("contract/form", data, "layouts/main")
}

// HandleContractUpdate applies the edit form including the billboard set.
func HandleContractUpdate(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	contract, _, err := contractAggregateForCompany(c)
	if err != nil {
		return err
	}
	redirectTo := "/contracts/" + contract.UUID + "/edit"

	contractFromForm(c, contract)
	if err := contract.Validate(); err != nil {
		fm["message"] = fmt.Sprintf("invalid input: %s", err)

		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	if err := repos.GetContractRepository().Update(contract); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	if err := repos.GetContractRepository().SetBillboards(contract.ID, billboardIDsFromForm(c, uc.CompanyID)); err != nil {
		fm["message"] = fmt.Sprintf("billboards could not be assigned: %s", err)

		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	fm = fiber.Map{"type": "success", "message": "Contract updated"}
	return flash.WithSuccess(c, fm).Redirect("/contracts/" + contract.UUID)
}

// HandleContractDelete soft-deletes a contract.
func HandleContractDelete(c *fiber.Ctx) error {
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	contract, _, err := contractAggregateForCompany(c)
	if err != nil {
		return err
	}

	if err := repos.GetContractRepository().Delete(contract.ID); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/contracts")
	}

	fm = fiber.Map{"type": "success", "message": "Contract deleted"}
	return flash.WithSuccess(c, fm).Redirect("/contracts")
}

// HandleContractDocument renders the contract document with all placeholders
// substituted. An explicit template can be chosen via ?template_id=, otherwise
// the company default is used.
func HandleContractDocument(c *fiber.Ctx) error {
	contract, company, err := contractAggregateForCompany(c)
	if err != nil {
		return err
	}

	template, err := documentTemplate(c, company.ID)
	if err != nil {
		return err
	}

	rendered := placeholder.Render(template.Body, placeholder.BuildContext(company, contract))

	data := layoutData(c, "contracts")
	data["Contract"] = buildContractViewModel(company, contract, rendered)
	data["Template"] = template
	return c.Render("contract/document", data, "layouts/main")
}

// HandleContractPreviewValues returns the resolved placeholder values for a
// contract as JSON. The template editor uses it for live previews.
func HandleContractPreviewValues(c *fiber.Ctx) error {
	contract, company, err := contractAggregateForCompany(c)
	if err != nil {
		return err
	}

	values := placeholder.PreviewValues(placeholder.BuildContext(company, contract))
	return c.JSON(fiber.Map{
		"contract": contract.UUID,
		"values":   values,
	})
}

// HandleContractExport renders the contract document and archives it in the
// S3 document store. The route is gated on the contracts.export plan feature.
func HandleContractExport(c *fiber.Ctx) error {
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	contract, company, err := contractAggregateForCompany(c)
	if err != nil {
		return err
	}
	redirectTo := "/contracts/" + contract.UUID

	settings, err := repos.GetSettingRepository().Get()
	if err != nil || !settings.IsDocExportEnabled() {
		fm["message"] = "Document export is currently switched off"

		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	template, err := documentTemplate(c, company.ID)
	if err != nil {
		return err
	}
	rendered := placeholder.Render(template.Body, placeholder.BuildContext(company, contract))

	client, err := docexport.GetClient()
	if err != nil {
		fm["message"] = "The document archive is not available"

		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	now := time.Now()
	objectKey := client.ObjectKey(contract.UUID, now.Year(), int(now.Month()))
	if err := client.UploadDocument(c.Context(), objectKey, []byte(rendered)); err != nil {
		fm["message"] = fmt.Sprintf("archiving failed: %s", err)

		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	fm = fiber.Map{"type": "success", "message": "Document archived as " + objectKey}
	return flash.WithSuccess(c, fm).Redirect(redirectTo)
}

// contractAggregateForCompany loads the contract aggregate from the :uuid
// param and verifies it belongs to the active company.
func contractAggregateForCompany(c *fiber.Ctx) (*models.Contract, *models.Company, error) {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()

	contract, err := repos.GetContractRepository().GetByUUID(c.Params("uuid"))
	if err != nil || contract.CompanyID != uc.CompanyID {
		return nil, nil, fiber.NewError(fiber.StatusNotFound, "contract not found")
	}
	aggregate, err := repos.GetContractRepository().GetAggregate(contract.ID)
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "failed to load contract")
	}
	company, err := repos.GetCompanyRepository().GetByID(uc.CompanyID)
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "company not found")
	}
	return aggregate, company, nil
}

// documentTemplate resolves the template to render: an explicit ?template_id=
// belonging to the company, or the company default.
func documentTemplate(c *fiber.Ctx, companyID uint) (*models.ContractTemplate, error) {
	repos := repository.GetGlobalFactory()

	if raw := c.Query("template_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid template id")
		}
		template, err := repos.GetTemplateRepository().GetByID(uint(id))
		if err != nil || template.CompanyID != companyID {
			return nil, fiber.NewError(fiber.StatusNotFound, "template not found")
		}
		return template, nil
	}

	template, err := repos.GetTemplateRepository().GetDefault(companyID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "no default contract template configured")
	}
	return template, nil
}

func buildContractViewModel(company *models.Company, contract *models.Contract, documentHTML string) viewmodel.Contract {
	symbol := company.CurrencySymbol

	vm := viewmodel.Contract{
		UUID:           contract.UUID,
		Number:         contract.Number,
		Status:         contract.Status,
		Type:           contract.Type,
		ClientName:     contract.Client.Name,
		ClientContact:  contract.Client.Representative,
		StartDate:      contract.StartDate.Format("02.01.2006"),
		EndDate:        contract.EndDate.Format("02.01.2006"),
		TotalAmount:    fmt.Sprintf("%.2f %s", contract.TotalAmount, symbol),
		MonthlyAmount:  fmt.Sprintf("%.2f %s", contract.MonthlyAmount, symbol),
		BillboardCount: len(contract.Billboards),
		DocumentHTML:   documentHTML,
	}
	if contract.SignedAt != nil {
		vm.SignedAt = contract.SignedAt.Format("02.01.2006")
	}
	for _, b := range contract.Billboards {
		location := b.Address
		if b.City != "" {
			if location != "" {
				location += ", "
			}
			location += b.City
		}
		vm.Billboards = append(vm.Billboards, viewmodel.ContractBillboard{
			Code:       b.Code,
			Location:   location,
			Dimensions: b.Dimensions(),
			ThumbPath:  b.ThumbPath,
		})
	}
	return vm
}

func contractFromForm(c *fiber.Ctx, contract *models.Contract) *models.Contract {
	contract.Number = strings.TrimSpace(c.FormValue("number"))
	contract.ClientID = paramlessUint(c.FormValue("client_id"))
	if t := c.FormValue("type"); t != "" {
		contract.Type = t
	}
	if status := c.FormValue("status"); status != "" {
		contract.Status = status
	}
	if start, err := time.Parse(dateFormValue, c.FormValue("start_date")); err == nil {
		contract.StartDate = start
	}
	if end, err := time.Parse(dateFormValue, c.FormValue("end_date")); err == nil {
		contract.EndDate = end
	}
	if signed, err := time.Parse(dateFormValue, c.FormValue("signed_at")); err == nil {
		contract.SignedAt = &signed
	}
	contract.SignedBy = strings.TrimSpace(c.FormValue("signed_by"))
	contract.TotalAmount = formFloat(c, "total_amount")
	contract.MonthlyAmount = formFloat(c, "monthly_amount")
	if code := strings.ToUpper(strings.TrimSpace(c.FormValue("currency_code"))); code != "" {
		contract.CurrencyCode = code
	}
	contract.PaymentTerms = strings.TrimSpace(c.FormValue("payment_terms"))
	contract.Notes = c.FormValue("notes")
	return contract
}

// billboardIDsFromForm reads the multi-select billboard assignment and keeps
// only billboards owned by the company.
func billboardIDsFromForm(c *fiber.Ctx, companyID uint) []uint {
	repos := repository.GetGlobalFactory()

	var ids []uint
	form, err := c.MultipartForm()
	values := []string{}
	if err == nil && form != nil {
		values = form.Value["billboard_ids"]
	}
	if len(values) == 0 {
		if raw := c.FormValue("billboard_ids"); raw != "" {
			values = strings.Split(raw, ",")
		}
	}
	for _, raw := range values {
		id := paramlessUint(strings.TrimSpace(raw))
		if id == 0 {
			continue
		}
		billboard, err := repos.GetBillboardRepository().GetByID(id)
		if err != nil || billboard.CompanyID != companyID {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func paramlessUint(raw string) uint {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}
