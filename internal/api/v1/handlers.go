package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TobiasFuchs/AdBoard/app/models"
	"github.com/TobiasFuchs/AdBoard/app/repository"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/placeholder"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/usercontext"
)

// Pong is the ping endpoint response body.
type Pong struct {
	Ping string `json:"ping"`
}

// APIServer implements the public v1 endpoints. Authentication and the
// api.access plan gate are enforced by middleware attached in the router.
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// RegisterHandlers attaches the v1 endpoints to the given router group.
func RegisterHandlers(r fiber.Router, s *APIServer) {
	r.Get("/ping", s.GetPing)
	r.Get("/company", s.GetCompany)
	r.Get("/billboards", s.GetBillboards)
	r.Get("/contracts", s.GetContracts)
	r.Get("/contracts/:uuid/placeholder-values", s.GetContractPlaceholderValues)
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetCompany returns the company the API key belongs to.
func (s *APIServer) GetCompany(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	company, err := repository.GetGlobalFactory().GetCompanyRepository().GetByID(uc.CompanyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error"})
	}

	return c.JSON(fiber.Map{
		"id":            company.ID,
		"name":          company.Name,
		"plan":          company.Plan,
		"currency_code": company.CurrencyCode,
		"created_at":    company.CreatedAt,
	})
}

// GetBillboards lists the billboard inventory of the key's company. Supports
// ?q= free-text search and offset/limit paging.
func (s *APIServer) GetBillboards(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetBillboardRepository()

	var (
		billboards []models.Billboard
		err        error
	)
	if q := c.Query("q"); q != "" {
		billboards, err = repo.Search(uc.CompanyID, q)
	} else {
		billboards, err = repo.GetByCompany(uc.CompanyID, c.QueryInt("offset", 0), c.QueryInt("limit", 0))
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error"})
	}

	total, err := repo.CountByCompany(uc.CompanyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error"})
	}

	return c.JSON(fiber.Map{
		"billboards": billboards,
		"total":      total,
	})
}

// GetContracts lists the contracts of the key's company.
func (s *APIServer) GetContracts(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetContractRepository()

	contracts, err := repo.GetByCompany(uc.CompanyID, c.QueryInt("offset", 0), c.QueryInt("limit", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error"})
	}

	total, err := repo.CountByCompany(uc.CompanyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error"})
	}

	return c.JSON(fiber.Map{
		"contracts": contracts,
		"total":     total,
	})
}

// GetContractPlaceholderValues resolves every document placeholder for a
// contract without rendering a template. API consumers use it to fill their
// own document layouts.
func (s *APIServer) GetContractPlaceholderValues(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()

	contract, err := repos.GetContractRepository().GetByUUID(c.Params("uuid"))
	if err != nil || contract.CompanyID != uc.CompanyID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "contract not found"})
	}
	aggregate, err := repos.GetContractRepository().GetAggregate(contract.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error"})
	}
	company, err := repos.GetCompanyRepository().GetByID(uc.CompanyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error"})
	}

	values := placeholder.PreviewValues(placeholder.BuildContext(company, aggregate))
	return c.JSON(fiber.Map{
		"contract": aggregate.UUID,
		"values":   values,
	})
}
