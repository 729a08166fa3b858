package repository

import (
	"gorm.io/gorm"

	"github.com/TobiasFuchs/AdBoard/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	Count() (int64, error)
}

// CompanyRepository defines the interface for tenant-related operations
type CompanyRepository interface {
	Create(company *models.Company) error
	GetByID(id uint) (*models.Company, error)
	GetByAPIKeyHash(hash string) (*models.Company, error)
	GetForUser(userID uint) ([]models.Company, error)
	GetMembership(companyID, userID uint) (*models.CompanyMember, error)
	AddMember(member *models.CompanyMember) error
	RemoveMember(companyID, userID uint) error
	ListMembers(companyID uint) ([]models.CompanyMember, error)
	CountMembers(companyID uint) (int64, error)
	Update(company *models.Company) error
	Delete(id uint) error
}

// InvitationRepository defines the interface for team invitations
type InvitationRepository interface {
	Create(invitation *models.Invitation) error
	GetByToken(token string) (*models.Invitation, error)
	GetOpenByCompany(companyID uint) ([]models.Invitation, error)
	Update(invitation *models.Invitation) error
	Delete(id uint) error
}

// BillboardRepository defines the interface for billboard operations
type BillboardRepository interface {
	Create(billboard *models.Billboard) error
	GetByID(id uint) (*models.Billboard, error)
	GetByUUID(uuid string) (*models.Billboard, error)
	GetByCompany(companyID uint, offset, limit int) ([]models.Billboard, error)
	CountByCompany(companyID uint) (int64, error)
	Search(companyID uint, query string) ([]models.Billboard, error)
	Update(billboard *models.Billboard) error
	Delete(id uint) error
}

// ClientRepository defines the interface for advertiser client operations
type ClientRepository interface {
	Create(client *models.Client) error
	GetByID(id uint) (*models.Client, error)
	GetByCompany(companyID uint, offset, limit int) ([]models.Client, error)
	CountByCompany(companyID uint) (int64, error)
	Update(client *models.Client) error
	Delete(id uint) error
}

// ContractRepository defines the interface for contract aggregate operations
type ContractRepository interface {
	Create(contract *models.Contract) error
	GetByID(id uint) (*models.Contract, error)
	GetByUUID(uuid string) (*models.Contract, error)
	// GetAggregate loads the contract with its client and billboards for
	// document rendering.
	GetAggregate(id uint) (*models.Contract, error)
	GetByCompany(companyID uint, offset, limit int) ([]models.Contract, error)
	CountByCompany(companyID uint) (int64, error)
	SetBillboards(contractID uint, billboardIDs []uint) error
	Update(contract *models.Contract) error
	Delete(id uint) error
}

// TemplateRepository defines the interface for contract document templates
type TemplateRepository interface {
	Create(template *models.ContractTemplate) error
	GetByID(id uint) (*models.ContractTemplate, error)
	GetByCompany(companyID uint) ([]models.ContractTemplate, error)
	GetDefault(companyID uint) (*models.ContractTemplate, error)
	CountByCompany(companyID uint) (int64, error)
	Update(template *models.ContractTemplate) error
	Delete(id uint) error
}

// PlanRuleRepository defines the interface for plan rule administration.
// The entitlements gate reads rules through its own cached store; this
// repository is the admin write path.
type PlanRuleRepository interface {
	GetAll() ([]models.PlanRule, error)
	GetByPlan(planID string) ([]models.PlanRule, error)
	Upsert(rule *models.PlanRule) error
	Delete(id uint) error
}

// SettingRepository defines the interface for application settings
type SettingRepository interface {
	Get() (*models.AppSettings, error)
	Save(settings *models.AppSettings) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User       UserRepository
	Company    CompanyRepository
	Invitation InvitationRepository
	Billboard  BillboardRepository
	Client     ClientRepository
	Contract   ContractRepository
	Template   TemplateRepository
	PlanRule   PlanRuleRepository
	Setting    SettingRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Company:    NewCompanyRepository(db),
		Invitation: NewInvitationRepository(db),
		Billboard:  NewBillboardRepository(db),
		Client:     NewClientRepository(db),
		Contract:   NewContractRepository(db),
		Template:   NewTemplateRepository(db),
		PlanRule:   NewPlanRuleRepository(db),
		Setting:    NewSettingRepository(db),
	}
}
