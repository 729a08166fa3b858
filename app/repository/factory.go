package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetCompanyRepository returns the company repository instance
func (f *Factory) GetCompanyRepository() CompanyRepository {
	return f.GetRepositories().Company
}

// GetInvitationRepository returns the invitation repository instance
func (f *Factory) GetInvitationRepository() InvitationRepository {
	return f.GetRepositories().Invitation
}

// GetBillboardRepository returns the billboard repository instance
func (f *Factory) GetBillboardRepository() BillboardRepository {
	return f.GetRepositories().Billboard
}

// GetClientRepository returns the client repository instance
func (f *Factory) GetClientRepository() ClientRepository {
	return f.GetRepositories().Client
}

// GetContractRepository returns the contract repository instance
func (f *Factory) GetContractRepository() ContractRepository {
	return f.GetRepositories().Contract
}

// GetTemplateRepository returns the template repository instance
func (f *Factory) GetTemplateRepository() TemplateRepository {
	return f.GetRepositories().Template
}

// GetPlanRuleRepository returns the plan rule repository instance
func (f *Factory) GetPlanRuleRepository() PlanRuleRepository {
	return f.GetRepositories().PlanRule
}

// GetSettingRepository returns the setting repository instance
func (f *Factory) GetSettingRepository() SettingRepository {
	return f.GetRepositories().Setting
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
