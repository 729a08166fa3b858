package repository

import (
	"gorm.io/gorm"

	"github.com/TobiasFuchs/AdBoard/app/models"
)

// companyRepository implements the CompanyRepository interface
type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company repository instance
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(company *models.Company) error {
	return r.db.Create(company).Error
}

func (r *companyRepository) GetByID(id uint) (*models.Company, error) {
	var company models.Company
	err := r.db.First(&company, id).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) GetByAPIKeyHash(hash string) (*models.Company, error) {
	var company models.Company
	err := r.db.Where("api_key_hash = ? AND api_key_hash <> ''", hash).First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// GetForUser returns all companies the user is a member of, newest first.
func (r *companyRepository) GetForUser(userID uint) ([]models.Company, error) {
	var companies []models.Company
	err := r.db.
		Joins("JOIN company_members ON company_members.company_id = companies.id").
		Where("company_members.user_id = ? AND company_members.deleted_at IS NULL", userID).
		Order("companies.created_at DESC").
		Find(&companies).Error
	return companies, err
}

func (r *companyRepository) GetMembership(companyID, userID uint) (*models.CompanyMember, error) {
	var member models.CompanyMember
	err := r.db.Where("company_id = ? AND user_id = ?", companyID, userID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *companyRepository) AddMember(member *models.CompanyMember) error {
	return r.db.Create(member).Error
}

func (r *companyRepository) RemoveMember(companyID, userID uint) error {
	return r.db.Where("company_id = ? AND user_id = ?", companyID, userID).
		Delete(&models.CompanyMember{}).Error
}

func (r *companyRepository) ListMembers(companyID uint) ([]models.CompanyMember, error) {
	var members []models.CompanyMember
	err := r.db.Preload("User").Where("company_id = ?", companyID).
		Order("created_at ASC").Find(&members).Error
	return members, err
}

func (r *companyRepository) CountMembers(companyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CompanyMember{}).Where("company_id = ?", companyID).Count(&count).Error
	return count, err
}

func (r *companyRepository) Update(company *models.Company) error {
	return r.db.Save(company).Error
}

func (r *companyRepository) Delete(id uint) error {
	return r.db.Delete(&models.Company{}, id).Error
}
