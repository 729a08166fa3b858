package repository

import (
	"gorm.io/gorm"

	"github.com/TobiasFuchs/AdBoard/app/models"
)

type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new contract template repository instance
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Create(template *models.ContractTemplate) error {
	return r.db.Create(template).Error
}

func (r *templateRepository) GetByID(id uint) (*models.ContractTemplate, error) {
	var template models.ContractTemplate
	err := r.db.First(&template, id).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *templateRepository) GetByCompany(companyID uint) ([]models.ContractTemplate, error) {
	var templates []models.ContractTemplate
	err := r.db.Where("company_id = ?", companyID).
		Order("is_default DESC, name ASC").
		Find(&templates).Error
	return templates, err
}

func (r *templateRepository) GetDefault(companyID uint) (*models.ContractTemplate, error) {
	var template models.ContractTemplate
	err := r.db.Where("company_id = ? AND is_default = ?", companyID, true).First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *templateRepository) CountByCompany(companyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ContractTemplate{}).Where("company_id = ?", companyID).Count(&count).Error
	return count, err
}

func (r *templateRepository) Update(template *models.ContractTemplate) error {
	return r.db.Save(template).Error
}

func (r *templateRepository) Delete(id uint) error {
	return r.db.Delete(&models.ContractTemplate{}, id).Error
}
