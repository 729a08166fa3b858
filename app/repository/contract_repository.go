package repository

import (
	"gorm.io/gorm"

	"github.com/TobiasFuchs/AdBoard/app/models"
)

type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository instance
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Create(contract *models.Contract) error {
	return r.db.Create(contract).Error
}

func (r *contractRepository) GetByID(id uint) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) GetByUUID(uuid string) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.Where("uuid = ?", uuid).First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) GetAggregate(id uint) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.Preload("Client").Preload("Billboards").First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) GetByCompany(companyID uint, offset, limit int) ([]models.Contract, error) {
	var contracts []models.Contract
	q := r.db.Preload("Client").
		Where("company_id = ?", companyID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	err := q.Find(&contracts).Error
	return contracts, err
}

func (r *contractRepository) CountByCompany(companyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Contract{}).Where("company_id = ?", companyID).Count(&count).Error
	return count, err
}

// SetBillboards replaces the billboard assignment of a contract.
func (r *contractRepository) SetBillboards(contractID uint, billboardIDs []uint) error {
	contract := models.Contract{}
	contract.ID = contractID

	var billboards []models.Billboard
	if len(billboardIDs) > 0 {
		if err := r.db.Find(&billboards, billboardIDs).Error; err != nil {
			return err
		}
	}
	return r.db.Model(&contract).Association("Billboards").Replace(billboards)
}

func (r *contractRepository) Update(contract *models.Contract) error {
	return r.db.Save(contract).Error
}

func (r *contractRepository) Delete(id uint) error {
	return r.db.Delete(&models.Contract{}, id).Error
}
