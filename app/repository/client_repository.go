package repository

import (
	"gorm.io/gorm"

	"github.com/TobiasFuchs/AdBoard/app/models"
)

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository instance
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(client *models.Client) error {
	return r.db.Create(client).Error
}

func (r *clientRepository) GetByID(id uint) (*models.Client, error) {
	var client models.Client
	err := r.db.First(&client, id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) GetByCompany(companyID uint, offset, limit int) ([]models.Client, error) {
	var clients []models.Client
	q := r.db.Where("company_id = ?", companyID).Order("name ASC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	err := q.Find(&clients).Error
	return clients, err
}

func (r *clientRepository) CountByCompany(companyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Client{}).Where("company_id = ?", companyID).Count(&count).Error
	return count, err
}

func (r *clientRepository) Update(client *models.Client) error {
	return r.db.Save(client).Error
}

func (r *clientRepository) Delete(id uint) error {
	return r.db.Delete(&models.Client{}, id).Error
}
