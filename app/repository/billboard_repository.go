package repository

import (
	"gorm.io/gorm"

	"github.com/TobiasFuchs/AdBoard/app/models"
)

type billboardRepository struct {
	db *gorm.DB
}

// NewBillboardRepository creates a new billboard repository instance
func NewBillboardRepository(db *gorm.DB) BillboardRepository {
	return &billboardRepository{db: db}
}

func (r *billboardRepository) Create(billboard *models.Billboard) error {
	return r.db.Create(billboard).Error
}

func (r *billboardRepository) GetByID(id uint) (*models.Billboard, error) {
	var billboard models.Billboard
	err := r.db.First(&billboard, id).Error
	if err != nil {
		return nil, err
	}
	return &billboard, nil
}

func (r *billboardRepository) GetByUUID(uuid string) (*models.Billboard, error) {
	var billboard models.Billboard
	err := r.db.Where("uuid = ?", uuid).First(&billboard).Error
	if err != nil {
		return nil, err
	}
	return &billboard, nil
}

func (r *billboardRepository) GetByCompany(companyID uint, offset, limit int) ([]models.Billboard, error) {
	var billboards []models.Billboard
	q := r.db.Where("company_id = ?", companyID).Order("code ASC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	err := q.Find(&billboards).Error
	return billboards, err
}

func (r *billboardRepository) CountByCompany(companyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Billboard{}).Where("company_id = ?", companyID).Count(&count).Error
	return count, err
}

func (r *billboardRepository) Search(companyID uint, query string) ([]models.Billboard, error) {
	var billboards []models.Billboard
	like := "%" + query + "%"
	err := r.db.Where("company_id = ?", companyID).
		Where("code LIKE ? OR address LIKE ? OR city LIKE ? OR municipality LIKE ?", like, like, like, like).
		Order("code ASC").
		Find(&billboards).Error
	return billboards, err
}

func (r *billboardRepository) Update(billboard *models.Billboard) error {
	return r.db.Save(billboard).Error
}

func (r *billboardRepository) Delete(id uint) error {
	return r.db.Delete(&models.Billboard{}, id).Error
}
