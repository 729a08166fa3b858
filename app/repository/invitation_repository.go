package repository

import (
	"gorm.io/gorm"

	"github.com/TobiasFuchs/AdBoard/app/models"
)

type invitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new invitation repository instance
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Create(invitation *models.Invitation) error {
	return r.db.Create(invitation).Error
}

func (r *invitationRepository) GetByToken(token string) (*models.Invitation, error) {
	var invitation models.Invitation
	err := r.db.Where("token = ?", token).First(&invitation).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *invitationRepository) GetOpenByCompany(companyID uint) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := r.db.Where("company_id = ? AND accepted_at IS NULL AND expires_at > NOW()", companyID).
		Order("created_at DESC").Find(&invitations).Error
	return invitations, err
}

func (r *invitationRepository) Update(invitation *models.Invitation) error {
	return r.db.Save(invitation).Error
}

func (r *invitationRepository) Delete(id uint) error {
	return r.db.Delete(&models.Invitation{}, id).Error
}
