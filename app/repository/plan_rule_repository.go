package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/TobiasFuchs/AdBoard/app/models"
)

type planRuleRepository struct {
	db *gorm.DB
}

// NewPlanRuleRepository creates a new plan rule repository instance
func NewPlanRuleRepository(db *gorm.DB) PlanRuleRepository {
	return &planRuleRepository{db: db}
}

func (r *planRuleRepository) GetAll() ([]models.PlanRule, error) {
	var rules []models.PlanRule
	err := r.db.Order("plan_id ASC, rule_key ASC").Find(&rules).Error
	return rules, err
}

func (r *planRuleRepository) GetByPlan(planID string) ([]models.PlanRule, error) {
	var rules []models.PlanRule
	err := r.db.Where("plan_id = ?", planID).Order("rule_key ASC").Find(&rules).Error
	return rules, err
}

// Upsert inserts the rule or updates the value of an existing (plan, key) pair.
func (r *planRuleRepository) Upsert(rule *models.PlanRule) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "plan_id"}, {Name: "rule_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"rule_value", "updated_at"}),
	}).Create(rule).Error
}

func (r *planRuleRepository) Delete(id uint) error {
	return r.db.Delete(&models.PlanRule{}, id).Error
}
