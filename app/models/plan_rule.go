package models

import "time"

// PlanRule is one (plan, feature key) -> raw value row. Values are stored as
// strings and interpreted by the entitlements gate: "1"/"true"/"yes"/"on"
// for booleans, an integer literal or "unlimited" for limits.
type PlanRule struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlanID    string    `gorm:"type:varchar(50);not null;index:ux_plan_rules_plan_key,unique,priority:1" json:"plan_id"`
	Key       string    `gorm:"column:rule_key;type:varchar(100);not null;index:ux_plan_rules_plan_key,unique,priority:2" json:"key"`
	Value     string    `gorm:"column:rule_value;type:varchar(100);not null" json:"value"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
