package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Rule pairs a condition tree with an action, scoped to an option set.
// Condition and Action are stored as JSON documents; shapes that fail to
// parse make the rule inert at evaluation time rather than failing the pass.
type Rule struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	OptionSetID uint           `gorm:"index;not null" json:"option_set_id"`
	Name        string         `gorm:"not null;index" json:"name"`
	Condition   datatypes.JSON `gorm:"not null" json:"condition"`
	Action      datatypes.JSON `gorm:"not null" json:"action"`
	Status      SetStatus      `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Rule) TableName() string {
	return "rules"
}
