package model

import (
	"time"

	"gorm.io/gorm"
)

type SetStatus string

const (
	StatusActive   SetStatus = "active"
	StatusInactive SetStatus = "inactive"
)

// OptionSet is a named bundle of options and conditional rules that can be
// assigned to any number of products.
type OptionSet struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"not null;index" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Status      SetStatus      `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Options []Option `gorm:"foreignKey:OptionSetID" json:"options,omitempty"`
	Rules   []Rule   `gorm:"foreignKey:OptionSetID" json:"rules,omitempty"`
}

func (OptionSet) TableName() string {
	return "option_sets"
}

// ProductOptionSet assigns an option set to a product. Position orders the
// sets on the product page.
type ProductOptionSet struct {
	ID                  uint      `gorm:"primarykey" json:"id"`
	ProductID           uint      `gorm:"uniqueIndex:idx_product_set;not null" json:"product_id"`
	OptionSetID         uint      `gorm:"uniqueIndex:idx_product_set;not null" json:"option_set_id"`
	Position            int       `gorm:"default:0" json:"position"`
	ReplaceVariations   bool      `gorm:"default:false" json:"replace_variations"`
	HideOriginalOptions bool      `gorm:"default:false" json:"hide_original_options"`
	CreatedAt           time.Time `json:"created_at"`

	OptionSet OptionSet `gorm:"foreignKey:OptionSetID" json:"-"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"-"`
}

func (ProductOptionSet) TableName() string {
	return "product_option_sets"
}
