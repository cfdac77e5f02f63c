package model

import (
	"time"

	"gorm.io/gorm"
)

// Product carries the base price that option price modifiers adjust. Catalog
// management beyond that lives in the storefront platform, not here.
type Product struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	BasePrice float64        `gorm:"not null" json:"base_price"`
	Status    SetStatus      `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OptionSets []ProductOptionSet `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
