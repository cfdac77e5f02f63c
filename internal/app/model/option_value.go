package model

import (
	"time"

	"gorm.io/gorm"
)

type PriceType string

const (
	PriceFixed PriceType = "fixed"
	// PricePercentage is accepted in storage but computed as fixed; the
	// original product never defined percentage arithmetic.
	PricePercentage PriceType = "percentage"
)

// OptionValue is one selectable choice within an option. Value is the
// machine-comparable token, unique per option, defaulting to a slugified
// label. PriceModifier is a signed amount added to the product base price
// when this value is selected.
type OptionValue struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	OptionID      uint           `gorm:"uniqueIndex:idx_option_token;not null" json:"option_id"`
	Label         string         `gorm:"not null" json:"label"`
	Value         string         `gorm:"uniqueIndex:idx_option_token;not null" json:"value"`
	PriceModifier float64        `gorm:"type:decimal(10,2);default:0" json:"price_modifier"`
	PriceType     PriceType      `gorm:"type:varchar(20);default:'fixed'" json:"price_type"`
	Description   string         `gorm:"type:text" json:"description"`
	ImageURL      string         `gorm:"size:500" json:"image_url"`
	ColorHex      string         `gorm:"size:7" json:"color_hex"`
	Position      int            `gorm:"default:0;index" json:"position"`
	IsDefault     bool           `gorm:"default:false" json:"is_default"`
	Status        SetStatus      `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (OptionValue) TableName() string {
	return "option_values"
}
