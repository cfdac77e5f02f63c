package model

import (
	"time"

	"gorm.io/gorm"
)

type OptionType string

const (
	TypeText        OptionType = "text"
	TypeTextarea    OptionType = "textarea"
	TypeNumber      OptionType = "number"
	TypeDate        OptionType = "date"
	TypeCheckbox    OptionType = "checkbox"
	TypeRadio       OptionType = "radio"
	TypeDropdown    OptionType = "dropdown"
	TypeSwatch      OptionType = "swatch"
	TypeMultiSwatch OptionType = "multi_swatch"
	TypeButton      OptionType = "button"
	TypeFile        OptionType = "file"
)

// Option is one configurable product field inside an option set. Position
// defines display order; ties break by insertion order.
type Option struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	OptionSetID  uint           `gorm:"index;not null" json:"option_set_id"`
	Name         string         `gorm:"not null" json:"name"`
	Type         OptionType     `gorm:"type:varchar(50);not null" json:"type"`
	Required     bool           `gorm:"default:false" json:"required"`
	Multiple     bool           `gorm:"default:false" json:"multiple"`
	MinSelection int            `gorm:"default:0" json:"min_selection"`
	MaxSelection int            `gorm:"default:0" json:"max_selection"`
	Description  string         `gorm:"type:text" json:"description"`
	Position     int            `gorm:"default:0;index" json:"position"`
	Status       SetStatus      `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Values []OptionValue `gorm:"foreignKey:OptionID" json:"values,omitempty"`
}

func (Option) TableName() string {
	return "options"
}

// HasValues reports whether this option type owns selectable values.
// Free-form types (text, textarea, number, date, file) do not.
func (o *Option) HasValues() bool {
	switch o.Type {
	case TypeCheckbox, TypeRadio, TypeDropdown, TypeSwatch, TypeMultiSwatch, TypeButton:
		return true
	}
	return false
}

// IsMultiple reports whether the option accepts more than one selected value.
func (o *Option) IsMultiple() bool {
	return o.Type == TypeCheckbox || o.Type == TypeMultiSwatch || o.Multiple
}
