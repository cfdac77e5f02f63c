package rules

import (
	"github.com/okim/optionlogic-backend/internal/app/model"
)

// ValueStore is a read-only view of the selectable values per option, taken
// as a stable snapshot for the duration of one evaluation.
type ValueStore interface {
	ValuesForOption(optionID uint) []model.OptionValue
}

// MapValueStore is a ValueStore over an in-memory snapshot.
type MapValueStore map[uint][]model.OptionValue

func (m MapValueStore) ValuesForOption(optionID uint) []model.OptionValue {
	return m[optionID]
}

// TotalModifier sums the price modifiers of every selected value token
// across all options. Free-form options contribute nothing because they own
// no values. The result is a raw signed delta; callers clamp base+delta at
// zero before display.
func TotalModifier(selections Selections, store ValueStore) float64 {
	var total float64
	for optionID, selected := range selections {
		for _, value := range store.ValuesForOption(optionID) {
			if selected.Has(value.Value) {
				total += value.PriceModifier
			}
		}
	}
	return total
}
