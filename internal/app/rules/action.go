package rules

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Action types a rule can carry. Anything else resolves to a no-op.
const (
	ActionHide          = "hide"
	ActionShow          = "show"
	ActionRequire       = "require"
	ActionPriceModifier = "price_modifier"
)

// ValueKey identifies one selectable value of one option.
type ValueKey struct {
	OptionID uint   `json:"option_id"`
	Value    string `json:"value"`
}

// flexFloat reads a JSON number or a numeric string as a float. Non-numeric
// strings read as 0.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(n)
	return nil
}

type targetValue struct {
	OptionID flexID     `json:"option_id"`
	Value    flexString `json:"value"`
}

// Action is the effect descriptor of a rule.
type Action struct {
	Type          string        `json:"type"`
	TargetOptions []flexID      `json:"target_options"`
	TargetValues  []targetValue `json:"target_values"`
	PriceModifier flexFloat     `json:"price_modifier"`
	PriceType     string        `json:"price_type"`
}

// ParseAction deserializes an action document, tolerating unknown fields.
func ParseAction(raw []byte) (*Action, error) {
	var action Action
	if err := json.Unmarshal(raw, &action); err != nil {
		return nil, err
	}
	return &action, nil
}

// PriceEffect is a pending price delta emitted by a price_modifier action.
type PriceEffect struct {
	Amount float64 `json:"amount"`
	Type   string  `json:"type"`
}

// Effect is the structured outcome of a single resolved action. Sets are
// keyed maps so unions stay cheap; only the sets matching the action type
// are populated.
type Effect struct {
	HiddenOptions   map[uint]struct{}
	HiddenValues    map[ValueKey]struct{}
	ShownOptions    map[uint]struct{}
	ShownValues     map[ValueKey]struct{}
	RequiredOptions map[uint]struct{}
	Price           *PriceEffect
}

// Effect resolves the action into its structured effect. A malformed or
// unrecognized action type yields an empty effect, never an error.
func (a *Action) Effect() Effect {
	effect := Effect{
		HiddenOptions:   make(map[uint]struct{}),
		HiddenValues:    make(map[ValueKey]struct{}),
		ShownOptions:    make(map[uint]struct{}),
		ShownValues:     make(map[ValueKey]struct{}),
		RequiredOptions: make(map[uint]struct{}),
	}
	if a == nil {
		return effect
	}

	switch a.Type {
	case ActionHide:
		for _, id := range a.TargetOptions {
			effect.HiddenOptions[uint(id)] = struct{}{}
		}
		for _, tv := range a.TargetValues {
			effect.HiddenValues[ValueKey{OptionID: uint(tv.OptionID), Value: string(tv.Value)}] = struct{}{}
		}
	case ActionShow:
		for _, id := range a.TargetOptions {
			effect.ShownOptions[uint(id)] = struct{}{}
		}
		for _, tv := range a.TargetValues {
			effect.ShownValues[ValueKey{OptionID: uint(tv.OptionID), Value: string(tv.Value)}] = struct{}{}
		}
	case ActionRequire:
		for _, id := range a.TargetOptions {
			effect.RequiredOptions[uint(id)] = struct{}{}
		}
	case ActionPriceModifier:
		priceType := a.PriceType
		if priceType == "" {
			priceType = "fixed"
		}
		effect.Price = &PriceEffect{
			Amount: float64(a.PriceModifier),
			Type:   priceType,
		}
	}

	return effect
}
