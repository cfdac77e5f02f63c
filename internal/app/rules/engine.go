package rules

import (
	"sort"

	"github.com/okim/optionlogic-backend/internal/app/model"
)

// AggregateEffect is the net outcome of one evaluation pass over an option
// set's rules: which options and values end up hidden, which options are
// required, and the summed price delta from price_modifier rules. The
// consumer applies hidden state on top of default visibility.
type AggregateEffect struct {
	HiddenOptions   []uint        `json:"hidden_options"`
	HiddenValues    []ValueKey    `json:"hidden_values"`
	RequiredOptions []uint        `json:"required_options"`
	PriceEffects    []PriceEffect `json:"price_effects,omitempty"`
	PriceModifier   float64       `json:"price_modifier"`
}

// Apply runs every active rule against the selections, in stored order, and
// folds the firing rules' effects together. Hide and show compete per target
// with last write winning, so a later show rule can reverse an earlier hide
// within the same pass. Required options only accumulate. Rules whose
// condition or action fails to parse are skipped, never fatal.
//
// The pass is a full re-evaluation from scratch: it holds no state between
// calls and is idempotent for identical inputs.
func Apply(ruleList []model.Rule, selections Selections) AggregateEffect {
	hiddenOptions := make(map[uint]struct{})
	hiddenValues := make(map[ValueKey]struct{})
	requiredOptions := make(map[uint]struct{})
	var priceEffects []PriceEffect

	for i := range ruleList {
		rule := &ruleList[i]
		if rule.Status != model.StatusActive {
			continue
		}

		condition, err := ParseCondition(rule.Condition)
		if err != nil {
			continue // inert rule
		}
		action, err := ParseAction(rule.Action)
		if err != nil {
			continue
		}

		if !condition.Evaluate(selections) {
			continue
		}

		effect := action.Effect()
		for id := range effect.HiddenOptions {
			hiddenOptions[id] = struct{}{}
		}
		for id := range effect.ShownOptions {
			delete(hiddenOptions, id)
		}
		for key := range effect.HiddenValues {
			hiddenValues[key] = struct{}{}
		}
		for key := range effect.ShownValues {
			delete(hiddenValues, key)
		}
		for id := range effect.RequiredOptions {
			requiredOptions[id] = struct{}{}
		}
		if effect.Price != nil {
			priceEffects = append(priceEffects, *effect.Price)
		}
	}

	aggregate := AggregateEffect{
		HiddenOptions:   sortedIDs(hiddenOptions),
		HiddenValues:    sortedKeys(hiddenValues),
		RequiredOptions: sortedIDs(requiredOptions),
		PriceEffects:    priceEffects,
	}
	for _, pe := range priceEffects {
		// percentage price types are stored but computed as fixed amounts
		aggregate.PriceModifier += pe.Amount
	}
	return aggregate
}

// OptionHidden reports whether the option ended up hidden.
func (e *AggregateEffect) OptionHidden(optionID uint) bool {
	for _, id := range e.HiddenOptions {
		if id == optionID {
			return true
		}
	}
	return false
}

// OptionRequired reports whether a rule marked the option required.
func (e *AggregateEffect) OptionRequired(optionID uint) bool {
	for _, id := range e.RequiredOptions {
		if id == optionID {
			return true
		}
	}
	return false
}

// ValueHidden reports whether the specific option value ended up hidden.
func (e *AggregateEffect) ValueHidden(optionID uint, value string) bool {
	for _, key := range e.HiddenValues {
		if key.OptionID == optionID && key.Value == value {
			return true
		}
	}
	return false
}

func sortedIDs(set map[uint]struct{}) []uint {
	ids := make([]uint, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedKeys(set map[ValueKey]struct{}) []ValueKey {
	keys := make([]ValueKey, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].OptionID != keys[j].OptionID {
			return keys[i].OptionID < keys[j].OptionID
		}
		return keys[i].Value < keys[j].Value
	})
	return keys
}
