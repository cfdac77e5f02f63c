package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/okim/optionlogic-backend/internal/app/model"
)

func makeRule(name, condition, action string, status model.SetStatus) model.Rule {
	return model.Rule{
		Name:      name,
		Condition: datatypes.JSON(condition),
		Action:    datatypes.JSON(action),
		Status:    status,
	}
}

func TestApply(t *testing.T) {
	hideWhenLarge := makeRule("hide engraving for large",
		`{"operator":"and","conditions":[{"option_id":1,"comparison":"equals","value":"large"}]}`,
		`{"type":"hide","target_options":[2]}`,
		model.StatusActive)

	showWhenGift := makeRule("show engraving for gift wrap",
		`{"operator":"and","conditions":[{"option_id":3,"comparison":"contains","value":"gift_wrap"}]}`,
		`{"type":"show","target_options":[2]}`,
		model.StatusActive)

	requireWhenLarge := makeRule("require message for large",
		`{"operator":"and","conditions":[{"option_id":1,"comparison":"equals","value":"large"}]}`,
		`{"type":"require","target_options":[4]}`,
		model.StatusActive)

	surcharge := makeRule("large surcharge",
		`{"operator":"and","conditions":[{"option_id":1,"comparison":"equals","value":"large"}]}`,
		`{"type":"price_modifier","price_modifier":5,"price_type":"fixed"}`,
		model.StatusActive)

	t.Run("Fired hide rule hides its targets", func(t *testing.T) {
		effect := Apply([]model.Rule{hideWhenLarge}, Selections{1: Value("large")})
		assert.True(t, effect.OptionHidden(2))
		assert.False(t, effect.OptionHidden(1))
	})

	t.Run("Unfired rule leaves targets visible", func(t *testing.T) {
		effect := Apply([]model.Rule{hideWhenLarge}, Selections{1: Value("small")})
		assert.False(t, effect.OptionHidden(2))
	})

	t.Run("Later show reverses earlier hide", func(t *testing.T) {
		selections := Selections{1: Value("large"), 3: Values("gift_wrap")}
		effect := Apply([]model.Rule{hideWhenLarge, showWhenGift}, selections)
		assert.False(t, effect.OptionHidden(2))
	})

	t.Run("Later hide reverses earlier show", func(t *testing.T) {
		selections := Selections{1: Value("large"), 3: Values("gift_wrap")}
		effect := Apply([]model.Rule{showWhenGift, hideWhenLarge}, selections)
		assert.True(t, effect.OptionHidden(2))
	})

	t.Run("Required options accumulate across rules", func(t *testing.T) {
		other := makeRule("require phone",
			`{"operator":"and","conditions":[{"option_id":1,"comparison":"not_empty","value":""}]}`,
			`{"type":"require","target_options":[5]}`,
			model.StatusActive)
		effect := Apply([]model.Rule{requireWhenLarge, other}, Selections{1: Value("large")})
		assert.True(t, effect.OptionRequired(4))
		assert.True(t, effect.OptionRequired(5))
	})

	t.Run("Price modifiers sum", func(t *testing.T) {
		discount := makeRule("bundle discount",
			`{"operator":"and","conditions":[{"option_id":1,"comparison":"not_empty","value":""}]}`,
			`{"type":"price_modifier","price_modifier":-2,"price_type":"fixed"}`,
			model.StatusActive)
		effect := Apply([]model.Rule{surcharge, discount}, Selections{1: Value("large")})
		assert.InDelta(t, 3.0, effect.PriceModifier, 0.001)
		assert.Len(t, effect.PriceEffects, 2)
	})

	t.Run("Percentage amounts sum as fixed", func(t *testing.T) {
		percent := makeRule("percent surcharge",
			`{"operator":"and","conditions":[{"option_id":1,"comparison":"not_empty","value":""}]}`,
			`{"type":"price_modifier","price_modifier":10,"price_type":"percentage"}`,
			model.StatusActive)
		effect := Apply([]model.Rule{percent}, Selections{1: Value("x")})
		assert.InDelta(t, 10.0, effect.PriceModifier, 0.001)
		assert.Equal(t, "percentage", effect.PriceEffects[0].Type)
	})

	t.Run("Inactive rules are skipped", func(t *testing.T) {
		inactive := hideWhenLarge
		inactive.Status = model.StatusInactive
		effect := Apply([]model.Rule{inactive}, Selections{1: Value("large")})
		assert.False(t, effect.OptionHidden(2))
	})

	t.Run("Malformed condition makes the rule inert", func(t *testing.T) {
		broken := makeRule("broken", `{"operator":`, `{"type":"hide","target_options":[2]}`, model.StatusActive)
		effect := Apply([]model.Rule{broken, surcharge}, Selections{1: Value("large")})
		assert.False(t, effect.OptionHidden(2))
		assert.InDelta(t, 5.0, effect.PriceModifier, 0.001)
	})

	t.Run("Malformed action makes the rule inert", func(t *testing.T) {
		broken := makeRule("broken",
			`{"operator":"and","conditions":[{"option_id":1,"comparison":"equals","value":"large"}]}`,
			`[not json`, model.StatusActive)
		effect := Apply([]model.Rule{broken}, Selections{1: Value("large")})
		assert.Empty(t, effect.HiddenOptions)
	})

	t.Run("Hidden values tracked per value", func(t *testing.T) {
		valueRule := makeRule("hide xl swatch",
			`{"operator":"and","conditions":[{"option_id":1,"comparison":"equals","value":"basic"}]}`,
			`{"type":"hide","target_values":[{"option_id":2,"value":"extra_large"}]}`,
			model.StatusActive)
		effect := Apply([]model.Rule{valueRule}, Selections{1: Value("basic")})
		assert.True(t, effect.ValueHidden(2, "extra_large"))
		assert.False(t, effect.ValueHidden(2, "large"))
		assert.False(t, effect.OptionHidden(2))
	})

	t.Run("Idempotent for identical inputs", func(t *testing.T) {
		ruleList := []model.Rule{hideWhenLarge, showWhenGift, requireWhenLarge, surcharge}
		selections := Selections{1: Value("large"), 3: Values("gift_wrap")}
		first := Apply(ruleList, selections)
		second := Apply(ruleList, selections)
		assert.Equal(t, first, second)
	})

	t.Run("No rules yields empty aggregate", func(t *testing.T) {
		effect := Apply(nil, Selections{1: Value("large")})
		assert.Empty(t, effect.HiddenOptions)
		assert.Empty(t, effect.RequiredOptions)
		assert.Zero(t, effect.PriceModifier)
	})
}
