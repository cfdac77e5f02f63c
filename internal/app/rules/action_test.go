package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	t.Run("Hide with option and value targets", func(t *testing.T) {
		action, err := ParseAction([]byte(`{"type":"hide","target_options":[2,"3"],"target_values":[{"option_id":4,"value":"extra_large"}]}`))
		require.NoError(t, err)
		assert.Equal(t, ActionHide, action.Type)
		assert.Len(t, action.TargetOptions, 2)
		assert.Equal(t, uint(3), uint(action.TargetOptions[1]))
	})

	t.Run("Price modifier with string amount", func(t *testing.T) {
		action, err := ParseAction([]byte(`{"type":"price_modifier","price_modifier":"2.50","price_type":"fixed"}`))
		require.NoError(t, err)
		assert.InDelta(t, 2.5, float64(action.PriceModifier), 0.001)
	})

	t.Run("Non-numeric amount reads as zero", func(t *testing.T) {
		action, err := ParseAction([]byte(`{"type":"price_modifier","price_modifier":"free"}`))
		require.NoError(t, err)
		assert.Zero(t, float64(action.PriceModifier))
	})

	t.Run("Invalid JSON rejected", func(t *testing.T) {
		_, err := ParseAction([]byte(`{`))
		assert.Error(t, err)
	})
}

func TestActionEffect(t *testing.T) {
	t.Run("Hide populates hidden sets only", func(t *testing.T) {
		action := &Action{
			Type:          ActionHide,
			TargetOptions: []flexID{2},
			TargetValues:  []targetValue{{OptionID: 3, Value: "xl"}},
		}
		effect := action.Effect()
		assert.Contains(t, effect.HiddenOptions, uint(2))
		assert.Contains(t, effect.HiddenValues, ValueKey{OptionID: 3, Value: "xl"})
		assert.Empty(t, effect.ShownOptions)
		assert.Empty(t, effect.RequiredOptions)
		assert.Nil(t, effect.Price)
	})

	t.Run("Show populates shown sets", func(t *testing.T) {
		action := &Action{Type: ActionShow, TargetOptions: []flexID{2}}
		effect := action.Effect()
		assert.Contains(t, effect.ShownOptions, uint(2))
		assert.Empty(t, effect.HiddenOptions)
	})

	t.Run("Require ignores value targets", func(t *testing.T) {
		action := &Action{
			Type:          ActionRequire,
			TargetOptions: []flexID{5},
			TargetValues:  []targetValue{{OptionID: 5, Value: "xl"}},
		}
		effect := action.Effect()
		assert.Contains(t, effect.RequiredOptions, uint(5))
		assert.Empty(t, effect.HiddenValues)
	})

	t.Run("Price modifier defaults to fixed type", func(t *testing.T) {
		action := &Action{Type: ActionPriceModifier, PriceModifier: 2.5}
		effect := action.Effect()
		require.NotNil(t, effect.Price)
		assert.Equal(t, 2.5, effect.Price.Amount)
		assert.Equal(t, "fixed", effect.Price.Type)
	})

	t.Run("Unknown type is a no-op", func(t *testing.T) {
		action := &Action{Type: "explode", TargetOptions: []flexID{1}}
		effect := action.Effect()
		assert.Empty(t, effect.HiddenOptions)
		assert.Empty(t, effect.ShownOptions)
		assert.Empty(t, effect.RequiredOptions)
		assert.Nil(t, effect.Price)
	})

	t.Run("Nil action is a no-op", func(t *testing.T) {
		var action *Action
		effect := action.Effect()
		assert.Empty(t, effect.HiddenOptions)
		assert.Nil(t, effect.Price)
	})
}
