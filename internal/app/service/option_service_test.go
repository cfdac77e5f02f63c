package service

import (
	"testing"

	"github.com/okim/optionlogic-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOptionServiceTest(t *testing.T) (OptionService, serviceDeps, *model.OptionSet) {
	deps := setupServiceDeps(t)
	svc := NewOptionService(deps.optionRepo, deps.setRepo)

	set := &model.OptionSet{Name: "Apparel", Status: model.StatusActive}
	require.NoError(t, deps.setRepo.Create(set))

	return svc, deps, set
}

func TestOptionService_Create(t *testing.T) {
	svc, _, set := setupOptionServiceTest(t)

	t.Run("Positions assigned in sequence", func(t *testing.T) {
		first, err := svc.Create(set.ID, CreateOptionInput{Name: "Size", Type: model.TypeRadio, Required: true})
		require.NoError(t, err)
		assert.Equal(t, 0, first.Position)
		assert.Equal(t, model.StatusActive, first.Status)

		second, err := svc.Create(set.ID, CreateOptionInput{Name: "Extras", Type: model.TypeCheckbox})
		require.NoError(t, err)
		assert.Equal(t, 1, second.Position)
	})

	t.Run("Unknown type rejected", func(t *testing.T) {
		_, err := svc.Create(set.ID, CreateOptionInput{Name: "Broken", Type: "slider"})
		assert.ErrorIs(t, err, ErrInvalidOptionType)
	})

	t.Run("Missing set", func(t *testing.T) {
		_, err := svc.Create(9999, CreateOptionInput{Name: "Size", Type: model.TypeRadio})
		assert.ErrorIs(t, err, ErrOptionSetNotFound)
	})
}

func TestOptionService_AddValue(t *testing.T) {
	svc, _, set := setupOptionServiceTest(t)

	option, err := svc.Create(set.ID, CreateOptionInput{Name: "Size", Type: model.TypeRadio})
	require.NoError(t, err)

	t.Run("Token defaults to slugified label", func(t *testing.T) {
		value, err := svc.AddValue(option.ID, CreateValueInput{Label: "Extra Large (XL)"})
		require.NoError(t, err)
		assert.Equal(t, "extra_large_xl", value.Value)
		assert.Equal(t, model.PriceFixed, value.PriceType)
	})

	t.Run("Explicit token kept", func(t *testing.T) {
		value, err := svc.AddValue(option.ID, CreateValueInput{Label: "Small", Value: "sm", PriceModifier: -1})
		require.NoError(t, err)
		assert.Equal(t, "sm", value.Value)
		assert.Equal(t, 1, value.Position)
	})

	t.Run("Duplicate token rejected", func(t *testing.T) {
		_, err := svc.AddValue(option.ID, CreateValueInput{Label: "Small again", Value: "sm"})
		assert.ErrorIs(t, err, ErrValueTokenExists)
	})

	t.Run("Free-form option rejects values", func(t *testing.T) {
		text, err := svc.Create(set.ID, CreateOptionInput{Name: "Message", Type: model.TypeTextarea})
		require.NoError(t, err)

		_, err = svc.AddValue(text.ID, CreateValueInput{Label: "nope"})
		assert.ErrorIs(t, err, ErrValuesNotSupported)
	})
}

func TestOptionService_UpdateValue(t *testing.T) {
	svc, _, set := setupOptionServiceTest(t)

	option, err := svc.Create(set.ID, CreateOptionInput{Name: "Size", Type: model.TypeRadio})
	require.NoError(t, err)
	small, err := svc.AddValue(option.ID, CreateValueInput{Label: "Small"})
	require.NoError(t, err)
	_, err = svc.AddValue(option.ID, CreateValueInput{Label: "Large"})
	require.NoError(t, err)

	t.Run("Price update", func(t *testing.T) {
		price := 1.5
		updated, err := svc.UpdateValue(small.ID, UpdateValueInput{PriceModifier: &price})
		require.NoError(t, err)
		assert.InDelta(t, 1.5, updated.PriceModifier, 0.001)
	})

	t.Run("Token collision rejected", func(t *testing.T) {
		token := "large"
		_, err := svc.UpdateValue(small.ID, UpdateValueInput{Value: &token})
		assert.ErrorIs(t, err, ErrValueTokenExists)
	})

	t.Run("Missing value", func(t *testing.T) {
		label := "x"
		_, err := svc.UpdateValue(9999, UpdateValueInput{Label: &label})
		assert.ErrorIs(t, err, ErrOptionValueNotFound)
	})
}

func TestOptionService_Reorder(t *testing.T) {
	svc, _, set := setupOptionServiceTest(t)

	a, err := svc.Create(set.ID, CreateOptionInput{Name: "A", Type: model.TypeText})
	require.NoError(t, err)
	b, err := svc.Create(set.ID, CreateOptionInput{Name: "B", Type: model.TypeText})
	require.NoError(t, err)

	require.NoError(t, svc.Reorder(set.ID, []uint{b.ID, a.ID}))

	options, err := svc.ListBySet(set.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", options[0].Name)

	assert.ErrorIs(t, svc.Reorder(set.ID, []uint{9999}), ErrOptionNotFound)
}
