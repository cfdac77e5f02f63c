package service

import (
	"testing"

	"github.com/okim/optionlogic-backend/internal/app/model"
	"github.com/okim/optionlogic-backend/internal/app/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func setupRuleServiceTest(t *testing.T) (RuleService, *model.OptionSet) {
	deps := setupServiceDeps(t)
	svc := NewRuleService(deps.ruleRepo, deps.setRepo)

	set := &model.OptionSet{Name: "Apparel", Status: model.StatusActive}
	require.NoError(t, deps.setRepo.Create(set))

	return svc, set
}

var (
	validCondition = datatypes.JSON(`{"operator":"and","conditions":[{"option_id":1,"comparison":"equals","value":"large"}]}`)
	validAction    = datatypes.JSON(`{"type":"hide","target_options":[2]}`)
)

func TestRuleService_Create(t *testing.T) {
	svc, set := setupRuleServiceTest(t)

	t.Run("Valid rule", func(t *testing.T) {
		rule, err := svc.Create(set.ID, RuleInput{
			Name: "hide engraving", Condition: validCondition, Action: validAction,
		})
		require.NoError(t, err)
		assert.NotZero(t, rule.ID)
		assert.Equal(t, model.StatusActive, rule.Status)
	})

	t.Run("Empty conditions rejected at the boundary", func(t *testing.T) {
		_, err := svc.Create(set.ID, RuleInput{
			Name:      "broken",
			Condition: datatypes.JSON(`{"operator":"and","conditions":[]}`),
			Action:    validAction,
		})
		assert.ErrorIs(t, err, ErrInvalidCondition)
	})

	t.Run("Malformed action rejected", func(t *testing.T) {
		_, err := svc.Create(set.ID, RuleInput{
			Name: "broken", Condition: validCondition, Action: datatypes.JSON(`[`),
		})
		assert.ErrorIs(t, err, ErrInvalidAction)
	})

	t.Run("Missing set", func(t *testing.T) {
		_, err := svc.Create(9999, RuleInput{Name: "x", Condition: validCondition, Action: validAction})
		assert.ErrorIs(t, err, ErrOptionSetNotFound)
	})
}

func TestRuleService_Update(t *testing.T) {
	svc, set := setupRuleServiceTest(t)

	rule, err := svc.Create(set.ID, RuleInput{Name: "r", Condition: validCondition, Action: validAction})
	require.NoError(t, err)

	t.Run("Partial update keeps unset fields", func(t *testing.T) {
		updated, err := svc.Update(rule.ID, RuleInput{Status: model.StatusInactive})
		require.NoError(t, err)
		assert.Equal(t, model.StatusInactive, updated.Status)
		assert.JSONEq(t, string(validCondition), string(updated.Condition))
	})

	t.Run("Invalid replacement condition rejected", func(t *testing.T) {
		_, err := svc.Update(rule.ID, RuleInput{Condition: datatypes.JSON(`{"operator":"and"}`)})
		assert.ErrorIs(t, err, ErrInvalidCondition)
	})

	t.Run("Missing rule", func(t *testing.T) {
		_, err := svc.Update(9999, RuleInput{Name: "x"})
		assert.ErrorIs(t, err, ErrRuleNotFound)
	})
}

func TestRuleService_Test(t *testing.T) {
	svc, _ := setupRuleServiceTest(t)

	t.Run("Firing rule reports its effect", func(t *testing.T) {
		effect, fired, err := svc.Test(validCondition, validAction, rules.Selections{1: rules.Value("large")})
		require.NoError(t, err)
		assert.True(t, fired)
		assert.True(t, effect.OptionHidden(2))
	})

	t.Run("Non-firing rule reports empty effect", func(t *testing.T) {
		effect, fired, err := svc.Test(validCondition, validAction, rules.Selections{1: rules.Value("small")})
		require.NoError(t, err)
		assert.False(t, fired)
		assert.Empty(t, effect.HiddenOptions)
	})

	t.Run("Invalid condition rejected", func(t *testing.T) {
		_, _, err := svc.Test(datatypes.JSON(`{}`), validAction, nil)
		assert.ErrorIs(t, err, ErrInvalidCondition)
	})
}
