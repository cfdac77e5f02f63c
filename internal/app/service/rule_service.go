package service

import (
	"errors"

	"github.com/okim/optionlogic-backend/internal/app/model"
	"github.com/okim/optionlogic-backend/internal/app/repository"
	"github.com/okim/optionlogic-backend/internal/app/rules"
	"github.com/okim/optionlogic-backend/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrRuleNotFound     = errors.New("rule not found")
	ErrInvalidCondition = errors.New("invalid rule condition")
	ErrInvalidAction    = errors.New("invalid rule action")
)

type RuleInput struct {
	Name      string
	Condition datatypes.JSON
	Action    datatypes.JSON
	Status    model.SetStatus
}

type RuleService interface {
	Create(setID uint, input RuleInput) (*model.Rule, error)
	Update(id uint, input RuleInput) (*model.Rule, error)
	Delete(id uint) error
	Get(id uint) (*model.Rule, error)
	ListBySet(setID uint) ([]model.Rule, error)
	Test(condition, action datatypes.JSON, selections rules.Selections) (*rules.AggregateEffect, bool, error)
}

type ruleService struct {
	ruleRepo repository.RuleRepository
	setRepo  repository.OptionSetRepository
}

func NewRuleService(ruleRepo repository.RuleRepository, setRepo repository.OptionSetRepository) RuleService {
	return &ruleService{ruleRepo: ruleRepo, setRepo: setRepo}
}

// validate rejects documents the engine would treat as inert. Stored rules
// always parse; inert rules only arise from later manual edits.
func (s *ruleService) validate(input RuleInput) error {
	if _, err := rules.ParseCondition(input.Condition); err != nil {
		return ErrInvalidCondition
	}
	if _, err := rules.ParseAction(input.Action); err != nil {
		return ErrInvalidAction
	}
	return nil
}

func (s *ruleService) Create(setID uint, input RuleInput) (*model.Rule, error) {
	if _, err := s.setRepo.FindByID(setID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionSetNotFound
		}
		return nil, err
	}
	if err := s.validate(input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.StatusActive
	}

	rule := &model.Rule{
		OptionSetID: setID,
		Name:        input.Name,
		Condition:   input.Condition,
		Action:      input.Action,
		Status:      status,
	}
	if err := s.ruleRepo.Create(rule); err != nil {
		return nil, err
	}

	logger.Info("Rule created", map[string]interface{}{
		"rule_id":       rule.ID,
		"option_set_id": setID,
		"name":          rule.Name,
	})
	return rule, nil
}

func (s *ruleService) Update(id uint, input RuleInput) (*model.Rule, error) {
	rule, err := s.ruleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}

	if input.Name != "" {
		rule.Name = input.Name
	}
	if len(input.Condition) > 0 {
		if _, err := rules.ParseCondition(input.Condition); err != nil {
			return nil, ErrInvalidCondition
		}
		rule.Condition = input.Condition
	}
	if len(input.Action) > 0 {
		if _, err := rules.ParseAction(input.Action); err != nil {
			return nil, ErrInvalidAction
		}
		rule.Action = input.Action
	}
	if input.Status != "" {
		rule.Status = input.Status
	}

	if err := s.ruleRepo.Update(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *ruleService) Delete(id uint) error {
	if _, err := s.ruleRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRuleNotFound
		}
		return err
	}
	return s.ruleRepo.Delete(id)
}

func (s *ruleService) Get(id uint) (*model.Rule, error) {
	rule, err := s.ruleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return rule, nil
}

func (s *ruleService) ListBySet(setID uint) ([]model.Rule, error) {
	if _, err := s.setRepo.FindByID(setID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionSetNotFound
		}
		return nil, err
	}
	return s.ruleRepo.FindBySetID(setID)
}

// Test evaluates an ad-hoc rule against sample selections without storing
// anything, so admins can preview the outcome while editing.
func (s *ruleService) Test(condition, action datatypes.JSON, selections rules.Selections) (*rules.AggregateEffect, bool, error) {
	parsedCondition, err := rules.ParseCondition(condition)
	if err != nil {
		return nil, false, ErrInvalidCondition
	}
	if _, err := rules.ParseAction(action); err != nil {
		return nil, false, ErrInvalidAction
	}

	fired := parsedCondition.Evaluate(selections)

	draft := []model.Rule{{
		Condition: condition,
		Action:    action,
		Status:    model.StatusActive,
	}}
	effect := rules.Apply(draft, selections)
	return &effect, fired, nil
}
