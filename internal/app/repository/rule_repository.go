package repository

import (
	"github.com/okim/optionlogic-backend/internal/app/model"
	"github.com/okim/optionlogic-backend/pkg/logger"
	"gorm.io/gorm"
)

type RuleRepository interface {
	Create(rule *model.Rule) error
	Update(rule *model.Rule) error
	Delete(id uint) error
	FindByID(id uint) (*model.Rule, error)
	FindBySetID(setID uint) ([]model.Rule, error)
	FindActiveBySetID(setID uint) ([]model.Rule, error)
}

type ruleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) RuleRepository {
	return &ruleRepository{db: db}
}

func (r *ruleRepository) Create(rule *model.Rule) error {
	logger.Debug("Creating rule in database", map[string]interface{}{
		"option_set_id": rule.OptionSetID,
		"name":          rule.Name,
	})

	if err := r.db.Create(rule).Error; err != nil {
		logger.Error("Failed to create rule in database", err, map[string]interface{}{
			"option_set_id": rule.OptionSetID,
			"name":          rule.Name,
		})
		return err
	}
	return nil
}

func (r *ruleRepository) Update(rule *model.Rule) error {
	if err := r.db.Save(rule).Error; err != nil {
		logger.Error("Failed to update rule in database", err, map[string]interface{}{
			"rule_id": rule.ID,
		})
		return err
	}
	return nil
}

func (r *ruleRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Rule{}, id).Error; err != nil {
		logger.Error("Failed to delete rule from database", err, map[string]interface{}{
			"rule_id": id,
		})
		return err
	}
	return nil
}

func (r *ruleRepository) FindByID(id uint) (*model.Rule, error) {
	var rule model.Rule
	if err := r.db.First(&rule, id).Error; err != nil {
		logger.Error("Failed to find rule", err, map[string]interface{}{
			"rule_id": id,
		})
		return nil, err
	}
	return &rule, nil
}

// FindBySetID returns the set's rules ordered by name, which is also the
// order the engine applies them in.
func (r *ruleRepository) FindBySetID(setID uint) ([]model.Rule, error) {
	var ruleList []model.Rule
	if err := r.db.Where("option_set_id = ?", setID).
		Order("name ASC, id ASC").
		Find(&ruleList).Error; err != nil {
		logger.Error("Failed to find rules for set", err, map[string]interface{}{
			"option_set_id": setID,
		})
		return nil, err
	}
	return ruleList, nil
}

func (r *ruleRepository) FindActiveBySetID(setID uint) ([]model.Rule, error) {
	var ruleList []model.Rule
	if err := r.db.Where("option_set_id = ? AND status = ?", setID, model.StatusActive).
		Order("name ASC, id ASC").
		Find(&ruleList).Error; err != nil {
		logger.Error("Failed to find active rules for set", err, map[string]interface{}{
			"option_set_id": setID,
		})
		return nil, err
	}
	return ruleList, nil
}
