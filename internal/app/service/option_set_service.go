package service

import (
	"errors"

	"github.com/okim/optionlogic-backend/internal/app/model"
	"github.com/okim/optionlogic-backend/internal/app/repository"
	"github.com/okim/optionlogic-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOptionSetNotFound  = errors.New("option set not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrSetAlreadyAssigned = errors.New("option set already assigned to product")
)

type CreateOptionSetInput struct {
	Name        string
	Description string
	Status      model.SetStatus
}

type UpdateOptionSetInput struct {
	Name        *string
	Description *string
	Status      *model.SetStatus
}

type AssignmentInput struct {
	Position            int
	ReplaceVariations   bool
	HideOriginalOptions bool
}

type OptionSetService interface {
	Create(input CreateOptionSetInput) (*model.OptionSet, error)
	Update(id uint, input UpdateOptionSetInput) (*model.OptionSet, error)
	Delete(id uint) error
	List(filter repository.OptionSetFilter) ([]model.OptionSet, error)
	Get(id uint, includeDetail bool) (*model.OptionSet, error)
	Duplicate(id uint, newName string) (*model.OptionSet, error)
	AssignToProduct(setID, productID uint, input AssignmentInput) error
	UnassignFromProduct(setID, productID uint) error
	SetsForProduct(productID uint) ([]model.OptionSet, error)
}

type optionSetService struct {
	setRepo     repository.OptionSetRepository
	optionRepo  repository.OptionRepository
	ruleRepo    repository.RuleRepository
	productRepo repository.ProductRepository
}

func NewOptionSetService(
	setRepo repository.OptionSetRepository,
	optionRepo repository.OptionRepository,
	ruleRepo repository.RuleRepository,
	productRepo repository.ProductRepository,
) OptionSetService {
	return &optionSetService{
		setRepo:     setRepo,
		optionRepo:  optionRepo,
		ruleRepo:    ruleRepo,
		productRepo: productRepo,
	}
}

func (s *optionSetService) Create(input CreateOptionSetInput) (*model.OptionSet, error) {
	status := input.Status
	if status == "" {
		status = model.StatusActive
	}

	set := &model.OptionSet{
		Name:        input.Name,
		Description: input.Description,
		Status:      status,
	}
	if err := s.setRepo.Create(set); err != nil {
		return nil, err
	}

	logger.Info("Option set created", map[string]interface{}{
		"option_set_id": set.ID,
		"name":          set.Name,
	})
	return set, nil
}

func (s *optionSetService) Update(id uint, input UpdateOptionSetInput) (*model.OptionSet, error) {
	set, err := s.setRepo.FindByID(id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionSetNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		set.Name = *input.Name
	}
	if input.Description != nil {
		set.Description = *input.Description
	}
	if input.Status != nil {
		set.Status = *input.Status
	}

	if err := s.setRepo.Update(set); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *optionSetService) Delete(id uint) error {
	if _, err := s.setRepo.FindByID(id, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOptionSetNotFound
		}
		return err
	}
	return s.setRepo.Delete(id)
}

func (s *optionSetService) List(filter repository.OptionSetFilter) ([]model.OptionSet, error) {
	return s.setRepo.FindAll(filter)
}

func (s *optionSetService) Get(id uint, includeDetail bool) (*model.OptionSet, error) {
	set, err := s.setRepo.FindByID(id, includeDetail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionSetNotFound
		}
		return nil, err
	}
	return set, nil
}

// Duplicate deep copies the set with all its options, values and rules.
// Rule condition and action documents still reference the source option IDs,
// so they are rewritten to the copied options as part of the copy.
func (s *optionSetService) Duplicate(id uint, newName string) (*model.OptionSet, error) {
	source, err := s.setRepo.FindByID(id, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionSetNotFound
		}
		return nil, err
	}

	if newName == "" {
		newName = source.Name + " (copy)"
	}

	copySet := &model.OptionSet{
		Name:        newName,
		Description: source.Description,
		Status:      source.Status,
	}
	if err := s.setRepo.Create(copySet); err != nil {
		return nil, err
	}

	idMap := make(map[uint]uint, len(source.Options))
	for _, option := range source.Options {
		copied := model.Option{
			OptionSetID:  copySet.ID,
			Name:         option.Name,
			Description:  option.Description,
			Type:         option.Type,
			Required:     option.Required,
			Multiple:     option.Multiple,
			MinSelection: option.MinSelection,
			MaxSelection: option.MaxSelection,
			Position:     option.Position,
			Status:       option.Status,
		}
		for _, value := range option.Values {
			copied.Values = append(copied.Values, model.OptionValue{
				Label:         value.Label,
				Value:         value.Value,
				PriceModifier: value.PriceModifier,
				PriceType:     value.PriceType,
				Description:   value.Description,
				ImageURL:      value.ImageURL,
				ColorHex:      value.ColorHex,
				Position:      value.Position,
				IsDefault:     value.IsDefault,
				Status:        value.Status,
			})
		}
		if err := s.optionRepo.Create(&copied); err != nil {
			return nil, err
		}
		idMap[option.ID] = copied.ID
	}

	for _, rule := range source.Rules {
		copied := model.Rule{
			OptionSetID: copySet.ID,
			Name:        rule.Name,
			Condition:   remapRuleDocument(rule.Condition, idMap),
			Action:      remapRuleDocument(rule.Action, idMap),
			Status:      rule.Status,
		}
		if err := s.ruleRepo.Create(&copied); err != nil {
			return nil, err
		}
	}

	logger.Info("Option set duplicated", map[string]interface{}{
		"source_id": source.ID,
		"copy_id":   copySet.ID,
	})
	return s.setRepo.FindByID(copySet.ID, true)
}

func (s *optionSetService) AssignToProduct(setID, productID uint, input AssignmentInput) error {
	if _, err := s.setRepo.FindByID(setID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOptionSetNotFound
		}
		return err
	}
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	err := s.setRepo.AssignToProduct(&model.ProductOptionSet{
		ProductID:           productID,
		OptionSetID:         setID,
		Position:            input.Position,
		ReplaceVariations:   input.ReplaceVariations,
		HideOriginalOptions: input.HideOriginalOptions,
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrSetAlreadyAssigned
		}
		return err
	}

	logger.Info("Option set assigned to product", map[string]interface{}{
		"option_set_id": setID,
		"product_id":    productID,
	})
	return nil
}

func (s *optionSetService) UnassignFromProduct(setID, productID uint) error {
	return s.setRepo.UnassignFromProduct(productID, setID)
}

func (s *optionSetService) SetsForProduct(productID uint) ([]model.OptionSet, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.setRepo.FindByProductID(productID)
}
