package service

import (
	"errors"

	"github.com/okim/optionlogic-backend/internal/app/model"
	"github.com/okim/optionlogic-backend/internal/app/repository"
	"github.com/okim/optionlogic-backend/pkg/logger"
	"github.com/okim/optionlogic-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrOptionNotFound      = errors.New("option not found")
	ErrOptionValueNotFound = errors.New("option value not found")
	ErrValueTokenExists    = errors.New("value token already exists for this option")
	ErrInvalidOptionType   = errors.New("invalid option type")
	ErrValuesNotSupported  = errors.New("option type does not support values")
)

type CreateOptionInput struct {
	Name         string
	Description  string
	Type         model.OptionType
	Required     bool
	Multiple     bool
	MinSelection int
	MaxSelection int
	Status       model.SetStatus
}

type UpdateOptionInput struct {
	Name         *string
	Description  *string
	Required     *bool
	Multiple     *bool
	MinSelection *int
	MaxSelection *int
	Status       *model.SetStatus
}

type CreateValueInput struct {
	Label         string
	Value         string
	PriceModifier float64
	PriceType     model.PriceType
	Description   string
	ImageURL      string
	ColorHex      string
	IsDefault     bool
}

type UpdateValueInput struct {
	Label         *string
	Value         *string
	PriceModifier *float64
	PriceType     *model.PriceType
	Description   *string
	ImageURL      *string
	ColorHex      *string
	IsDefault     *bool
	Status        *model.SetStatus
}

type OptionService interface {
	Create(setID uint, input CreateOptionInput) (*model.Option, error)
	Update(id uint, input UpdateOptionInput) (*model.Option, error)
	Delete(id uint) error
	Get(id uint) (*model.Option, error)
	ListBySet(setID uint) ([]model.Option, error)
	Reorder(setID uint, orderedIDs []uint) error

	AddValue(optionID uint, input CreateValueInput) (*model.OptionValue, error)
	UpdateValue(id uint, input UpdateValueInput) (*model.OptionValue, error)
	DeleteValue(id uint) error
	ReorderValues(optionID uint, orderedIDs []uint) error
}

type optionService struct {
	optionRepo repository.OptionRepository
	setRepo    repository.OptionSetRepository
}

func NewOptionService(optionRepo repository.OptionRepository, setRepo repository.OptionSetRepository) OptionService {
	return &optionService{optionRepo: optionRepo, setRepo: setRepo}
}

var validOptionTypes = map[model.OptionType]bool{
	model.TypeText:        true,
	model.TypeTextarea:    true,
	model.TypeNumber:      true,
	model.TypeDate:        true,
	model.TypeCheckbox:    true,
	model.TypeRadio:       true,
	model.TypeDropdown:    true,
	model.TypeSwatch:      true,
	model.TypeMultiSwatch: true,
	model.TypeButton:      true,
	model.TypeFile:        true,
}

func (s *optionService) Create(setID uint, input CreateOptionInput) (*model.Option, error) {
	if _, err := s.setRepo.FindByID(setID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionSetNotFound
		}
		return nil, err
	}
	if !validOptionTypes[input.Type] {
		return nil, ErrInvalidOptionType
	}

	position, err := s.optionRepo.NextPosition(setID)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.StatusActive
	}

	option := &model.Option{
		OptionSetID:  setID,
		Name:         input.Name,
		Description:  input.Description,
		Type:         input.Type,
		Required:     input.Required,
		Multiple:     input.Multiple,
		MinSelection: input.MinSelection,
		MaxSelection: input.MaxSelection,
		Position:     position,
		Status:       status,
	}
	if err := s.optionRepo.Create(option); err != nil {
		return nil, err
	}

	logger.Info("Option created", map[string]interface{}{
		"option_id":     option.ID,
		"option_set_id": setID,
		"type":          option.Type,
	})
	return option, nil
}

func (s *optionService) Update(id uint, input UpdateOptionInput) (*model.Option, error) {
	option, err := s.optionRepo.FindByID(id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		option.Name = *input.Name
	}
	if input.Description != nil {
		option.Description = *input.Description
	}
	if input.Required != nil {
		option.Required = *input.Required
	}
	if input.Multiple != nil {
		option.Multiple = *input.Multiple
	}
	if input.MinSelection != nil {
		option.MinSelection = *input.MinSelection
	}
	if input.MaxSelection != nil {
		option.MaxSelection = *input.MaxSelection
	}
	if input.Status != nil {
		option.Status = *input.Status
	}

	if err := s.optionRepo.Update(option); err != nil {
		return nil, err
	}
	return option, nil
}

func (s *optionService) Delete(id uint) error {
	if _, err := s.optionRepo.FindByID(id, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOptionNotFound
		}
		return err
	}
	return s.optionRepo.Delete(id)
}

func (s *optionService) Get(id uint) (*model.Option, error) {
	option, err := s.optionRepo.FindByID(id, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionNotFound
		}
		return nil, err
	}
	return option, nil
}

func (s *optionService) ListBySet(setID uint) ([]model.Option, error) {
	if _, err := s.setRepo.FindByID(setID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionSetNotFound
		}
		return nil, err
	}
	return s.optionRepo.FindBySetID(setID)
}

func (s *optionService) Reorder(setID uint, orderedIDs []uint) error {
	if err := s.optionRepo.Reorder(setID, orderedIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOptionNotFound
		}
		return err
	}
	return nil
}

// AddValue appends a selectable value. An empty token defaults to the
// slugified label, and tokens stay unique within the option.
func (s *optionService) AddValue(optionID uint, input CreateValueInput) (*model.OptionValue, error) {
	option, err := s.optionRepo.FindByID(optionID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionNotFound
		}
		return nil, err
	}
	if !option.HasValues() {
		return nil, ErrValuesNotSupported
	}

	token := input.Value
	if token == "" {
		token = util.Slugify(input.Label)
	}

	exists, err := s.optionRepo.ValueTokenExists(optionID, token, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrValueTokenExists
	}

	values, err := s.optionRepo.FindValuesByOptionID(optionID)
	if err != nil {
		return nil, err
	}
	position := 0
	for _, v := range values {
		if v.Position >= position {
			position = v.Position + 1
		}
	}

	priceType := input.PriceType
	if priceType == "" {
		priceType = model.PriceFixed
	}

	value := &model.OptionValue{
		OptionID:      optionID,
		Label:         input.Label,
		Value:         token,
		PriceModifier: input.PriceModifier,
		PriceType:     priceType,
		Description:   input.Description,
		ImageURL:      input.ImageURL,
		ColorHex:      input.ColorHex,
		Position:      position,
		IsDefault:     input.IsDefault,
		Status:        model.StatusActive,
	}
	if err := s.optionRepo.CreateValue(value); err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrValueTokenExists
		}
		return nil, err
	}

	logger.Info("Option value created", map[string]interface{}{
		"option_id": optionID,
		"value_id":  value.ID,
		"value":     value.Value,
	})
	return value, nil
}

func (s *optionService) UpdateValue(id uint, input UpdateValueInput) (*model.OptionValue, error) {
	value, err := s.optionRepo.FindValueByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionValueNotFound
		}
		return nil, err
	}

	if input.Value != nil && *input.Value != value.Value {
		exists, err := s.optionRepo.ValueTokenExists(value.OptionID, *input.Value, value.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrValueTokenExists
		}
		value.Value = *input.Value
	}
	if input.Label != nil {
		value.Label = *input.Label
	}
	if input.PriceModifier != nil {
		value.PriceModifier = *input.PriceModifier
	}
	if input.PriceType != nil {
		value.PriceType = *input.PriceType
	}
	if input.Description != nil {
		value.Description = *input.Description
	}
	if input.ImageURL != nil {
		value.ImageURL = *input.ImageURL
	}
	if input.ColorHex != nil {
		value.ColorHex = *input.ColorHex
	}
	if input.IsDefault != nil {
		value.IsDefault = *input.IsDefault
	}
	if input.Status != nil {
		value.Status = *input.Status
	}

	if err := s.optionRepo.UpdateValue(value); err != nil {
		return nil, err
	}
	return value, nil
}

func (s *optionService) DeleteValue(id uint) error {
	if _, err := s.optionRepo.FindValueByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOptionValueNotFound
		}
		return err
	}
	return s.optionRepo.DeleteValue(id)
}

func (s *optionService) ReorderValues(optionID uint, orderedIDs []uint) error {
	if err := s.optionRepo.ReorderValues(optionID, orderedIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOptionValueNotFound
		}
		return err
	}
	return nil
}
