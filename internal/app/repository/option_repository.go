package repository

import (
	"github.com/okim/optionlogic-backend/internal/app/model"
	"github.com/okim/optionlogic-backend/pkg/logger"
	"gorm.io/gorm"
)

type OptionRepository interface {
	Create(option *model.Option) error
	Update(option *model.Option) error
	Delete(id uint) error
	FindByID(id uint, includeValues bool) (*model.Option, error)
	FindBySetID(setID uint) ([]model.Option, error)
	NextPosition(setID uint) (int, error)
	Reorder(setID uint, orderedIDs []uint) error

	CreateValue(value *model.OptionValue) error
	UpdateValue(value *model.OptionValue) error
	DeleteValue(id uint) error
	FindValueByID(id uint) (*model.OptionValue, error)
	FindValuesByOptionID(optionID uint) ([]model.OptionValue, error)
	ReorderValues(optionID uint, orderedIDs []uint) error
	ValueTokenExists(optionID uint, token string, excludeID uint) (bool, error)
}

type optionRepository struct {
	db *gorm.DB
}

func NewOptionRepository(db *gorm.DB) OptionRepository {
	return &optionRepository{db: db}
}

func (r *optionRepository) Create(option *model.Option) error {
	logger.Debug("Creating option in database", map[string]interface{}{
		"option_set_id": option.OptionSetID,
		"name":          option.Name,
		"type":          option.Type,
	})

	if err := r.db.Create(option).Error; err != nil {
		logger.Error("Failed to create option in database", err, map[string]interface{}{
			"option_set_id": option.OptionSetID,
			"name":          option.Name,
		})
		return err
	}
	return nil
}

func (r *optionRepository) Update(option *model.Option) error {
	if err := r.db.Save(option).Error; err != nil {
		logger.Error("Failed to update option in database", err, map[string]interface{}{
			"option_id": option.ID,
		})
		return err
	}
	return nil
}

// Delete soft deletes the option and its values.
func (r *optionRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("option_id = ?", id).Delete(&model.OptionValue{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Option{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete option from database", err, map[string]interface{}{
			"option_id": id,
		})
		return err
	}
	return nil
}

func (r *optionRepository) FindByID(id uint, includeValues bool) (*model.Option, error) {
	query := r.db.Model(&model.Option{})
	if includeValues {
		query = query.Preload("Values", func(db *gorm.DB) *gorm.DB {
			return db.Order("option_values.position ASC, option_values.id ASC")
		})
	}

	var option model.Option
	if err := query.First(&option, id).Error; err != nil {
		logger.Error("Failed to find option", err, map[string]interface{}{
			"option_id": id,
		})
		return nil, err
	}
	return &option, nil
}

func (r *optionRepository) FindBySetID(setID uint) ([]model.Option, error) {
	var options []model.Option
	if err := r.db.Where("option_set_id = ?", setID).
		Order("position ASC, id ASC").
		Preload("Values", func(db *gorm.DB) *gorm.DB {
			return db.Order("option_values.position ASC, option_values.id ASC")
		}).
		Find(&options).Error; err != nil {
		logger.Error("Failed to find options for set", err, map[string]interface{}{
			"option_set_id": setID,
		})
		return nil, err
	}
	return options, nil
}

// NextPosition returns the position a newly appended option should take.
func (r *optionRepository) NextPosition(setID uint) (int, error) {
	var max *int
	if err := r.db.Model(&model.Option{}).
		Where("option_set_id = ?", setID).
		Select("MAX(position)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

// Reorder rewrites the positions of the set's options to match orderedIDs.
func (r *optionRepository) Reorder(setID uint, orderedIDs []uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for position, optionID := range orderedIDs {
			result := tx.Model(&model.Option{}).
				Where("id = ? AND option_set_id = ?", optionID, setID).
				Update("position", position)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to reorder options", err, map[string]interface{}{
			"option_set_id": setID,
			"count":         len(orderedIDs),
		})
		return err
	}
	return nil
}

func (r *optionRepository) CreateValue(value *model.OptionValue) error {
	logger.Debug("Creating option value in database", map[string]interface{}{
		"option_id": value.OptionID,
		"value":     value.Value,
	})

	if err := r.db.Create(value).Error; err != nil {
		logger.Error("Failed to create option value in database", err, map[string]interface{}{
			"option_id": value.OptionID,
			"value":     value.Value,
		})
		return err
	}
	return nil
}

func (r *optionRepository) UpdateValue(value *model.OptionValue) error {
	if err := r.db.Save(value).Error; err != nil {
		logger.Error("Failed to update option value in database", err, map[string]interface{}{
			"value_id": value.ID,
		})
		return err
	}
	return nil
}

func (r *optionRepository) DeleteValue(id uint) error {
	if err := r.db.Delete(&model.OptionValue{}, id).Error; err != nil {
		logger.Error("Failed to delete option value from database", err, map[string]interface{}{
			"value_id": id,
		})
		return err
	}
	return nil
}

func (r *optionRepository) FindValueByID(id uint) (*model.OptionValue, error) {
	var value model.OptionValue
	if err := r.db.First(&value, id).Error; err != nil {
		logger.Error("Failed to find option value", err, map[string]interface{}{
			"value_id": id,
		})
		return nil, err
	}
	return &value, nil
}

func (r *optionRepository) FindValuesByOptionID(optionID uint) ([]model.OptionValue, error) {
	var values []model.OptionValue
	if err := r.db.Where("option_id = ?", optionID).
		Order("position ASC, id ASC").
		Find(&values).Error; err != nil {
		logger.Error("Failed to find option values", err, map[string]interface{}{
			"option_id": optionID,
		})
		return nil, err
	}
	return values, nil
}

// ReorderValues rewrites the positions of an option's values to match
// orderedIDs.
func (r *optionRepository) ReorderValues(optionID uint, orderedIDs []uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for position, valueID := range orderedIDs {
			result := tx.Model(&model.OptionValue{}).
				Where("id = ? AND option_id = ?", valueID, optionID).
				Update("position", position)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to reorder option values", err, map[string]interface{}{
			"option_id": optionID,
			"count":     len(orderedIDs),
		})
		return err
	}
	return nil
}

func (r *optionRepository) ValueTokenExists(optionID uint, token string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&model.OptionValue{}).
		Where("option_id = ? AND value = ?", optionID, token)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
