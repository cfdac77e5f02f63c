package repository

import (
	"time"

	"github.com/okim/optionlogic-backend/internal/app/model"
	"github.com/okim/optionlogic-backend/pkg/logger"
	"gorm.io/gorm"
)

type OptionSetFilter struct {
	Search        string
	Status        model.SetStatus
	IncludeDetail bool
}

type OptionSetRepository interface {
	Create(set *model.OptionSet) error
	Update(set *model.OptionSet) error
	Delete(id uint) error
	FindAll(filter OptionSetFilter) ([]model.OptionSet, error)
	FindByID(id uint, includeDetail bool) (*model.OptionSet, error)
	FindByProductID(productID uint) ([]model.OptionSet, error)
	AssignToProduct(assignment *model.ProductOptionSet) error
	UnassignFromProduct(productID, setID uint) error
	Assignments(setID uint) ([]model.ProductOptionSet, error)
	PurgeDeletedBefore(cutoff time.Time) (int64, error)
}

type optionSetRepository struct {
	db *gorm.DB
}

func NewOptionSetRepository(db *gorm.DB) OptionSetRepository {
	return &optionSetRepository{db: db}
}

func (r *optionSetRepository) Create(set *model.OptionSet) error {
	logger.Debug("Creating option set in database", map[string]interface{}{
		"name": set.Name,
	})

	if err := r.db.Create(set).Error; err != nil {
		logger.Error("Failed to create option set in database", err, map[string]interface{}{
			"name": set.Name,
		})
		return err
	}

	logger.Debug("Option set created in database", map[string]interface{}{
		"option_set_id": set.ID,
		"name":          set.Name,
	})
	return nil
}

func (r *optionSetRepository) Update(set *model.OptionSet) error {
	if err := r.db.Save(set).Error; err != nil {
		logger.Error("Failed to update option set in database", err, map[string]interface{}{
			"option_set_id": set.ID,
		})
		return err
	}
	return nil
}

// Delete soft deletes the set along with its options, values, rules and
// product assignments, inside one transaction.
func (r *optionSetRepository) Delete(id uint) error {
	logger.Debug("Deleting option set from database", map[string]interface{}{
		"option_set_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var optionIDs []uint
		if err := tx.Model(&model.Option{}).
			Where("option_set_id = ?", id).
			Pluck("id", &optionIDs).Error; err != nil {
			return err
		}

		if len(optionIDs) > 0 {
			if err := tx.Where("option_id IN ?", optionIDs).
				Delete(&model.OptionValue{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("option_set_id = ?", id).Delete(&model.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Where("option_set_id = ?", id).Delete(&model.Rule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("option_set_id = ?", id).Delete(&model.ProductOptionSet{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.OptionSet{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete option set from database", err, map[string]interface{}{
			"option_set_id": id,
		})
		return err
	}

	logger.Debug("Option set deleted from database", map[string]interface{}{
		"option_set_id": id,
	})
	return nil
}

func (r *optionSetRepository) FindAll(filter OptionSetFilter) ([]model.OptionSet, error) {
	query := r.db.Model(&model.OptionSet{})
	if filter.IncludeDetail {
		query = query.Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.position ASC, options.id ASC").Preload("Values", func(db *gorm.DB) *gorm.DB {
				return db.Order("option_values.position ASC, option_values.id ASC")
			})
		}).Preload("Rules", func(db *gorm.DB) *gorm.DB {
			return db.Order("rules.name ASC, rules.id ASC")
		})
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var sets []model.OptionSet
	if err := query.Order("name ASC, id ASC").Find(&sets).Error; err != nil {
		logger.Error("Failed to find option sets", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, err
	}

	logger.Debug("Option sets found", map[string]interface{}{
		"count": len(sets),
	})
	return sets, nil
}

func (r *optionSetRepository) FindByID(id uint, includeDetail bool) (*model.OptionSet, error) {
	query := r.db.Model(&model.OptionSet{})
	if includeDetail {
		query = query.Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.position ASC, options.id ASC").Preload("Values", func(db *gorm.DB) *gorm.DB {
				return db.Order("option_values.position ASC, option_values.id ASC")
			})
		}).Preload("Rules", func(db *gorm.DB) *gorm.DB {
			return db.Order("rules.name ASC, rules.id ASC")
		})
	}

	var set model.OptionSet
	if err := query.First(&set, id).Error; err != nil {
		logger.Error("Failed to find option set", err, map[string]interface{}{
			"option_set_id": id,
		})
		return nil, err
	}
	return &set, nil
}

// FindByProductID returns the active option sets assigned to the product,
// in assignment position order, with options, values and rules loaded.
func (r *optionSetRepository) FindByProductID(productID uint) ([]model.OptionSet, error) {
	var assignments []model.ProductOptionSet
	if err := r.db.Where("product_id = ?", productID).
		Order("position ASC, id ASC").
		Find(&assignments).Error; err != nil {
		logger.Error("Failed to find product option set assignments", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	if len(assignments) == 0 {
		return []model.OptionSet{}, nil
	}

	setIDs := make([]uint, len(assignments))
	for i, a := range assignments {
		setIDs[i] = a.OptionSetID
	}

	var sets []model.OptionSet
	if err := r.db.Where("id IN ? AND status = ?", setIDs, model.StatusActive).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.position ASC, options.id ASC").Preload("Values", func(db *gorm.DB) *gorm.DB {
				return db.Order("option_values.position ASC, option_values.id ASC")
			})
		}).
		Preload("Rules", func(db *gorm.DB) *gorm.DB {
			return db.Order("rules.name ASC, rules.id ASC")
		}).
		Find(&sets).Error; err != nil {
		logger.Error("Failed to find option sets for product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	// preserve assignment order
	bySetID := make(map[uint]model.OptionSet, len(sets))
	for _, set := range sets {
		bySetID[set.ID] = set
	}
	ordered := make([]model.OptionSet, 0, len(sets))
	for _, a := range assignments {
		if set, ok := bySetID[a.OptionSetID]; ok {
			ordered = append(ordered, set)
		}
	}
	return ordered, nil
}

func (r *optionSetRepository) AssignToProduct(assignment *model.ProductOptionSet) error {
	if err := r.db.Create(assignment).Error; err != nil {
		logger.Error("Failed to assign option set to product", err, map[string]interface{}{
			"product_id":    assignment.ProductID,
			"option_set_id": assignment.OptionSetID,
		})
		return err
	}
	return nil
}

func (r *optionSetRepository) UnassignFromProduct(productID, setID uint) error {
	if err := r.db.Where("product_id = ? AND option_set_id = ?", productID, setID).
		Delete(&model.ProductOptionSet{}).Error; err != nil {
		logger.Error("Failed to unassign option set from product", err, map[string]interface{}{
			"product_id":    productID,
			"option_set_id": setID,
		})
		return err
	}
	return nil
}

func (r *optionSetRepository) Assignments(setID uint) ([]model.ProductOptionSet, error) {
	var assignments []model.ProductOptionSet
	if err := r.db.Where("option_set_id = ?", setID).
		Order("position ASC, id ASC").
		Find(&assignments).Error; err != nil {
		logger.Error("Failed to list option set assignments", err, map[string]interface{}{
			"option_set_id": setID,
		})
		return nil, err
	}
	return assignments, nil
}

// PurgeDeletedBefore hard deletes option sets that were soft deleted before
// the cutoff, cascading to their options, values and rules.
func (r *optionSetRepository) PurgeDeletedBefore(cutoff time.Time) (int64, error) {
	var purged int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var setIDs []uint
		if err := tx.Unscoped().Model(&model.OptionSet{}).
			Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
			Pluck("id", &setIDs).Error; err != nil {
			return err
		}
		if len(setIDs) == 0 {
			return nil
		}

		var optionIDs []uint
		if err := tx.Unscoped().Model(&model.Option{}).
			Where("option_set_id IN ?", setIDs).
			Pluck("id", &optionIDs).Error; err != nil {
			return err
		}

		if len(optionIDs) > 0 {
			if err := tx.Unscoped().Where("option_id IN ?", optionIDs).
				Delete(&model.OptionValue{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("option_set_id IN ?", setIDs).
			Delete(&model.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("option_set_id IN ?", setIDs).
			Delete(&model.Rule{}).Error; err != nil {
			return err
		}
		result := tx.Unscoped().Where("id IN ?", setIDs).Delete(&model.OptionSet{})
		if result.Error != nil {
			return result.Error
		}
		purged = result.RowsAffected
		return nil
	})
	if err != nil {
		logger.Error("Failed to purge deleted option sets", err, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, err
	}
	return purged, nil
}
