package db

import (
	"fmt"

	"github.com/okim/optionlogic-backend/internal/app/model"
	"github.com/okim/optionlogic-backend/pkg/logger"
	"gorm.io/datatypes"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Product{},
		&model.OptionSet{},
		&model.ProductOptionSet{},
		&model.Option{},
		&model.OptionValue{},
		&model.Rule{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedDemoOptionSet(); err != nil {
		logger.Error("Failed to seed demo option set", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedDemoOptionSet creates a gift wrapping option set with a surcharge rule
// so a fresh install has something to evaluate against.
func seedDemoOptionSet() error {
	var count int64
	if err := DB.Model(&model.OptionSet{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Option sets already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	set := model.OptionSet{
		Name:        "Gift Options",
		Description: "Gift wrapping and personalization add-ons",
		Status:      model.StatusActive,
	}
	if err := DB.Create(&set).Error; err != nil {
		return err
	}

	size := model.Option{
		OptionSetID: set.ID,
		Name:        "Size",
		Type:        model.TypeRadio,
		Required:    true,
		Position:    0,
		Status:      model.StatusActive,
		Values: []model.OptionValue{
			{Label: "Small", Value: "small", Position: 0, IsDefault: true},
			{Label: "Large", Value: "large", PriceModifier: 3.00, Position: 1},
		},
	}
	if err := DB.Create(&size).Error; err != nil {
		return err
	}

	extras := model.Option{
		OptionSetID: set.ID,
		Name:        "Extras",
		Type:        model.TypeCheckbox,
		Position:    1,
		Status:      model.StatusActive,
		Values: []model.OptionValue{
			{Label: "Gift Wrap", Value: "gift_wrap", PriceModifier: 2.50, Position: 0},
			{Label: "Engraving", Value: "engraving", PriceModifier: 4.00, Position: 1},
		},
	}
	if err := DB.Create(&extras).Error; err != nil {
		return err
	}

	message := model.Option{
		OptionSetID: set.ID,
		Name:        "Gift Message",
		Type:        model.TypeTextarea,
		Position:    2,
		Status:      model.StatusActive,
	}
	if err := DB.Create(&message).Error; err != nil {
		return err
	}

	condition := fmt.Sprintf(`{"operator":"and","conditions":[{"option_id":%d,"comparison":"contains","value":"gift_wrap"}]}`, extras.ID)
	action := fmt.Sprintf(`{"type":"require","target_options":[%d]}`, message.ID)
	rule := model.Rule{
		OptionSetID: set.ID,
		Name:        "Require gift message when gift wrap is selected",
		Condition:   datatypes.JSON(condition),
		Action:      datatypes.JSON(action),
		Status:      model.StatusActive,
	}
	if err := DB.Create(&rule).Error; err != nil {
		return err
	}

	logger.Info("Demo option set seeded successfully", map[string]interface{}{
		"option_set_id": set.ID,
	})
	return nil
}
