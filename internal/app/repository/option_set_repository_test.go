package repository

import (
	"testing"
	"time"

	"github.com/okim/optionlogic-backend/internal/app/model"
	"github.com/okim/optionlogic-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupOptionSetTest(t *testing.T) (*gorm.DB, OptionSetRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewOptionSetRepository(testDB)
	return testDB, repo
}

func seedSetWithOptions(t *testing.T, testDB *gorm.DB) *model.OptionSet {
	t.Helper()

	set := &model.OptionSet{Name: "Gift Options", Status: model.StatusActive}
	require.NoError(t, testDB.Create(set).Error)

	option := &model.Option{
		OptionSetID: set.ID,
		Name:        "Extras",
		Type:        model.TypeCheckbox,
		Status:      model.StatusActive,
		Values: []model.OptionValue{
			{Label: "Gift Wrap", Value: "gift_wrap", PriceModifier: 2.50},
		},
	}
	require.NoError(t, testDB.Create(option).Error)

	rule := &model.Rule{
		OptionSetID: set.ID,
		Name:        "a rule",
		Condition:   datatypes.JSON(`{"operator":"and","conditions":[{"option_id":1,"comparison":"not_empty","value":""}]}`),
		Action:      datatypes.JSON(`{"type":"require","target_options":[1]}`),
		Status:      model.StatusActive,
	}
	require.NoError(t, testDB.Create(rule).Error)

	return set
}

func TestOptionSetRepository_Create(t *testing.T) {
	testDB, repo := setupOptionSetTest(t)
	defer db.CleanupTestDB(testDB)

	set := &model.OptionSet{
		Name:        "Gift Options",
		Description: "Wrapping add-ons",
		Status:      model.StatusActive,
	}
	err := repo.Create(set)

	assert.NoError(t, err)
	assert.NotZero(t, set.ID)
}

func TestOptionSetRepository_FindAll(t *testing.T) {
	testDB, repo := setupOptionSetTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Create(&model.OptionSet{Name: "Apparel Sizes", Status: model.StatusActive}))
	require.NoError(t, repo.Create(&model.OptionSet{Name: "Gift Options", Status: model.StatusInactive}))

	t.Run("All sets ordered by name", func(t *testing.T) {
		sets, err := repo.FindAll(OptionSetFilter{})
		require.NoError(t, err)
		require.Len(t, sets, 2)
		assert.Equal(t, "Apparel Sizes", sets[0].Name)
	})

	t.Run("Filter by status", func(t *testing.T) {
		sets, err := repo.FindAll(OptionSetFilter{Status: model.StatusActive})
		require.NoError(t, err)
		require.Len(t, sets, 1)
		assert.Equal(t, "Apparel Sizes", sets[0].Name)
	})

	t.Run("Filter by search", func(t *testing.T) {
		sets, err := repo.FindAll(OptionSetFilter{Search: "Gift"})
		require.NoError(t, err)
		require.Len(t, sets, 1)
		assert.Equal(t, "Gift Options", sets[0].Name)
	})
}

func TestOptionSetRepository_FindByID(t *testing.T) {
	testDB, repo := setupOptionSetTest(t)
	defer db.CleanupTestDB(testDB)

	set := seedSetWithOptions(t, testDB)

	t.Run("With detail", func(t *testing.T) {
		found, err := repo.FindByID(set.ID, true)
		require.NoError(t, err)
		require.Len(t, found.Options, 1)
		require.Len(t, found.Options[0].Values, 1)
		assert.Len(t, found.Rules, 1)
	})

	t.Run("Without detail", func(t *testing.T) {
		found, err := repo.FindByID(set.ID, false)
		require.NoError(t, err)
		assert.Empty(t, found.Options)
	})

	t.Run("Missing set", func(t *testing.T) {
		_, err := repo.FindByID(9999, false)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestOptionSetRepository_Delete(t *testing.T) {
	testDB, repo := setupOptionSetTest(t)
	defer db.CleanupTestDB(testDB)

	set := seedSetWithOptions(t, testDB)
	require.NoError(t, testDB.Create(&model.ProductOptionSet{ProductID: 1, OptionSetID: set.ID}).Error)

	require.NoError(t, repo.Delete(set.ID))

	_, err := repo.FindByID(set.ID, false)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var optionCount, ruleCount, assignmentCount int64
	testDB.Model(&model.Option{}).Where("option_set_id = ?", set.ID).Count(&optionCount)
	testDB.Model(&model.Rule{}).Where("option_set_id = ?", set.ID).Count(&ruleCount)
	testDB.Model(&model.ProductOptionSet{}).Where("option_set_id = ?", set.ID).Count(&assignmentCount)
	assert.Zero(t, optionCount)
	assert.Zero(t, ruleCount)
	assert.Zero(t, assignmentCount)
}

func TestOptionSetRepository_ProductAssignment(t *testing.T) {
	testDB, repo := setupOptionSetTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{Name: "Mug", BasePrice: 10, Status: model.StatusActive}
	require.NoError(t, testDB.Create(product).Error)

	first := seedSetWithOptions(t, testDB)
	second := &model.OptionSet{Name: "Second", Status: model.StatusActive}
	require.NoError(t, testDB.Create(second).Error)
	inactive := &model.OptionSet{Name: "Inactive", Status: model.StatusInactive}
	require.NoError(t, testDB.Create(inactive).Error)

	require.NoError(t, repo.AssignToProduct(&model.ProductOptionSet{
		ProductID: product.ID, OptionSetID: second.ID, Position: 0,
	}))
	require.NoError(t, repo.AssignToProduct(&model.ProductOptionSet{
		ProductID: product.ID, OptionSetID: first.ID, Position: 1,
	}))
	require.NoError(t, repo.AssignToProduct(&model.ProductOptionSet{
		ProductID: product.ID, OptionSetID: inactive.ID, Position: 2,
	}))

	t.Run("Duplicate assignment rejected", func(t *testing.T) {
		err := repo.AssignToProduct(&model.ProductOptionSet{
			ProductID: product.ID, OptionSetID: first.ID,
		})
		assert.Error(t, err)
	})

	t.Run("FindByProductID follows assignment order and skips inactive", func(t *testing.T) {
		sets, err := repo.FindByProductID(product.ID)
		require.NoError(t, err)
		require.Len(t, sets, 2)
		assert.Equal(t, second.ID, sets[0].ID)
		assert.Equal(t, first.ID, sets[1].ID)
		assert.NotEmpty(t, sets[1].Options)
	})

	t.Run("Unassign removes the link", func(t *testing.T) {
		require.NoError(t, repo.UnassignFromProduct(product.ID, second.ID))
		sets, err := repo.FindByProductID(product.ID)
		require.NoError(t, err)
		require.Len(t, sets, 1)
		assert.Equal(t, first.ID, sets[0].ID)
	})

	t.Run("Assignments lists products per set", func(t *testing.T) {
		assignments, err := repo.Assignments(first.ID)
		require.NoError(t, err)
		require.Len(t, assignments, 1)
		assert.Equal(t, product.ID, assignments[0].ProductID)
	})
}

func TestOptionSetRepository_PurgeDeletedBefore(t *testing.T) {
	testDB, repo := setupOptionSetTest(t)
	defer db.CleanupTestDB(testDB)

	old := seedSetWithOptions(t, testDB)
	recent := &model.OptionSet{Name: "Recent", Status: model.StatusActive}
	require.NoError(t, testDB.Create(recent).Error)

	require.NoError(t, repo.Delete(old.ID))
	require.NoError(t, repo.Delete(recent.ID))

	// age the first deletion past the cutoff
	aged := time.Now().AddDate(0, 0, -60)
	require.NoError(t, testDB.Unscoped().Model(&model.OptionSet{}).
		Where("id = ?", old.ID).
		Update("deleted_at", aged).Error)

	purged, err := repo.PurgeDeletedBefore(time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	var total int64
	testDB.Unscoped().Model(&model.OptionSet{}).Count(&total)
	assert.Equal(t, int64(1), total)

	var orphanValues int64
	testDB.Unscoped().Model(&model.OptionValue{}).Count(&orphanValues)
	assert.Zero(t, orphanValues)
}
