package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/okim/optionlogic-backend/internal/app/model"
	"github.com/okim/optionlogic-backend/internal/app/repository"
	"github.com/okim/optionlogic-backend/internal/app/service"
	"github.com/okim/optionlogic-backend/internal/db"
)

type controllerEnv struct {
	db          *gorm.DB
	setRepo     repository.OptionSetRepository
	optionRepo  repository.OptionRepository
	ruleRepo    repository.RuleRepository
	productRepo repository.ProductRepository

	setService    service.OptionSetService
	optionService service.OptionService
	ruleService   service.RuleService
	evalService   service.EvaluationService

	router *gin.Engine
}

func setupControllerEnv(t *testing.T) *controllerEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	env := &controllerEnv{
		db:          testDB,
		setRepo:     repository.NewOptionSetRepository(testDB),
		optionRepo:  repository.NewOptionRepository(testDB),
		ruleRepo:    repository.NewRuleRepository(testDB),
		productRepo: repository.NewProductRepository(testDB),
	}

	env.setService = service.NewOptionSetService(env.setRepo, env.optionRepo, env.ruleRepo, env.productRepo)
	env.optionService = service.NewOptionService(env.optionRepo, env.setRepo)
	env.ruleService = service.NewRuleService(env.ruleRepo, env.setRepo)
	env.evalService = service.NewEvaluationService(env.setRepo, env.optionRepo, env.ruleRepo, env.productRepo, nil, 0)

	gin.SetMode(gin.TestMode)
	env.router = gin.New()

	return env
}

func (env *controllerEnv) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func setupOptionSetRoutes(env *controllerEnv) *OptionSetController {
	ctrl := NewOptionSetController(env.setService, env.evalService)
	env.router.GET("/option-sets", ctrl.List)
	env.router.GET("/option-sets/:id", ctrl.Get)
	env.router.POST("/option-sets", ctrl.Create)
	env.router.PUT("/option-sets/:id", ctrl.Update)
	env.router.DELETE("/option-sets/:id", ctrl.Delete)
	env.router.POST("/option-sets/:id/duplicate", ctrl.Duplicate)
	env.router.POST("/option-sets/:id/products/:product_id", ctrl.AssignProduct)
	env.router.DELETE("/option-sets/:id/products/:product_id", ctrl.UnassignProduct)
	return ctrl
}

func TestOptionSetController_Create(t *testing.T) {
	env := setupControllerEnv(t)
	setupOptionSetRoutes(env)

	t.Run("creates a set", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/option-sets", gin.H{
			"name":        "Gift Options",
			"description": "Wrap and message",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		response := decodeBody(t, w)
		set := response["option_set"].(map[string]interface{})
		assert.Equal(t, "Gift Options", set["name"])
		assert.Equal(t, "active", set["status"])
	})

	t.Run("rejects a missing name", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/option-sets", gin.H{
			"description": "nameless",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, "VALIDATION_INVALID_INPUT", response["error"])
	})
}

func TestOptionSetController_GetAndList(t *testing.T) {
	env := setupControllerEnv(t)
	setupOptionSetRoutes(env)

	setA := &model.OptionSet{Name: "Apparel", Status: model.StatusActive}
	setB := &model.OptionSet{Name: "Gifts", Status: model.StatusInactive}
	require.NoError(t, env.setRepo.Create(setA))
	require.NoError(t, env.setRepo.Create(setB))

	t.Run("lists all sets", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/option-sets", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, float64(2), response["count"])
	})

	t.Run("filters by status", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/option-sets?status=inactive", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, float64(1), response["count"])
	})

	t.Run("returns one set", func(t *testing.T) {
		w := env.request(t, http.MethodGet, fmt.Sprintf("/option-sets/%d", setA.ID), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		set := response["option_set"].(map[string]interface{})
		assert.Equal(t, "Apparel", set["name"])
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/option-sets/9999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, "SET_NOT_FOUND", response["error"])
	})

	t.Run("malformed id is a 400", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/option-sets/abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, "VALIDATION_INVALID_ID", response["error"])
	})
}

func TestOptionSetController_UpdateAndDelete(t *testing.T) {
	env := setupControllerEnv(t)
	setupOptionSetRoutes(env)

	set := &model.OptionSet{Name: "Engraving", Status: model.StatusActive}
	require.NoError(t, env.setRepo.Create(set))

	t.Run("updates the name", func(t *testing.T) {
		w := env.request(t, http.MethodPut, fmt.Sprintf("/option-sets/%d", set.ID), gin.H{
			"name": "Engraving v2",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		updated := response["option_set"].(map[string]interface{})
		assert.Equal(t, "Engraving v2", updated["name"])
	})

	t.Run("deletes the set", func(t *testing.T) {
		w := env.request(t, http.MethodDelete, fmt.Sprintf("/option-sets/%d", set.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = env.request(t, http.MethodGet, fmt.Sprintf("/option-sets/%d", set.ID), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOptionSetController_Duplicate(t *testing.T) {
	env := setupControllerEnv(t)
	setupOptionSetRoutes(env)

	set := &model.OptionSet{Name: "Source", Status: model.StatusActive}
	require.NoError(t, env.setRepo.Create(set))

	option := &model.Option{OptionSetID: set.ID, Name: "Size", Type: model.TypeRadio, Status: model.StatusActive}
	require.NoError(t, env.optionRepo.Create(option))

	w := env.request(t, http.MethodPost, fmt.Sprintf("/option-sets/%d/duplicate", set.ID), gin.H{
		"name": "Source (copy)",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	response := decodeBody(t, w)
	copySet := response["option_set"].(map[string]interface{})
	assert.Equal(t, "Source (copy)", copySet["name"])
	assert.NotEqual(t, float64(set.ID), copySet["id"])
}

func TestOptionSetController_ProductAssignment(t *testing.T) {
	env := setupControllerEnv(t)
	setupOptionSetRoutes(env)

	set := &model.OptionSet{Name: "Warranty", Status: model.StatusActive}
	require.NoError(t, env.setRepo.Create(set))
	product := &model.Product{Name: "Watch", BasePrice: 99, Status: model.StatusActive}
	require.NoError(t, env.productRepo.Create(product))

	path := fmt.Sprintf("/option-sets/%d/products/%d", set.ID, product.ID)

	t.Run("assigns once", func(t *testing.T) {
		w := env.request(t, http.MethodPost, path, gin.H{"position": 1})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("duplicate assignment conflicts", func(t *testing.T) {
		w := env.request(t, http.MethodPost, path, gin.H{"position": 2})

		assert.Equal(t, http.StatusConflict, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, "SET_ALREADY_ASSIGNED", response["error"])
	})

	t.Run("unknown product is a 404", func(t *testing.T) {
		w := env.request(t, http.MethodPost, fmt.Sprintf("/option-sets/%d/products/9999", set.ID), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, "PRODUCT_NOT_FOUND", response["error"])
	})

	t.Run("unassigns", func(t *testing.T) {
		w := env.request(t, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// seedEvalSet builds a runnable set with two options and one rule for the
// evaluation endpoints.
func seedEvalSet(t *testing.T, env *controllerEnv) (*model.OptionSet, *model.Option, *model.Option) {
	t.Helper()

	set := &model.OptionSet{Name: "Gift Options", Status: model.StatusActive}
	require.NoError(t, env.setRepo.Create(set))

	extras := &model.Option{
		OptionSetID: set.ID,
		Name:        "Extras",
		Type:        model.TypeCheckbox,
		Status:      model.StatusActive,
	}
	require.NoError(t, env.optionRepo.Create(extras))
	require.NoError(t, env.optionRepo.CreateValue(&model.OptionValue{
		OptionID:      extras.ID,
		Label:         "Gift Wrap",
		Value:         "gift_wrap",
		PriceModifier: 2.5,
		PriceType:     model.PriceFixed,
		Status:        model.StatusActive,
	}))

	message := &model.Option{
		OptionSetID: set.ID,
		Name:        "Gift Message",
		Type:        model.TypeTextarea,
		Status:      model.StatusActive,
	}
	require.NoError(t, env.optionRepo.Create(message))

	condition := fmt.Sprintf(`{"operator":"and","conditions":[{"option_id":%d,"comparison":"contains","value":"gift_wrap"}]}`, extras.ID)
	action := fmt.Sprintf(`{"type":"require","target_options":[%d]}`, message.ID)
	require.NoError(t, env.ruleRepo.Create(&model.Rule{
		OptionSetID: set.ID,
		Name:        "require message with wrap",
		Condition:   datatypes.JSON(condition),
		Action:      datatypes.JSON(action),
		Status:      model.StatusActive,
	}))

	return set, extras, message
}
