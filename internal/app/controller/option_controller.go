package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/okim/optionlogic-backend/internal/app/model"
	"github.com/okim/optionlogic-backend/internal/app/service"
	apperrors "github.com/okim/optionlogic-backend/internal/errors"
	"github.com/okim/optionlogic-backend/internal/middleware"
)

type OptionController struct {
	optionService service.OptionService
	evalService   service.EvaluationService
}

func NewOptionController(optionService service.OptionService, evalService service.EvaluationService) *OptionController {
	return &OptionController{optionService: optionService, evalService: evalService}
}

type OptionRequest struct {
	Name         string           `json:"name" binding:"required"`
	Description  string           `json:"description"`
	Type         model.OptionType `json:"type" binding:"required"`
	Required     bool             `json:"required"`
	Multiple     bool             `json:"multiple"`
	MinSelection int              `json:"min_selection"`
	MaxSelection int              `json:"max_selection"`
	Status       model.SetStatus  `json:"status"`
}

type UpdateOptionRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Required     *bool            `json:"required"`
	Multiple     *bool            `json:"multiple"`
	MinSelection *int             `json:"min_selection"`
	MaxSelection *int             `json:"max_selection"`
	Status       *model.SetStatus `json:"status"`
}

type ReorderRequest struct {
	OptionIDs []uint `json:"option_ids" binding:"required"`
}

type ReorderValuesRequest struct {
	ValueIDs []uint `json:"value_ids" binding:"required"`
}

type OptionValueRequest struct {
	Label         string          `json:"label" binding:"required"`
	Value         string          `json:"value"`
	PriceModifier float64         `json:"price_modifier"`
	PriceType     model.PriceType `json:"price_type"`
	Description   string          `json:"description"`
	ImageURL      string          `json:"image_url"`
	ColorHex      string          `json:"color_hex"`
	IsDefault     bool            `json:"is_default"`
}

type UpdateOptionValueRequest struct {
	Label         *string          `json:"label"`
	Value         *string          `json:"value"`
	PriceModifier *float64         `json:"price_modifier"`
	PriceType     *model.PriceType `json:"price_type"`
	Description   *string          `json:"description"`
	ImageURL      *string          `json:"image_url"`
	ColorHex      *string          `json:"color_hex"`
	IsDefault     *bool            `json:"is_default"`
	Status        *model.SetStatus `json:"status"`
}

func (ctrl *OptionController) respondOptionError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrOptionSetNotFound):
		apperrors.NotFound(c, apperrors.SetNotFound, "Option set not found")
	case errors.Is(err, service.ErrOptionNotFound):
		apperrors.NotFound(c, apperrors.OptionNotFound, "Option not found")
	case errors.Is(err, service.ErrOptionValueNotFound):
		apperrors.NotFound(c, apperrors.OptionValueNotFound, "Option value not found")
	case errors.Is(err, service.ErrInvalidOptionType):
		apperrors.BadRequest(c, apperrors.OptionInvalidType, "Unsupported option type")
	case errors.Is(err, service.ErrValuesNotSupported):
		apperrors.BadRequest(c, apperrors.OptionValuesNotSupported, "This option type does not accept values")
	case errors.Is(err, service.ErrValueTokenExists):
		apperrors.Conflict(c, apperrors.OptionTokenExists, "A value with this token already exists on the option")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// List returns the options of a set, ordered by position
// GET /api/v1/option-sets/:id/options
func (ctrl *OptionController) List(c *gin.Context) {
	setID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	options, err := ctrl.optionService.ListBySet(setID)
	if err != nil {
		ctrl.respondOptionError(c, err, "list options")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"options": options,
		"count":   len(options),
	})
}

// Get returns one option with its values
// GET /api/v1/options/:id
func (ctrl *OptionController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	option, err := ctrl.optionService.Get(id)
	if err != nil {
		ctrl.respondOptionError(c, err, "get option")
		return
	}

	c.JSON(http.StatusOK, gin.H{"option": option})
}

// Create adds an option to a set
// POST /api/v1/option-sets/:id/options
func (ctrl *OptionController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	setID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid option payload")
		return
	}

	option, err := ctrl.optionService.Create(setID, service.CreateOptionInput{
		Name:         req.Name,
		Description:  req.Description,
		Type:         req.Type,
		Required:     req.Required,
		Multiple:     req.Multiple,
		MinSelection: req.MinSelection,
		MaxSelection: req.MaxSelection,
		Status:       req.Status,
	})
	if err != nil {
		log.Error("Failed to create option", err, map[string]interface{}{
			"option_set_id": setID,
			"name":          req.Name,
		})
		ctrl.respondOptionError(c, err, "create option")
		return
	}

	ctrl.evalService.InvalidateSnapshot(c.Request.Context(), setID)
	c.JSON(http.StatusCreated, gin.H{"option": option})
}

// Update edits option fields; the type is fixed at creation
// PUT /api/v1/options/:id
func (ctrl *OptionController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid option payload")
		return
	}

	option, err := ctrl.optionService.Update(id, service.UpdateOptionInput{
		Name:         req.Name,
		Description:  req.Description,
		Required:     req.Required,
		Multiple:     req.Multiple,
		MinSelection: req.MinSelection,
		MaxSelection: req.MaxSelection,
		Status:       req.Status,
	})
	if err != nil {
		ctrl.respondOptionError(c, err, "update option")
		return
	}

	ctrl.evalService.InvalidateSnapshot(c.Request.Context(), option.OptionSetID)
	c.JSON(http.StatusOK, gin.H{"option": option})
}

// Delete removes an option and its values
// DELETE /api/v1/options/:id
func (ctrl *OptionController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	option, err := ctrl.optionService.Get(id)
	if err != nil {
		ctrl.respondOptionError(c, err, "delete option")
		return
	}

	if err := ctrl.optionService.Delete(id); err != nil {
		ctrl.respondOptionError(c, err, "delete option")
		return
	}

	ctrl.evalService.InvalidateSnapshot(c.Request.Context(), option.OptionSetID)
	c.JSON(http.StatusOK, gin.H{"message": "Option deleted"})
}

// Reorder rewrites option positions from the given ID order
// PUT /api/v1/option-sets/:id/options/reorder
func (ctrl *OptionController) Reorder(c *gin.Context) {
	setID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.OptionIDs) == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid reorder payload")
		return
	}

	if err := ctrl.optionService.Reorder(setID, req.OptionIDs); err != nil {
		ctrl.respondOptionError(c, err, "reorder options")
		return
	}

	ctrl.evalService.InvalidateSnapshot(c.Request.Context(), setID)
	c.JSON(http.StatusOK, gin.H{"message": "Options reordered"})
}

// AddValue appends a value to a choice-type option
// POST /api/v1/options/:id/values
func (ctrl *OptionController) AddValue(c *gin.Context) {
	optionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req OptionValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid value payload")
		return
	}

	value, err := ctrl.optionService.AddValue(optionID, service.CreateValueInput{
		Label:         req.Label,
		Value:         req.Value,
		PriceModifier: req.PriceModifier,
		PriceType:     req.PriceType,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		ColorHex:      req.ColorHex,
		IsDefault:     req.IsDefault,
	})
	if err != nil {
		ctrl.respondOptionError(c, err, "create option value")
		return
	}

	if option, err := ctrl.optionService.Get(optionID); err == nil {
		ctrl.evalService.InvalidateSnapshot(c.Request.Context(), option.OptionSetID)
	}
	c.JSON(http.StatusCreated, gin.H{"value": value})
}

// UpdateValue edits a value
// PUT /api/v1/values/:id
func (ctrl *OptionController) UpdateValue(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOptionValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid value payload")
		return
	}

	value, err := ctrl.optionService.UpdateValue(id, service.UpdateValueInput{
		Label:         req.Label,
		Value:         req.Value,
		PriceModifier: req.PriceModifier,
		PriceType:     req.PriceType,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		ColorHex:      req.ColorHex,
		IsDefault:     req.IsDefault,
		Status:        req.Status,
	})
	if err != nil {
		ctrl.respondOptionError(c, err, "update option value")
		return
	}

	if option, err := ctrl.optionService.Get(value.OptionID); err == nil {
		ctrl.evalService.InvalidateSnapshot(c.Request.Context(), option.OptionSetID)
	}
	c.JSON(http.StatusOK, gin.H{"value": value})
}

// ReorderValues rewrites value positions from the given ID order
// PUT /api/v1/options/:id/values/reorder
func (ctrl *OptionController) ReorderValues(c *gin.Context) {
	optionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReorderValuesRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ValueIDs) == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid reorder payload")
		return
	}

	if err := ctrl.optionService.ReorderValues(optionID, req.ValueIDs); err != nil {
		ctrl.respondOptionError(c, err, "reorder option values")
		return
	}

	if option, err := ctrl.optionService.Get(optionID); err == nil {
		ctrl.evalService.InvalidateSnapshot(c.Request.Context(), option.OptionSetID)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Option values reordered"})
}

// ListValues returns an option's values in position order
// GET /api/v1/options/:id/values
func (ctrl *OptionController) ListValues(c *gin.Context) {
	optionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	option, err := ctrl.optionService.Get(optionID)
	if err != nil {
		ctrl.respondOptionError(c, err, "list option values")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"values": option.Values,
		"count":  len(option.Values),
	})
}

// DeleteValue removes a value
// DELETE /api/v1/values/:id
func (ctrl *OptionController) DeleteValue(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.optionService.DeleteValue(id); err != nil {
		ctrl.respondOptionError(c, err, "delete option value")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Option value deleted"})
}
