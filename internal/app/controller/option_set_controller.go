package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/okim/optionlogic-backend/internal/app/model"
	"github.com/okim/optionlogic-backend/internal/app/repository"
	"github.com/okim/optionlogic-backend/internal/app/service"
	apperrors "github.com/okim/optionlogic-backend/internal/errors"
	"github.com/okim/optionlogic-backend/internal/middleware"
)

type OptionSetController struct {
	setService  service.OptionSetService
	evalService service.EvaluationService
}

func NewOptionSetController(setService service.OptionSetService, evalService service.EvaluationService) *OptionSetController {
	return &OptionSetController{setService: setService, evalService: evalService}
}

type OptionSetRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Status      model.SetStatus `json:"status"`
}

type UpdateOptionSetRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Status      *model.SetStatus `json:"status"`
}

type DuplicateRequest struct {
	Name string `json:"name"`
}

type AssignProductRequest struct {
	Position            int  `json:"position"`
	ReplaceVariations   bool `json:"replace_variations"`
	HideOriginalOptions bool `json:"hide_original_options"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}

// List returns option sets, filterable by search and status
// GET /api/v1/option-sets
func (ctrl *OptionSetController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.OptionSetFilter{
		Search:        c.Query("search"),
		Status:        model.SetStatus(c.Query("status")),
		IncludeDetail: c.DefaultQuery("include_detail", "false") == "true",
	}

	sets, err := ctrl.setService.List(filter)
	if err != nil {
		log.Error("Failed to list option sets", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"option_sets": sets,
		"count":       len(sets),
	})
}

// Get returns one option set with options, values and rules
// GET /api/v1/option-sets/:id
func (ctrl *OptionSetController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	set, err := ctrl.setService.Get(id, true)
	if err != nil {
		if errors.Is(err, service.ErrOptionSetNotFound) {
			apperrors.NotFound(c, apperrors.SetNotFound, "Option set not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"option_set": set})
}

// Create creates an option set
// POST /api/v1/option-sets
func (ctrl *OptionSetController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req OptionSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid option set payload")
		return
	}

	set, err := ctrl.setService.Create(service.CreateOptionSetInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		log.Error("Failed to create option set", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create option set")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"option_set": set})
}

// Update updates an option set
// PUT /api/v1/option-sets/:id
func (ctrl *OptionSetController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOptionSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid option set payload")
		return
	}

	set, err := ctrl.setService.Update(id, service.UpdateOptionSetInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, service.ErrOptionSetNotFound) {
			apperrors.NotFound(c, apperrors.SetNotFound, "Option set not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update option set")
		return
	}

	ctrl.evalService.InvalidateSnapshot(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"option_set": set})
}

// Delete removes an option set and everything under it
// DELETE /api/v1/option-sets/:id
func (ctrl *OptionSetController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.setService.Delete(id); err != nil {
		if errors.Is(err, service.ErrOptionSetNotFound) {
			apperrors.NotFound(c, apperrors.SetNotFound, "Option set not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete option set")
		return
	}

	ctrl.evalService.InvalidateSnapshot(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"message": "Option set deleted"})
}

// Duplicate deep copies an option set
// POST /api/v1/option-sets/:id/duplicate
func (ctrl *OptionSetController) Duplicate(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req DuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid duplicate payload")
		return
	}

	copySet, err := ctrl.setService.Duplicate(id, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrOptionSetNotFound) {
			apperrors.NotFound(c, apperrors.SetNotFound, "Option set not found")
			return
		}
		log.Error("Failed to duplicate option set", err, map[string]interface{}{
			"option_set_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "duplicate option set")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"option_set": copySet})
}

// AssignProduct links an option set to a product
// POST /api/v1/option-sets/:id/products/:product_id
func (ctrl *OptionSetController) AssignProduct(c *gin.Context) {
	setID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}

	var req AssignProductRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid assignment payload")
		return
	}

	err := ctrl.setService.AssignToProduct(setID, productID, service.AssignmentInput{
		Position:            req.Position,
		ReplaceVariations:   req.ReplaceVariations,
		HideOriginalOptions: req.HideOriginalOptions,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOptionSetNotFound):
			apperrors.NotFound(c, apperrors.SetNotFound, "Option set not found")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrSetAlreadyAssigned):
			apperrors.Conflict(c, apperrors.SetAlreadyAssigned, "The option set is already assigned to this product")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "assign option set")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Option set assigned"})
}

// UnassignProduct removes the product link
// DELETE /api/v1/option-sets/:id/products/:product_id
func (ctrl *OptionSetController) UnassignProduct(c *gin.Context) {
	setID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}

	if err := ctrl.setService.UnassignFromProduct(setID, productID); err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "unassign option set")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Option set unassigned"})
}
