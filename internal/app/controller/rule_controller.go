package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/okim/optionlogic-backend/internal/app/model"
	"github.com/okim/optionlogic-backend/internal/app/rules"
	"github.com/okim/optionlogic-backend/internal/app/service"
	apperrors "github.com/okim/optionlogic-backend/internal/errors"
	"github.com/okim/optionlogic-backend/internal/middleware"
)

type RuleController struct {
	ruleService service.RuleService
	evalService service.EvaluationService
}

func NewRuleController(ruleService service.RuleService, evalService service.EvaluationService) *RuleController {
	return &RuleController{ruleService: ruleService, evalService: evalService}
}

type RuleRequest struct {
	Name      string          `json:"name" binding:"required"`
	Condition datatypes.JSON  `json:"condition" binding:"required"`
	Action    datatypes.JSON  `json:"action" binding:"required"`
	Status    model.SetStatus `json:"status"`
}

type UpdateRuleRequest struct {
	Name      string          `json:"name"`
	Condition datatypes.JSON  `json:"condition"`
	Action    datatypes.JSON  `json:"action"`
	Status    model.SetStatus `json:"status"`
}

type RuleTestRequest struct {
	Condition  datatypes.JSON   `json:"condition" binding:"required"`
	Action     datatypes.JSON   `json:"action" binding:"required"`
	Selections rules.Selections `json:"selections"`
}

func (ctrl *RuleController) respondRuleError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrOptionSetNotFound):
		apperrors.NotFound(c, apperrors.SetNotFound, "Option set not found")
	case errors.Is(err, service.ErrRuleNotFound):
		apperrors.NotFound(c, apperrors.RuleNotFound, "Rule not found")
	case errors.Is(err, service.ErrInvalidCondition):
		apperrors.BadRequest(c, apperrors.RuleInvalidCondition, "Rule condition document is invalid")
	case errors.Is(err, service.ErrInvalidAction):
		apperrors.BadRequest(c, apperrors.RuleInvalidAction, "Rule action document is invalid")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// List returns the rules of a set, ordered by name
// GET /api/v1/option-sets/:id/rules
func (ctrl *RuleController) List(c *gin.Context) {
	setID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := ctrl.ruleService.ListBySet(setID)
	if err != nil {
		ctrl.respondRuleError(c, err, "list rules")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rules": list,
		"count": len(list),
	})
}

// Get returns a single rule
// GET /api/v1/rules/:id
func (ctrl *RuleController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rule, err := ctrl.ruleService.Get(id)
	if err != nil {
		ctrl.respondRuleError(c, err, "get rule")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rule": rule})
}

// Create validates and stores a rule
// POST /api/v1/option-sets/:id/rules
func (ctrl *RuleController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	setID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid rule payload")
		return
	}

	rule, err := ctrl.ruleService.Create(setID, service.RuleInput{
		Name:      req.Name,
		Condition: req.Condition,
		Action:    req.Action,
		Status:    req.Status,
	})
	if err != nil {
		log.Warn("Rule creation rejected", map[string]interface{}{
			"option_set_id": setID,
			"name":          req.Name,
			"error":         err.Error(),
		})
		ctrl.respondRuleError(c, err, "create rule")
		return
	}

	ctrl.evalService.InvalidateSnapshot(c.Request.Context(), setID)
	c.JSON(http.StatusCreated, gin.H{"rule": rule})
}

// Update replaces the provided rule fields; empty documents keep the stored ones
// PUT /api/v1/rules/:id
func (ctrl *RuleController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid rule payload")
		return
	}

	rule, err := ctrl.ruleService.Update(id, service.RuleInput{
		Name:      req.Name,
		Condition: req.Condition,
		Action:    req.Action,
		Status:    req.Status,
	})
	if err != nil {
		ctrl.respondRuleError(c, err, "update rule")
		return
	}

	ctrl.evalService.InvalidateSnapshot(c.Request.Context(), rule.OptionSetID)
	c.JSON(http.StatusOK, gin.H{"rule": rule})
}

// Delete removes a rule
// DELETE /api/v1/rules/:id
func (ctrl *RuleController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rule, err := ctrl.ruleService.Get(id)
	if err != nil {
		ctrl.respondRuleError(c, err, "delete rule")
		return
	}

	if err := ctrl.ruleService.Delete(id); err != nil {
		ctrl.respondRuleError(c, err, "delete rule")
		return
	}

	ctrl.evalService.InvalidateSnapshot(c.Request.Context(), rule.OptionSetID)
	c.JSON(http.StatusOK, gin.H{"message": "Rule deleted"})
}

// Test dry runs a rule draft against a selection map without storing it
// POST /api/v1/rules/test
func (ctrl *RuleController) Test(c *gin.Context) {
	var req RuleTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid test payload")
		return
	}

	effect, fired, err := ctrl.ruleService.Test(req.Condition, req.Action, req.Selections)
	if err != nil {
		ctrl.respondRuleError(c, err, "test rule")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fired":  fired,
		"effect": effect,
	})
}
