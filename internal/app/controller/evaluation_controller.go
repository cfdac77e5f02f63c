package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okim/optionlogic-backend/internal/app/rules"
	"github.com/okim/optionlogic-backend/internal/app/service"
	apperrors "github.com/okim/optionlogic-backend/internal/errors"
	"github.com/okim/optionlogic-backend/internal/middleware"
)

// EvaluationController serves the storefront surface. Every endpoint here is
// public and reads from the active snapshot only.
type EvaluationController struct {
	evalService service.EvaluationService
	setService  service.OptionSetService
}

func NewEvaluationController(evalService service.EvaluationService, setService service.OptionSetService) *EvaluationController {
	return &EvaluationController{evalService: evalService, setService: setService}
}

type EvaluateRequest struct {
	Selections rules.Selections `json:"selections"`
}

type PriceRequest struct {
	ProductID  uint             `json:"product_id" binding:"required"`
	Selections rules.Selections `json:"selections"`
}

func (ctrl *EvaluationController) respondEvalError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrOptionSetNotFound):
		apperrors.NotFound(c, apperrors.SetNotFound, "Option set not found")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	default:
		log.Error("Evaluation request failed", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// ProductOptionSets returns the active option sets assigned to a product,
// in assignment order, with options, values and rules preloaded.
// GET /api/v1/products/:id/option-sets
func (ctrl *EvaluationController) ProductOptionSets(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sets, err := ctrl.setService.SetsForProduct(productID)
	if err != nil {
		ctrl.respondEvalError(c, err, "list product option sets")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"option_sets": sets,
		"count":       len(sets),
	})
}

// Evaluate runs the active rules against a selection map and returns the
// aggregate effect the storefront should apply.
// POST /api/v1/option-sets/:id/evaluate
func (ctrl *EvaluationController) Evaluate(c *gin.Context) {
	setID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid selections payload")
		return
	}

	effect, err := ctrl.evalService.Evaluate(c.Request.Context(), setID, req.Selections)
	if err != nil {
		ctrl.respondEvalError(c, err, "evaluate option set")
		return
	}

	c.JSON(http.StatusOK, gin.H{"effect": effect})
}

// Price returns the price breakdown for a selection map
// POST /api/v1/option-sets/:id/price
func (ctrl *EvaluationController) Price(c *gin.Context) {
	setID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid price payload")
		return
	}

	quote, err := ctrl.evalService.Price(c.Request.Context(), setID, req.ProductID, req.Selections)
	if err != nil {
		ctrl.respondEvalError(c, err, "price option set")
		return
	}

	c.JSON(http.StatusOK, gin.H{"price": quote})
}

// Validate checks a selection map against required flags, selection counts
// and hidden values before the storefront allows add-to-cart.
// POST /api/v1/option-sets/:id/validate
func (ctrl *EvaluationController) Validate(c *gin.Context) {
	setID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid selections payload")
		return
	}

	result, err := ctrl.evalService.Validate(c.Request.Context(), setID, req.Selections)
	if err != nil {
		ctrl.respondEvalError(c, err, "validate selections")
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}
