package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okim/optionlogic-backend/config"
	"github.com/okim/optionlogic-backend/internal/app/controller"
	"github.com/okim/optionlogic-backend/internal/middleware"
)

type Router struct {
	authController       *controller.AuthController
	optionSetController  *controller.OptionSetController
	optionController     *controller.OptionController
	ruleController       *controller.RuleController
	evaluationController *controller.EvaluationController
	uploadController     *controller.UploadController
	liveController       *controller.LiveController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	optionSetController *controller.OptionSetController,
	optionController *controller.OptionController,
	ruleController *controller.RuleController,
	evaluationController *controller.EvaluationController,
	uploadController *controller.UploadController,
	liveController *controller.LiveController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		optionSetController:  optionSetController,
		optionController:     optionController,
		ruleController:       ruleController,
		evaluationController: evaluationController,
		uploadController:     uploadController,
		liveController:       liveController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "OPTIONLOGIC API is running",
		})
	})

	admin := r.authMiddleware.Authenticate()
	merchant := r.authMiddleware.RequireRole("merchant", "admin")

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.GET("/me", admin, r.authController.Me)
		}

		sets := v1.Group("/option-sets")
		{
			// storefront evaluation surface, no auth
			sets.POST("/:id/evaluate", r.evaluationController.Evaluate)
			sets.POST("/:id/price", r.evaluationController.Price)
			sets.POST("/:id/validate", r.evaluationController.Validate)
			sets.GET("/:id/live", r.liveController.Connect)

			// admin surface
			sets.GET("", admin, merchant, r.optionSetController.List)
			sets.GET("/:id", admin, merchant, r.optionSetController.Get)
			sets.POST("", admin, merchant, r.optionSetController.Create)
			sets.PUT("/:id", admin, merchant, r.optionSetController.Update)
			sets.DELETE("/:id", admin, merchant, r.optionSetController.Delete)
			sets.POST("/:id/duplicate", admin, merchant, r.optionSetController.Duplicate)
			sets.POST("/:id/products/:product_id", admin, merchant, r.optionSetController.AssignProduct)
			sets.DELETE("/:id/products/:product_id", admin, merchant, r.optionSetController.UnassignProduct)

			sets.GET("/:id/options", admin, merchant, r.optionController.List)
			sets.POST("/:id/options", admin, merchant, r.optionController.Create)
			sets.PUT("/:id/options/reorder", admin, merchant, r.optionController.Reorder)

			sets.GET("/:id/rules", admin, merchant, r.ruleController.List)
			sets.POST("/:id/rules", admin, merchant, r.ruleController.Create)
		}

		options := v1.Group("/options")
		options.Use(admin, merchant)
		{
			options.GET("/:id", r.optionController.Get)
			options.PUT("/:id", r.optionController.Update)
			options.DELETE("/:id", r.optionController.Delete)
			options.GET("/:id/values", r.optionController.ListValues)
			options.POST("/:id/values", r.optionController.AddValue)
			options.PUT("/:id/values/reorder", r.optionController.ReorderValues)
		}

		values := v1.Group("/values")
		values.Use(admin, merchant)
		{
			values.PUT("/:id", r.optionController.UpdateValue)
			values.DELETE("/:id", r.optionController.DeleteValue)
		}

		rules := v1.Group("/rules")
		rules.Use(admin, merchant)
		{
			rules.POST("/test", r.ruleController.Test)
			rules.GET("/:id", r.ruleController.Get)
			rules.PUT("/:id", r.ruleController.Update)
			rules.DELETE("/:id", r.ruleController.Delete)
		}

		products := v1.Group("/products")
		{
			products.GET("/:id/option-sets", r.evaluationController.ProductOptionSets)
		}

		uploads := v1.Group("/uploads")
		uploads.Use(admin, merchant)
		{
			uploads.POST("/presign", r.uploadController.PresignUpload)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
