package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"alcyxob/session-planner/internal/service"
)

// SetupRoutes registers every endpoint. An empty jwtSecret leaves /api/v1 open.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	catalogService service.CatalogService,
	planService service.PlanService,
	log *zap.Logger,
) {
	exerciseHandler := NewExerciseHandler(planService, catalogService, log)
	planHandler := NewPlanHandler(planService, log)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	if jwtSecret != "" {
		apiV1.Use(AuthMiddleware(jwtSecret))
	}
	{
		exerciseGroup := apiV1.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/digest", exerciseHandler.GetDigest)
		}

		apiV1.POST("/catalog/refresh", exerciseHandler.RefreshCatalog)

		planGroup := apiV1.Group("/plans")
		{
			planGroup.POST("", planHandler.PublishPlan)
			planGroup.POST("/export", planHandler.ExportPlan)
		}
	}
}
