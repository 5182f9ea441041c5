package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"alcyxob/session-planner/internal/domain"
	"alcyxob/session-planner/internal/service"
)

// ExerciseHandler serves catalog searches.
type ExerciseHandler struct {
	planService    service.PlanService
	catalogService service.CatalogService
	log            *zap.Logger
}

func NewExerciseHandler(planService service.PlanService, catalogService service.CatalogService, log *zap.Logger) *ExerciseHandler {
	return &ExerciseHandler{planService: planService, catalogService: catalogService, log: log}
}

// --- DTOs ---

// CriteriaQuery is the query string accepted by the search endpoints.
type CriteriaQuery struct {
	Phase       string `form:"phase"`
	Intensity   string `form:"intensity"`
	MaxDuration *int   `form:"max_duration" binding:"omitempty,min=0"`
	Subtopic    string `form:"subtopic"`
}

func (q CriteriaQuery) criteria() domain.Criteria {
	return domain.Criteria{Phase: q.Phase, Intensity: q.Intensity, MaxDuration: q.MaxDuration, Subtopic: q.Subtopic}
}

type ExerciseListResponse struct {
	Count     int               `json:"count"`
	Exercises []domain.Exercise `json:"exercises"`
}

type RefreshResponse struct {
	Count     int       `json:"count"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// --- Handler Methods ---

// ListExercises godoc
// @Summary Search the exercise catalog
// @Tags Exercises
// @Produce json
// @Param phase query string false "Game phase"
// @Param intensity query string false "Intensity"
// @Param max_duration query int false "Longest duration in minutes"
// @Param subtopic query string false "Subtopic substring"
// @Success 200 {object} ExerciseListResponse
// @Failure 400 {object} gin.H "Invalid query"
// @Failure 422 {object} gin.H "Malformed catalog record"
// @Failure 503 {object} gin.H "No data available"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	var q CriteriaQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercises, err := h.planService.Search(c.Request.Context(), q.criteria())
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ExerciseListResponse{Count: len(exercises), Exercises: exercises})
}

// GetDigest godoc
// @Summary Short plain text digest of matching exercises
// @Tags Exercises
// @Produce plain
// @Success 200 {string} string
// @Router /exercises/digest [get]
func (h *ExerciseHandler) GetDigest(c *gin.Context) {
	var q CriteriaQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	digest, err := h.planService.Digest(c.Request.Context(), q.criteria())
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.String(http.StatusOK, digest)
}

// RefreshCatalog godoc
// @Summary Refetch the exercise catalog
// @Tags Catalog
// @Produce json
// @Success 200 {object} RefreshResponse
// @Failure 503 {object} gin.H "No data available"
// @Router /catalog/refresh [post]
func (h *ExerciseHandler) RefreshCatalog(c *gin.Context) {
	exercises, err := h.catalogService.Refresh(c.Request.Context())
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, RefreshResponse{Count: len(exercises), FetchedAt: h.catalogService.FetchedAt()})
}
