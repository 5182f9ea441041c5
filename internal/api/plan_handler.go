package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"alcyxob/session-planner/internal/domain"
	"alcyxob/session-planner/internal/service"
)

type PlanHandler struct {
	planService service.PlanService
	log         *zap.Logger
}

func NewPlanHandler(planService service.PlanService, log *zap.Logger) *PlanHandler {
	return &PlanHandler{planService: planService, log: log}
}

// --- DTOs ---

// PlanRequestBody selects exercises either by id or by criteria.
type PlanRequestBody struct {
	Title       string   `json:"title"`
	ExerciseIDs []string `json:"exerciseIds"`
	Phase       string   `json:"phase"`
	Intensity   string   `json:"intensity"`
	MaxDuration *int     `json:"maxDuration" binding:"omitempty,min=0"`
	Subtopic    string   `json:"subtopic"`
}

func (b PlanRequestBody) planRequest(requester string) service.PlanRequest {
	return service.PlanRequest{
		Title:       b.Title,
		ExerciseIDs: b.ExerciseIDs,
		Criteria: domain.Criteria{
			Phase:       b.Phase,
			Intensity:   b.Intensity,
			MaxDuration: b.MaxDuration,
			Subtopic:    b.Subtopic,
		},
		RequestedBy: requester,
	}
}

type PublishedPlanResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Exercises    int       `json:"exercises"`
	TotalMinutes int       `json:"totalMinutes"`
	URL          string    `json:"url"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// --- Handler Methods ---

// ExportPlan godoc
// @Summary Export a session plan as PDF
// @Tags Plans
// @Accept json
// @Produce application/pdf
// @Param plan body PlanRequestBody true "Exercises to include"
// @Success 200 {file} file
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Unknown exercise id"
// @Router /plans/export [post]
func (h *PlanHandler) ExportPlan(c *gin.Context) {
	var body PlanRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, pdf, err := h.planService.ExportPlan(c.Request.Context(), body.planRequest(requesterFromContext(c)))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="session-plan-%s.pdf"`, plan.ID))
	c.Header("X-Plan-Exercises", strconv.Itoa(len(plan.Exercises)))
	c.Header("X-Plan-Total-Minutes", strconv.Itoa(plan.TotalMinutes))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// PublishPlan godoc
// @Summary Export a session plan and store it for download
// @Tags Plans
// @Accept json
// @Produce json
// @Param plan body PlanRequestBody true "Exercises to include"
// @Success 201 {object} PublishedPlanResponse
// @Failure 501 {object} gin.H "Storage not configured"
// @Router /plans [post]
func (h *PlanHandler) PublishPlan(c *gin.Context) {
	var body PlanRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	published, err := h.planService.PublishPlan(c.Request.Context(), body.planRequest(requesterFromContext(c)))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, PublishedPlanResponse{
		ID:           published.Plan.ID,
		Title:        published.Plan.Title,
		Exercises:    len(published.Plan.Exercises),
		TotalMinutes: published.Plan.TotalMinutes,
		URL:          published.URL,
		ExpiresAt:    published.ExpiresAt,
	})
}
