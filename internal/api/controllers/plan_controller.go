package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripnotes/internal/models/request_models"
	"tripnotes/internal/services"
	"tripnotes/pkg/utils"
)

type PlanController struct {
	planService       services.PlanServiceInterface
	generationService services.GenerationServiceInterface
	logger            *zap.Logger
}

func NewPlanController(
	planService services.PlanServiceInterface,
	generationService services.GenerationServiceInterface,
	logger *zap.Logger,
) *PlanController {
	return &PlanController{
		planService:       planService,
		generationService: generationService,
		logger:            logger.With(zap.String(utils.FieldComponent, "plan_controller")),
	}
}

// Register mounts the plan routes on r.
func (pc *PlanController) Register(r gin.IRouter) {
	projects := r.Group("/projects/:projectId")
	projects.POST("/plans", pc.GeneratePlan)
	projects.GET("/plans", pc.ListPlans)
	projects.POST("/config-updated", pc.ConfigUpdated)

	plans := r.Group("/plans")
	plans.GET("/compare", pc.ComparePlans)
	plans.GET("/:planId", pc.GetPlan)
	plans.PATCH("/:planId", pc.RenamePlan)
	plans.PUT("/:planId/content", pc.UpdatePlanContent)
	plans.DELETE("/:planId", pc.DeletePlan)
}

// GeneratePlan godoc
// @Summary Generate a new plan version
// @Description Builds an itinerary from the project's configuration and notes and stores it under version_name
// @Tags Plans
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param body body request_models.GeneratePlanRequest true "Version name"
// @Success 201 {object} response_models.PlanResponse
// @Failure 409 "version name conflict"
// @Failure 412 "missing configuration"
// @Failure 422 "plan limit exceeded"
// @Router /projects/{projectId}/plans [post]
func (pc *PlanController) GeneratePlan(c *gin.Context) {
	var req request_models.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request: version_name must be 1-50 characters")
		return
	}

	plan, err := pc.generationService.GeneratePlan(c.Request.Context(), c.Param("projectId"), req.VersionName)
	if err != nil {
		utils.HandleServiceError(c, pc.logger, err)
		return
	}

	utils.RespondWithStatus(c, http.StatusCreated, plan, "Plan generated successfully")
}

// ListPlans godoc
// @Summary List plan versions of a project
// @Tags Plans
// @Produce json
// @Param projectId path string true "Project ID"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10) minimum(1) maximum(100)
// @Param includeOutdated query bool false "Include outdated plans"
// @Param sortBy query string false "created_at, updated_at or version_name"
// @Param order query string false "asc or desc"
// @Success 200 {object} response_models.PlanPage
// @Router /projects/{projectId}/plans [get]
func (pc *PlanController) ListPlans(c *gin.Context) {
	var query request_models.ListPlansQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	page, err := pc.planService.ListPlans(c.Request.Context(), c.Param("projectId"), query)
	if err != nil {
		utils.HandleServiceError(c, pc.logger, err)
		return
	}

	utils.RespondSuccess(c, page, "Plans fetched successfully")
}

func (pc *PlanController) GetPlan(c *gin.Context) {
	plan, err := pc.planService.GetPlan(c.Request.Context(), c.Param("planId"))
	if err != nil {
		utils.HandleServiceError(c, pc.logger, err)
		return
	}

	utils.RespondSuccess(c, plan, "Plan fetched successfully")
}

func (pc *PlanController) RenamePlan(c *gin.Context) {
	var req request_models.RenamePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request: version_name must be 1-50 characters")
		return
	}

	plan, err := pc.planService.RenamePlan(c.Request.Context(), c.Param("planId"), req.VersionName)
	if err != nil {
		utils.HandleServiceError(c, pc.logger, err)
		return
	}

	utils.RespondSuccess(c, plan, "Plan renamed successfully")
}

func (pc *PlanController) UpdatePlanContent(c *gin.Context) {
	var req request_models.UpdatePlanContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	plan, err := pc.planService.UpdatePlanContent(c.Request.Context(), c.Param("planId"), req.Content)
	if err != nil {
		utils.HandleServiceError(c, pc.logger, err)
		return
	}

	utils.RespondSuccess(c, plan, "Plan content updated successfully")
}

func (pc *PlanController) DeletePlan(c *gin.Context) {
	if err := pc.planService.DeletePlan(c.Request.Context(), c.Param("planId")); err != nil {
		utils.HandleServiceError(c, pc.logger, err)
		return
	}

	utils.RespondSuccess(c, nil, "Plan deleted successfully")
}

// ComparePlans godoc
// @Summary Compare two plan versions day by day
// @Tags Plans
// @Produce json
// @Param plan1 query string true "First plan ID"
// @Param plan2 query string true "Second plan ID"
// @Success 200 {object} response_models.ComparisonResult
// @Router /plans/compare [get]
func (pc *PlanController) ComparePlans(c *gin.Context) {
	var query request_models.ComparePlansQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "plan1 and plan2 must be plan ids")
		return
	}

	result, err := pc.planService.ComparePlans(c.Request.Context(), query.Plan1, query.Plan2)
	if err != nil {
		utils.HandleServiceError(c, pc.logger, err)
		return
	}

	utils.RespondSuccess(c, result, "Plans compared successfully")
}

// ConfigUpdated is called by the note subsystem after the configuration
// note of a project changed.
func (pc *PlanController) ConfigUpdated(c *gin.Context) {
	affected, err := pc.planService.MarkProjectOutdated(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		utils.HandleServiceError(c, pc.logger, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"outdated": affected}, "Project plans marked outdated")
}
