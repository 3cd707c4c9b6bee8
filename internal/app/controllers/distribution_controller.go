package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmelo/shiftboard/internal/app/models/dto"
	"github.com/dmelo/shiftboard/internal/app/services"
	"github.com/dmelo/shiftboard/internal/middleware"
)

// DistributionController drives the bulk distribution workflow.
type DistributionController struct {
	distributionService *services.DistributionService
}

// NewDistributionController creates a new DistributionController
func NewDistributionController(distributionService *services.DistributionService) *DistributionController {
	return &DistributionController{
		distributionService: distributionService,
	}
}

// BuildPlan generates a distribution plan
// @Summary Build a distribution plan
// @Description Proposes allocations for every unallocated enrolment without writing anything. The plan is deterministic for a given store state.
// @Tags distribution
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DistributionPlanResponse} "Plan generated"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /distribution/plan [post]
func (c *DistributionController) BuildPlan(ctx *gin.Context) {
	plan, err := c.distributionService.BuildPlan(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      plan,
		Timestamp: time.Now(),
	})
}

// CommitPlan commits a distribution plan
// @Summary Commit a distribution plan
// @Description Writes the plan's allocations. Every entry is re-validated against live state; entries invalidated since planning are reported, not written.
// @Tags distribution
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CommitPlanRequest true "Plan entries to commit"
// @Success 200 {object} dto.APIResponse{data=dto.CommitPlanResponse} "Plan committed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /distribution/commit [post]
func (c *DistributionController) CommitPlan(ctx *gin.Context) {
	var req dto.CommitPlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid plan data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	result, err := c.distributionService.CommitPlan(ctx, req.Entries)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}
