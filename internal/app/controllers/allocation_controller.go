package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmelo/shiftboard/internal/app/models/dto"
	"github.com/dmelo/shiftboard/internal/app/services"
	"github.com/dmelo/shiftboard/internal/middleware"
)

// AllocationController serves allocation reads and conflict reports.
type AllocationController struct {
	allocationService *services.AllocationService
}

// NewAllocationController creates a new AllocationController
func NewAllocationController(allocationService *services.AllocationService) *AllocationController {
	return &AllocationController{
		allocationService: allocationService,
	}
}

// studentScope resolves the studentId query parameter against the caller.
// Students may only query their own id and get it as the default; directors
// must name a student.
func studentScope(ctx *gin.Context) (int64, bool) {
	callerStudentID, isStudent := middleware.StudentIDFromContext(ctx)

	queryID := ctx.Query("studentId")
	if queryID == "" {
		if isStudent {
			return callerStudentID, true
		}
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Missing studentId")
		errorDetail = errorDetail.WithDetails("Directors must provide a studentId query parameter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}

	id, err := strconv.ParseInt(queryID, 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student ID")
		errorDetail = errorDetail.WithDetails("studentId must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}

	if isStudent && id != callerStudentID {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
		errorDetail = errorDetail.WithDetails("Students may only query their own allocations")
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
		return 0, false
	}

	return id, true
}

// GetAllocations returns a student's current allocations
// @Summary Get a student's allocations
// @Description Returns the student's current shift allocations. Students see their own, and only after the schedule is published; directors see live data for any student.
// @Tags allocations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Student ID (defaults to the caller's own for students)"
// @Success 200 {object} dto.APIResponse{data=[]dto.AllocationResponse} "Allocations retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Schedule not yet available"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /allocations [get]
func (c *AllocationController) GetAllocations(ctx *gin.Context) {
	studentID, ok := studentScope(ctx)
	if !ok {
		return
	}

	allocations, err := c.allocationService.GetStudentAllocations(ctx, studentID, middleware.IsDirector(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      allocations,
		Timestamp: time.Now(),
	})
}

// GetConflicts returns the pairwise conflict report for a student
// @Summary Get a student's schedule conflicts
// @Description Reports every pair of the student's allocated shifts that overlap in time or belong to the same course
// @Tags allocations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Student ID (defaults to the caller's own for students)"
// @Success 200 {object} dto.APIResponse{data=[]dto.ConflictPair} "Conflicts retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /conflicts [get]
func (c *AllocationController) GetConflicts(ctx *gin.Context) {
	studentID, ok := studentScope(ctx)
	if !ok {
		return
	}

	conflicts, err := c.allocationService.GetConflicts(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      conflicts,
		Timestamp: time.Now(),
	})
}
