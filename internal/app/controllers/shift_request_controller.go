package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmelo/shiftboard/internal/app/models"
	"github.com/dmelo/shiftboard/internal/app/models/dto"
	"github.com/dmelo/shiftboard/internal/app/services"
	"github.com/dmelo/shiftboard/internal/middleware"
)

// ShiftRequestController handles the shift change request workflow.
type ShiftRequestController struct {
	requestService *services.RequestService
}

// NewShiftRequestController creates a new ShiftRequestController
func NewShiftRequestController(requestService *services.RequestService) *ShiftRequestController {
	return &ShiftRequestController{
		requestService: requestService,
	}
}

// SubmitRequest handles a student's shift change request
// @Summary Submit a shift change request
// @Description Creates a pending request to move the caller into the target shift. Capacity and conflicts are checked at approval, not here.
// @Tags shift-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitShiftRequest true "Target shift"
// @Success 201 {object} dto.APIResponse{data=models.ShiftRequest} "Request submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid or duplicate request"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - caller is not a student"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /shift-requests [post]
func (c *ShiftRequestController) SubmitRequest(ctx *gin.Context) {
	studentID, ok := middleware.StudentIDFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
		errorDetail = errorDetail.WithDetails("Only student accounts can submit shift requests")
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.SubmitShiftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	request, err := c.requestService.Submit(ctx, studentID, req.TargetShiftID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      request,
		Timestamp: time.Now(),
	})
}

// ListRequests lists shift requests
// @Summary List shift requests
// @Description Lists requests filtered by status, newest first. Defaults to pending.
// @Tags shift-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter (PENDING, APPROVED, REJECTED)" default(PENDING)
// @Success 200 {object} dto.APIResponse{data=[]models.ShiftRequest} "Requests retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /shift-requests [get]
func (c *ShiftRequestController) ListRequests(ctx *gin.Context) {
	status := models.RequestPending
	if raw := ctx.Query("status"); raw != "" {
		status = models.RequestStatus(raw)
	}

	requests, err := c.requestService.ListByStatus(ctx, status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      requests,
		Timestamp: time.Now(),
	})
}

// ListOwnRequests lists the caller's own shift requests
// @Summary List the caller's shift requests
// @Description Lists every request the authenticated student has submitted, newest first
// @Tags shift-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ShiftRequest} "Requests retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - caller is not a student"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /shift-requests/my [get]
func (c *ShiftRequestController) ListOwnRequests(ctx *gin.Context) {
	studentID, ok := middleware.StudentIDFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
		errorDetail = errorDetail.WithDetails("Only student accounts have shift requests")
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
		return
	}

	requests, err := c.requestService.ListByStudent(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      requests,
		Timestamp: time.Now(),
	})
}

// ResolveRequest approves or rejects a pending shift request
// @Summary Resolve a shift request
// @Description Approves or rejects a pending request. Approval atomically reserves the target seat, releases the current one and records the resolution; on capacity or conflict failure the request stays pending.
// @Tags shift-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.ResolveShiftRequest true "Resolution action"
// @Success 200 {object} dto.APIResponse{data=models.ShiftRequest} "Request resolved"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Shift full, schedule conflict, or already resolved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /shift-requests/{id} [patch]
func (c *ShiftRequestController) ResolveRequest(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request ID")
		errorDetail = errorDetail.WithDetails("Request ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.ResolveShiftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid resolution data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	resolverID := ctx.GetInt64(middleware.ContextUserID)

	var request *models.ShiftRequest
	switch req.Action {
	case dto.ActionApprove:
		request, err = c.requestService.Approve(ctx, id, resolverID)
	case dto.ActionReject:
		request, err = c.requestService.Reject(ctx, id, resolverID)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      request,
		Timestamp: time.Now(),
	})
}
