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

// ShiftController handles shift-related operations
type ShiftController struct {
	shiftService *services.ShiftService
}

// NewShiftController creates a new ShiftController
func NewShiftController(shiftService *services.ShiftService) *ShiftController {
	return &ShiftController{
		shiftService: shiftService,
	}
}

// CreateShift handles shift creation
// @Summary Create a new shift
// @Description Creates a new shift for a course. Rejects double-booked rooms and more than two theoretical shifts per course.
// @Tags shifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateShiftRequest true "Shift information"
// @Success 201 {object} dto.APIResponse{data=dto.ShiftResponse} "Shift created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Room occupied or theoretical shift limit reached"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /shifts [post]
func (c *ShiftController) CreateShift(ctx *gin.Context) {
	var req dto.CreateShiftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid shift data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	shift, err := c.shiftService.CreateShift(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.NewShiftResponse(shift, 0),
		Timestamp: time.Now(),
	})
}

// GetShiftByID retrieves a shift by ID
// @Summary Get shift by ID
// @Description Retrieves a specific shift with its current occupancy
// @Tags shifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Shift ID"
// @Success 200 {object} dto.APIResponse{data=dto.ShiftResponse} "Shift retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid shift ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Shift not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /shifts/{id} [get]
func (c *ShiftController) GetShiftByID(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid shift ID")
		errorDetail = errorDetail.WithDetails("Shift ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	shift, err := c.shiftService.GetShiftByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      shift,
		Timestamp: time.Now(),
	})
}

// GetAllShifts retrieves all shifts
// @Summary Get all shifts
// @Description Retrieves all shifts with their current occupancies
// @Tags shifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ShiftResponse} "Shifts retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /shifts [get]
func (c *ShiftController) GetAllShifts(ctx *gin.Context) {
	shifts, err := c.shiftService.GetAllShifts(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      shifts,
		Timestamp: time.Now(),
	})
}
