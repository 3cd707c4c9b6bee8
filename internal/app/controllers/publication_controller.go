package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmelo/shiftboard/internal/app/models/dto"
	"github.com/dmelo/shiftboard/internal/app/services"
	"github.com/dmelo/shiftboard/internal/middleware"
)

// PublicationController handles the schedule publication gate.
type PublicationController struct {
	publicationService *services.PublicationService
}

// NewPublicationController creates a new PublicationController
func NewPublicationController(publicationService *services.PublicationService) *PublicationController {
	return &PublicationController{
		publicationService: publicationService,
	}
}

// GetState returns the current publication state
// @Summary Get publication state
// @Description Returns whether the schedule is still a draft or has been published
// @Tags publication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.PublicationState} "State retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /publication [get]
func (c *PublicationController) GetState(ctx *gin.Context) {
	state, err := c.publicationService.Get(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      state,
		Timestamp: time.Now(),
	})
}

// Publish publishes the schedule
// @Summary Publish the schedule
// @Description Flips the schedule from draft to published, making allocations visible to students. Publishing again only refreshes the publication timestamp.
// @Tags publication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.PublicationState} "Schedule published"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /publication/publish [post]
func (c *PublicationController) Publish(ctx *gin.Context) {
	directorID := ctx.GetInt64(middleware.ContextUserID)

	state, err := c.publicationService.Publish(ctx, directorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      state,
		Timestamp: time.Now(),
	})
}
