package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmelo/shiftboard/internal/app/models/dto"
	"github.com/dmelo/shiftboard/internal/pkg/apperrors"
	"github.com/dmelo/shiftboard/internal/pkg/dberrors"
)

// HandleAPIError maps service errors to HTTP responses. Every controller
// funnels its errors through here so the status codes stay consistent.
func HandleAPIError(c *gin.Context, err error) {
	detail := classify(err)

	// Carry details attached by the service layer (conflicting shift ids etc.)
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) {
		if customErr.Message != "" {
			detail.errorDetail.Message = customErr.Message
		}
		if customErr.Details != nil {
			detail.errorDetail = detail.errorDetail.WithDetails(customErr.Details)
		}
	}

	c.JSON(detail.status, dto.APIResponse{
		Error: detail.errorDetail,
	})
}

type classified struct {
	status      int
	errorDetail *dto.ErrorDetail
}

func classify(err error) classified {
	switch {
	case errors.Is(err, apperrors.ErrCourseNotFound):
		return classified{http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Course not found")}
	case errors.Is(err, apperrors.ErrShiftNotFound):
		return classified{http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Shift not found")}
	case errors.Is(err, apperrors.ErrStudentNotFound):
		return classified{http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Student not found")}
	case errors.Is(err, apperrors.ErrRequestNotFound):
		return classified{http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Shift request not found")}
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return classified{http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")}

	case errors.Is(err, apperrors.ErrCourseAlreadyExists):
		return classified{http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Course with this name or abbreviation already exists")}
	case errors.Is(err, apperrors.ErrStudentAlreadyExists):
		return classified{http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Student with this number already exists")}
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return classified{http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Email already exists")}

	case errors.Is(err, apperrors.ErrShiftFull):
		return classified{http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeShiftFull, "Shift is full")}
	case errors.Is(err, apperrors.ErrScheduleConflict):
		return classified{http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeScheduleConflict, "Schedule conflict")}
	case errors.Is(err, apperrors.ErrAlreadyResolved):
		return classified{http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeAlreadyResolved, "Shift request already resolved")}
	case errors.Is(err, apperrors.ErrRoomOccupied):
		return classified{http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeRoomOccupied, "Room is already occupied at this time")}
	case errors.Is(err, apperrors.ErrTheoreticalLimit):
		return classified{http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeTheoreticalLimit, "Course already has the maximum number of theoretical shifts")}

	case errors.Is(err, apperrors.ErrScheduleNotPublished):
		return classified{http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeScheduleNotPublished, "Schedule not yet available")}
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return classified{http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")}

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return classified{http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")}
	case errors.Is(err, apperrors.ErrTokenExpired):
		return classified{http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")}
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return classified{http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")}

	case errors.Is(err, apperrors.ErrInvalidRequest):
		return classified{http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid shift request")}
	case errors.Is(err, apperrors.ErrValidationFailed):
		return classified{http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())}
	case errors.Is(err, apperrors.ErrBadRequest):
		return classified{http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Bad request")}

	case errors.Is(err, apperrors.ErrTransientStore), dberrors.IsTransient(err):
		return classified{http.StatusServiceUnavailable, dto.NewErrorDetail(dto.ErrorCodeStoreTransient, "Storage temporarily unavailable, retry later")}

	default:
		return classified{http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")}
	}
}
