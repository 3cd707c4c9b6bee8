package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/dmelo/shiftboard/internal/app/models/dto"
	"github.com/dmelo/shiftboard/internal/pkg/apperrors"
)

func handle(t *testing.T, err error) (int, dto.APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	HandleAPIError(c, err)

	var body dto.APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, body
}

func TestHandleAPIErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"shift not found", apperrors.ErrShiftNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"course not found", apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"shift full", apperrors.ErrShiftFull, http.StatusConflict, dto.ErrorCodeShiftFull},
		{"schedule conflict", apperrors.ErrScheduleConflict, http.StatusConflict, dto.ErrorCodeScheduleConflict},
		{"already resolved", apperrors.ErrAlreadyResolved, http.StatusConflict, dto.ErrorCodeAlreadyResolved},
		{"room occupied", apperrors.ErrRoomOccupied, http.StatusConflict, dto.ErrorCodeRoomOccupied},
		{"theoretical limit", apperrors.ErrTheoreticalLimit, http.StatusConflict, dto.ErrorCodeTheoreticalLimit},
		{"not published", apperrors.ErrScheduleNotPublished, http.StatusForbidden, dto.ErrorCodeScheduleNotPublished},
		{"invalid request", apperrors.ErrInvalidRequest, http.StatusBadRequest, dto.ErrorCodeInvalidRequest},
		{"validation failed", apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"transient store", apperrors.ErrTransientStore, http.StatusServiceUnavailable, dto.ErrorCodeStoreTransient},
		{"tagged transient store", errors.Join(apperrors.ErrTransientStore, errors.New("dial tcp: connection refused")), http.StatusServiceUnavailable, dto.ErrorCodeStoreTransient},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := handle(t, tt.err)
			require.Equal(t, tt.status, status)
			require.NotNil(t, body.Error)
			require.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleAPIErrorWrappedSentinel(t *testing.T) {
	// Sentinels wrapped with %w still map to their code.
	wrapped := errors.Join(errors.New("context"), apperrors.ErrShiftFull)

	status, body := handle(t, wrapped)
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, dto.ErrorCodeShiftFull, body.Error.Code)
}

func TestHandleAPIErrorCarriesCustomDetails(t *testing.T) {
	err := apperrors.NewCustomError(apperrors.ErrScheduleConflict, "").
		WithDetails(map[string]interface{}{"conflictingShiftId": int64(7)})

	status, body := handle(t, err)
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, dto.ErrorCodeScheduleConflict, body.Error.Code)

	details, ok := body.Error.Details.(map[string]interface{})
	require.True(t, ok)
	require.EqualValues(t, 7, details["conflictingShiftId"])
}

func TestHandleAPIErrorNotPublishedMessage(t *testing.T) {
	_, body := handle(t, apperrors.ErrScheduleNotPublished)
	require.Equal(t, "Schedule not yet available", body.Error.Message)
}
