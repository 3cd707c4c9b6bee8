package dto

import (
	"github.com/dmelo/shiftboard/internal/app/models"
	"github.com/dmelo/shiftboard/internal/pkg/helpers"
)

// CreateCourseRequest carries the fields for a new course.
type CreateCourseRequest struct {
	Name         string `json:"name" binding:"required"`
	Abbreviation string `json:"abbreviation" binding:"required"`
}

// CreateStudentRequest carries the fields for a new student record.
type CreateStudentRequest struct {
	Number        string `json:"number" binding:"required"`
	Name          string `json:"name" binding:"required"`
	SpecialStatus bool   `json:"specialStatus"`
}

// CreateShiftRequest carries the fields for a new shift. Times are wall-clock
// "HH:MM" strings.
type CreateShiftRequest struct {
	CourseID  int64  `json:"courseId" binding:"required"`
	Weekday   string `json:"weekday" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Capacity  int    `json:"capacity" binding:"required,gt=0"`
	Room      string `json:"room" binding:"required"`
	Kind      string `json:"kind" binding:"required"`
}

// ShiftResponse is the API view of a shift, with formatted times and current
// occupancy.
type ShiftResponse struct {
	ID        int64  `json:"id"`
	CourseID  int64  `json:"courseId"`
	Weekday   string `json:"weekday"`
	StartTime string `json:"startTime" example:"09:00"`
	EndTime   string `json:"endTime" example:"11:00"`
	Capacity  int    `json:"capacity"`
	Occupancy int    `json:"occupancy"`
	Room      string `json:"room"`
	Kind      string `json:"kind"`

	Course *models.Course `json:"course,omitempty"`
}

// NewShiftResponse maps a shift and its occupancy to the API view.
func NewShiftResponse(shift *models.Shift, occupancy int) ShiftResponse {
	return ShiftResponse{
		ID:        shift.ID,
		CourseID:  shift.CourseID,
		Weekday:   string(shift.Weekday),
		StartTime: helpers.FormatClock(shift.StartMin),
		EndTime:   helpers.FormatClock(shift.EndMin),
		Capacity:  shift.Capacity,
		Occupancy: occupancy,
		Room:      shift.Room,
		Kind:      string(shift.Kind),
		Course:    shift.Course,
	}
}
