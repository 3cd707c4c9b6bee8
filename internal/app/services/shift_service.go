package services

import (
	"context"
	"fmt"

	"github.com/dmelo/shiftboard/internal/app/models"
	"github.com/dmelo/shiftboard/internal/app/models/dto"
	"github.com/dmelo/shiftboard/internal/app/repositories"
	"github.com/dmelo/shiftboard/internal/pkg/apperrors"
	"github.com/dmelo/shiftboard/internal/pkg/helpers"
)

// A course carries at most this many theoretical shifts.
const maxTheoreticalShifts = 2

// ShiftService handles shift creation and listings.
type ShiftService struct {
	shiftRepo  *repositories.ShiftRepository
	courseRepo *repositories.CourseRepository
	allocRepo  *repositories.AllocationRepository
}

// NewShiftService creates a new shift service instance
func NewShiftService(shiftRepo *repositories.ShiftRepository, courseRepo *repositories.CourseRepository, allocRepo *repositories.AllocationRepository) *ShiftService {
	return &ShiftService{
		shiftRepo:  shiftRepo,
		courseRepo: courseRepo,
		allocRepo:  allocRepo,
	}
}

// CreateShift validates and creates a new shift. Besides field validation it
// enforces the theoretical-shift limit per course and rejects double-booking
// a room.
func (s *ShiftService) CreateShift(ctx context.Context, req *dto.CreateShiftRequest) (*models.Shift, error) {
	shift, err := s.shiftFromRequest(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.courseRepo.GetByID(ctx, shift.CourseID); err != nil {
		return nil, err
	}

	if shift.Kind == models.Theoretical {
		count, err := s.shiftRepo.CountTheoretical(ctx, shift.CourseID)
		if err != nil {
			return nil, err
		}
		if count >= maxTheoreticalShifts {
			return nil, apperrors.ErrTheoreticalLimit
		}
	}

	occupied, err := s.shiftRepo.RoomOccupied(ctx, shift.Room, shift.Weekday, shift.StartMin, shift.EndMin)
	if err != nil {
		return nil, err
	}
	if occupied {
		return nil, apperrors.ErrRoomOccupied
	}

	if err := s.shiftRepo.Create(ctx, shift); err != nil {
		return nil, err
	}

	return shift, nil
}

// shiftFromRequest validates the request fields and maps them to a shift.
func (s *ShiftService) shiftFromRequest(req *dto.CreateShiftRequest) (*models.Shift, error) {
	weekday := models.Weekday(req.Weekday)
	if !weekday.Valid() {
		return nil, fmt.Errorf("%w: weekday must be MONDAY through FRIDAY", apperrors.ErrValidationFailed)
	}

	kind := models.ShiftKind(req.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: kind must be THEORETICAL or PRACTICAL", apperrors.ErrValidationFailed)
	}

	startMin, err := helpers.ParseClock(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}

	endMin, err := helpers.ParseClock(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}

	if startMin >= endMin {
		return nil, fmt.Errorf("%w: start time must be before end time", apperrors.ErrValidationFailed)
	}

	if req.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", apperrors.ErrValidationFailed)
	}

	return &models.Shift{
		CourseID: req.CourseID,
		Weekday:  weekday,
		StartMin: startMin,
		EndMin:   endMin,
		Capacity: req.Capacity,
		Room:     req.Room,
		Kind:     kind,
	}, nil
}

// GetShiftByID retrieves a shift with its occupancy.
func (s *ShiftService) GetShiftByID(ctx context.Context, id int64) (*dto.ShiftResponse, error) {
	shift, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	occupancy, err := s.allocRepo.CountByShift(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewShiftResponse(shift, occupancy)
	return &resp, nil
}

// GetAllShifts retrieves all shifts with their occupancies.
func (s *ShiftService) GetAllShifts(ctx context.Context) ([]dto.ShiftResponse, error) {
	shifts, err := s.shiftRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	occupancy, err := s.allocRepo.OccupancyByShift(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ShiftResponse, 0, len(shifts))
	for _, shift := range shifts {
		result = append(result, dto.NewShiftResponse(shift, occupancy[shift.ID]))
	}

	return result, nil
}
