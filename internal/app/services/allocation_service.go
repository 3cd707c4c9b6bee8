package services

import (
	"context"

	"github.com/dmelo/shiftboard/internal/app/models"
	"github.com/dmelo/shiftboard/internal/app/models/dto"
	"github.com/dmelo/shiftboard/internal/app/scheduling"
	"github.com/dmelo/shiftboard/internal/pkg/apperrors"
)

// publicationGetter is the slice of PublicationRepository the gate needs.
type publicationGetter interface {
	Get(ctx context.Context) (*models.PublicationState, error)
}

// allocationReader is the slice of AllocationRepository this service needs.
type allocationReader interface {
	GetByStudentID(ctx context.Context, studentID int64) ([]*models.Allocation, error)
	CountByShift(ctx context.Context, shiftID int64) (int, error)
}

// AllocationService serves the student-facing allocation reads behind the
// publication gate, and the pairwise conflict report.
type AllocationService struct {
	allocations allocationReader
	publication publicationGetter
}

// NewAllocationService creates a new allocation service instance
func NewAllocationService(allocations allocationReader, publication publicationGetter) *AllocationService {
	return &AllocationService{
		allocations: allocations,
		publication: publication,
	}
}

// GetStudentAllocations returns the allocation/shift join for a student.
// Student callers are gated: while the schedule is Draft they get
// ErrScheduleNotPublished even though allocation rows exist. Directors see
// live data in every state.
func (s *AllocationService) GetStudentAllocations(ctx context.Context, studentID int64, directorCaller bool) ([]dto.AllocationResponse, error) {
	if !directorCaller {
		state, err := s.publication.Get(ctx)
		if err != nil {
			return nil, err
		}
		if !state.Published() {
			return nil, apperrors.ErrScheduleNotPublished
		}
	}

	allocations, err := s.allocations.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.AllocationResponse, 0, len(allocations))
	for _, a := range allocations {
		occupancy, err := s.allocations.CountByShift(ctx, a.ShiftID)
		if err != nil {
			return nil, err
		}
		result = append(result, dto.AllocationResponse{
			StudentID: a.StudentID,
			Shift:     dto.NewShiftResponse(a.Shift, occupancy),
		})
	}

	return result, nil
}

// GetConflicts reports every clashing pair among the student's current
// allocations. A clean schedule returns an empty list.
func (s *AllocationService) GetConflicts(ctx context.Context, studentID int64) ([]dto.ConflictPair, error) {
	allocations, err := s.allocations.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	shifts := make([]*models.Shift, 0, len(allocations))
	for _, a := range allocations {
		shifts = append(shifts, a.Shift)
	}

	pairs := scheduling.PairwiseConflicts(shifts)
	result := make([]dto.ConflictPair, 0, len(pairs))
	for _, p := range pairs {
		result = append(result, dto.ConflictPair{
			ShiftID:      p.ShiftID,
			OtherShiftID: p.OtherShiftID,
			Reason:       p.Reason,
		})
	}

	return result, nil
}
