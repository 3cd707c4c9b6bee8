package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmelo/shiftboard/internal/app/models"
	"github.com/dmelo/shiftboard/internal/app/repositories"
	"github.com/dmelo/shiftboard/internal/pkg/apperrors"
)

// CapacityService tracks per-shift occupancy. Every read for a seat decision
// runs under the shift's row lock inside the caller's transaction, so
// concurrent reservations for the same shift serialize and can never overrun
// the seat count.
type CapacityService struct {
	shiftRepo *repositories.ShiftRepository
	allocRepo *repositories.AllocationRepository
}

// NewCapacityService creates a new capacity service instance
func NewCapacityService(shiftRepo *repositories.ShiftRepository, allocRepo *repositories.AllocationRepository) *CapacityService {
	return &CapacityService{
		shiftRepo: shiftRepo,
		allocRepo: allocRepo,
	}
}

// LockShift locks the shift row and returns it with its current occupancy.
// The seat decision itself is scheduling.ValidateApproval's; the lock holds
// until commit, so the count cannot move under the caller.
func (s *CapacityService) LockShift(ctx context.Context, tx pgx.Tx, shiftID int64) (*models.Shift, int, error) {
	shift, err := s.shiftRepo.LockByID(ctx, tx, shiftID)
	if err != nil {
		return nil, 0, err
	}

	occupancy, err := s.allocRepo.CountByShiftTx(ctx, tx, shiftID)
	if err != nil {
		return nil, 0, fmt.Errorf("error checking shift occupancy: %w", err)
	}

	return shift, occupancy, nil
}

// Release frees the student's seat in a shift by removing the allocation.
// Releasing a seat that was never reserved is a no-op; the caller gets
// ErrSeatNotReserved so the logic error is visible, which should not happen
// when the workflow is followed.
func (s *CapacityService) Release(ctx context.Context, tx pgx.Tx, studentID, shiftID int64) error {
	deleted, err := s.allocRepo.DeleteTx(ctx, tx, studentID, shiftID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.ErrSeatNotReserved
	}
	return nil
}

// Occupancy returns the committed seat count of a shift.
func (s *CapacityService) Occupancy(ctx context.Context, shiftID int64) (int, error) {
	return s.allocRepo.CountByShift(ctx, shiftID)
}
