package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/dmelo/shiftboard/internal/app/models"
	"github.com/dmelo/shiftboard/internal/app/scheduling"
	"github.com/dmelo/shiftboard/internal/db"
	"github.com/dmelo/shiftboard/internal/pkg/apperrors"
)

// requestStore is the slice of ShiftRequestRepository this service needs.
type requestStore interface {
	Create(ctx context.Context, req *models.ShiftRequest) error
	GetByID(ctx context.Context, id int64) (*models.ShiftRequest, error)
	LockByID(ctx context.Context, tx pgx.Tx, id int64) (*models.ShiftRequest, error)
	ResolveTx(ctx context.Context, tx pgx.Tx, id int64, status models.RequestStatus, resolverID int64, resolvedAt time.Time) error
	HasPendingForTarget(ctx context.Context, studentID, targetShiftID int64) (bool, error)
	ListByStatus(ctx context.Context, status models.RequestStatus) ([]*models.ShiftRequest, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.ShiftRequest, error)
}

// targetShiftGetter resolves the target shift at submission time.
type targetShiftGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Shift, error)
}

// studentLocker takes the per-student row lock that serializes concurrent
// allocation writes for the same student.
type studentLocker interface {
	LockByID(ctx context.Context, tx pgx.Tx, id int64) error
}

// allocationSwapper is the slice of AllocationRepository the swap needs.
type allocationSwapper interface {
	GetForCourse(ctx context.Context, studentID, courseID int64) (*models.Allocation, error)
	LockShiftsByStudent(ctx context.Context, tx pgx.Tx, studentID int64) ([]*models.Shift, error)
	CreateTx(ctx context.Context, tx pgx.Tx, studentID, shiftID int64) error
}

// seatCapacity is the slice of CapacityService approval and commit need.
type seatCapacity interface {
	LockShift(ctx context.Context, tx pgx.Tx, shiftID int64) (*models.Shift, int, error)
	Release(ctx context.Context, tx pgx.Tx, studentID, shiftID int64) error
}

// RequestService runs the shift request workflow: Pending on submission,
// then exactly one transition to Approved or Rejected by a director.
// Approval swaps the student's allocation atomically with the status write.
type RequestService struct {
	store       db.Beginner
	requestRepo requestStore
	shiftRepo   targetShiftGetter
	studentRepo studentLocker
	allocRepo   allocationSwapper
	capacity    seatCapacity
	logger      zerolog.Logger
}

// NewRequestService creates a new request service instance
func NewRequestService(
	store db.Beginner,
	requestRepo requestStore,
	shiftRepo targetShiftGetter,
	studentRepo studentLocker,
	allocRepo allocationSwapper,
	capacity seatCapacity,
	logger zerolog.Logger,
) *RequestService {
	return &RequestService{
		store:       store,
		requestRepo: requestRepo,
		shiftRepo:   shiftRepo,
		studentRepo: studentRepo,
		allocRepo:   allocRepo,
		capacity:    capacity,
		logger:      logger,
	}
}

// Submit creates a pending request for the student to move into the target
// shift. Capacity and conflicts are deliberately not checked here; seats
// and schedules can change before a director acts, so both are re-checked at
// resolution time. The duplicate-pending check is advisory, the partial
// unique index behind Create is what holds under concurrent submissions.
func (s *RequestService) Submit(ctx context.Context, studentID, targetShiftID int64) (*models.ShiftRequest, error) {
	target, err := s.shiftRepo.GetByID(ctx, targetShiftID)
	if err != nil {
		if errors.Is(err, apperrors.ErrShiftNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidRequest, "target shift does not exist")
		}
		return nil, err
	}

	duplicate, err := s.requestRepo.HasPendingForTarget(ctx, studentID, targetShiftID)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidRequest, "a pending request for this shift already exists")
	}

	// The current shift, if any, is the student's allocation in the target's
	// course. Approval will replace it.
	var currentShiftID *int64
	current, err := s.allocRepo.GetForCourse(ctx, studentID, target.CourseID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		currentShiftID = &current.ShiftID
	}

	req := &models.ShiftRequest{
		StudentID:      studentID,
		CurrentShiftID: currentShiftID,
		TargetShiftID:  targetShiftID,
		SubmittedAt:    time.Now(),
		Status:         models.RequestPending,
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("requestId", req.ID).
		Int64("studentId", studentID).
		Int64("targetShiftId", targetShiftID).
		Msg("Shift request submitted")

	return req, nil
}

// Approve resolves a pending request by moving the student into the target
// shift. The capacity check, the conflict check, the allocation swap and the
// status transition all happen in one transaction; the student row lock is
// taken before the target shift lock, the same order the plan commit uses.
// Locking the student, not just their allocation rows, is what serializes
// concurrent approvals for the same student: a row another transaction is
// about to insert is invisible here and cannot be locked.
//
// ErrShiftFull and ErrScheduleConflict leave the request Pending: a seat may
// free up, and a conflicting request is the director's to reject explicitly.
func (s *RequestService) Approve(ctx context.Context, requestID, resolverID int64) (*models.ShiftRequest, error) {
	var approved *models.ShiftRequest

	err := db.WithTransaction(ctx, s.store, func(ctx context.Context, tx pgx.Tx) error {
		req, err := s.requestRepo.LockByID(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if req.Status.Terminal() {
			return apperrors.ErrAlreadyResolved
		}

		if err := s.studentRepo.LockByID(ctx, tx, req.StudentID); err != nil {
			return err
		}

		// Locks the target shift row; occupancy cannot move until commit.
		target, occupancy, err := s.capacity.LockShift(ctx, tx, req.TargetShiftID)
		if err != nil {
			return err
		}

		held, err := s.allocRepo.LockShiftsByStudent(ctx, tx, req.StudentID)
		if err != nil {
			return err
		}

		remaining := scheduling.ExcludeShift(held, req.CurrentShiftID)
		if err := scheduling.ValidateApproval(target, remaining, occupancy); err != nil {
			return err
		}

		if req.CurrentShiftID != nil {
			if err := s.capacity.Release(ctx, tx, req.StudentID, *req.CurrentShiftID); err != nil {
				// A missing current allocation means the store changed under
				// the request; the swap still proceeds with the insert only.
				if !errors.Is(err, apperrors.ErrSeatNotReserved) {
					return err
				}
				s.logger.Warn().
					Int64("requestId", req.ID).
					Int64("shiftId", *req.CurrentShiftID).
					Msg("Current allocation missing on approval, nothing to release")
			}
		}

		if err := s.allocRepo.CreateTx(ctx, tx, req.StudentID, target.ID); err != nil {
			return err
		}

		now := time.Now()
		if err := s.requestRepo.ResolveTx(ctx, tx, req.ID, models.RequestApproved, resolverID, now); err != nil {
			return err
		}

		req.Status = models.RequestApproved
		req.ResolvedAt = &now
		req.ResolverID = &resolverID
		approved = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("requestId", requestID).
		Int64("resolverId", resolverID).
		Msg("Shift request approved")

	return approved, nil
}

// Reject resolves a pending request without touching allocations.
func (s *RequestService) Reject(ctx context.Context, requestID, resolverID int64) (*models.ShiftRequest, error) {
	var rejected *models.ShiftRequest

	err := db.WithTransaction(ctx, s.store, func(ctx context.Context, tx pgx.Tx) error {
		req, err := s.requestRepo.LockByID(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if req.Status.Terminal() {
			return apperrors.ErrAlreadyResolved
		}

		now := time.Now()
		if err := s.requestRepo.ResolveTx(ctx, tx, req.ID, models.RequestRejected, resolverID, now); err != nil {
			return err
		}

		req.Status = models.RequestRejected
		req.ResolvedAt = &now
		req.ResolverID = &resolverID
		rejected = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("requestId", requestID).
		Int64("resolverId", resolverID).
		Msg("Shift request rejected")

	return rejected, nil
}

// GetByID retrieves a request by id.
func (s *RequestService) GetByID(ctx context.Context, id int64) (*models.ShiftRequest, error) {
	return s.requestRepo.GetByID(ctx, id)
}

// ListPending returns pending requests, newest first, for the director inbox.
func (s *RequestService) ListPending(ctx context.Context) ([]*models.ShiftRequest, error) {
	return s.requestRepo.ListByStatus(ctx, models.RequestPending)
}

// ListByStatus returns requests with the given status, newest first.
func (s *RequestService) ListByStatus(ctx context.Context, status models.RequestStatus) ([]*models.ShiftRequest, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidationFailed, status)
	}
	return s.requestRepo.ListByStatus(ctx, status)
}

// ListByStudent returns a student's own requests, newest first.
func (s *RequestService) ListByStudent(ctx context.Context, studentID int64) ([]*models.ShiftRequest, error) {
	return s.requestRepo.ListByStudent(ctx, studentID)
}
