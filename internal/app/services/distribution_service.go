package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/dmelo/shiftboard/internal/app/models"
	"github.com/dmelo/shiftboard/internal/app/models/dto"
	"github.com/dmelo/shiftboard/internal/app/repositories"
	"github.com/dmelo/shiftboard/internal/app/scheduling"
	"github.com/dmelo/shiftboard/internal/db"
	"github.com/dmelo/shiftboard/internal/pkg/apperrors"
)

// demandSource is the slice of StudentRepository the planner needs.
type demandSource interface {
	GetUnallocatedEnrolments(ctx context.Context) ([]repositories.UnallocatedEnrolment, error)
	LockByID(ctx context.Context, tx pgx.Tx, id int64) error
}

// courseShiftLister is the slice of ShiftRepository the planner needs.
type courseShiftLister interface {
	GetByCourseIDs(ctx context.Context, courseIDs []int64) (map[int64][]*models.Shift, error)
}

// planAllocationStore is the slice of AllocationRepository plan and commit need.
type planAllocationStore interface {
	GetByStudentID(ctx context.Context, studentID int64) ([]*models.Allocation, error)
	OccupancyByShift(ctx context.Context) (map[int64]int, error)
	ExistsForCourseTx(ctx context.Context, tx pgx.Tx, studentID, courseID int64) (bool, error)
	LockShiftsByStudent(ctx context.Context, tx pgx.Tx, studentID int64) ([]*models.Shift, error)
	CreateTx(ctx context.Context, tx pgx.Tx, studentID, shiftID int64) error
}

// DistributionService runs the manual distribution the director uses to seed
// allocations: build a draft plan from a store snapshot, let the director
// review it, then commit it with per-entry re-validation.
type DistributionService struct {
	store       db.Beginner
	studentRepo demandSource
	shiftRepo   courseShiftLister
	allocRepo   planAllocationStore
	capacity    seatCapacity
	logger      zerolog.Logger
}

// NewDistributionService creates a new distribution service instance
func NewDistributionService(
	store db.Beginner,
	studentRepo demandSource,
	shiftRepo courseShiftLister,
	allocRepo planAllocationStore,
	capacity seatCapacity,
	logger zerolog.Logger,
) *DistributionService {
	return &DistributionService{
		store:       store,
		studentRepo: studentRepo,
		shiftRepo:   shiftRepo,
		allocRepo:   allocRepo,
		capacity:    capacity,
		logger:      logger,
	}
}

// BuildPlan snapshots the store and runs the planner over every enrolment
// that lacks an allocation. The plan is transient; each run discards the
// previous one and recomputes from current store state, and an unchanged
// snapshot yields an identical plan.
func (s *DistributionService) BuildPlan(ctx context.Context) (*dto.DistributionPlanResponse, error) {
	demands, err := s.loadDemands(ctx)
	if err != nil {
		return nil, err
	}

	courseIDs := make(map[int64]struct{})
	for _, d := range demands {
		for _, id := range d.CourseIDs {
			courseIDs[id] = struct{}{}
		}
	}
	ids := make([]int64, 0, len(courseIDs))
	for id := range courseIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	shiftsByCourse, err := s.shiftRepo.GetByCourseIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	held := make(map[int64][]*models.Shift, len(demands))
	for _, d := range demands {
		allocations, err := s.allocRepo.GetByStudentID(ctx, d.StudentID)
		if err != nil {
			return nil, err
		}
		shifts := make([]*models.Shift, 0, len(allocations))
		for _, a := range allocations {
			shifts = append(shifts, a.Shift)
		}
		held[d.StudentID] = shifts
	}

	occupancy, err := s.allocRepo.OccupancyByShift(ctx)
	if err != nil {
		return nil, err
	}

	plan := scheduling.BuildPlan(scheduling.PlanInput{
		Demands:        demands,
		ShiftsByCourse: shiftsByCourse,
		Held:           held,
		Occupancy:      occupancy,
	})

	s.logger.Info().
		Int("placed", len(plan.Entries)).
		Int("unplaceable", len(plan.Unplaceable)).
		Msg("Distribution plan built")

	return planToResponse(plan), nil
}

// loadDemands groups the unallocated enrolments into one demand per student.
func (s *DistributionService) loadDemands(ctx context.Context) ([]scheduling.Demand, error) {
	enrolments, err := s.studentRepo.GetUnallocatedEnrolments(ctx)
	if err != nil {
		return nil, err
	}

	byStudent := make(map[int64]*scheduling.Demand)
	var order []int64
	for _, e := range enrolments {
		d, ok := byStudent[e.StudentID]
		if !ok {
			d = &scheduling.Demand{StudentID: e.StudentID, SpecialStatus: e.SpecialStatus}
			byStudent[e.StudentID] = d
			order = append(order, e.StudentID)
		}
		d.CourseIDs = append(d.CourseIDs, e.CourseID)
	}

	demands := make([]scheduling.Demand, 0, len(order))
	for _, id := range order {
		demands = append(demands, *byStudent[id])
	}
	return demands, nil
}

// CommitPlan writes a reviewed plan to the store. The plan was built on a
// snapshot, so every entry is re-validated under row locks before its
// allocation row is written; entries that became invalid in the meantime are
// skipped and reported as unplaceable rather than failing the whole commit.
func (s *DistributionService) CommitPlan(ctx context.Context, entries []dto.PlanEntry) (*dto.CommitPlanResponse, error) {
	// Stable processing order keeps commits repeatable.
	sorted := make([]dto.PlanEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StudentID != sorted[j].StudentID {
			return sorted[i].StudentID < sorted[j].StudentID
		}
		return sorted[i].CourseID < sorted[j].CourseID
	})

	result := &dto.CommitPlanResponse{}
	for _, entry := range sorted {
		if err := s.commitEntry(ctx, entry); err != nil {
			if isPlanValidationError(err) {
				result.Unplaceable = append(result.Unplaceable, dto.UnplaceableEntry{
					StudentID: entry.StudentID,
					CourseID:  entry.CourseID,
					Reason:    scheduling.ReasonBecameStale,
				})
				continue
			}
			return nil, err
		}
		result.Committed = append(result.Committed, entry)
	}

	s.logger.Info().
		Int("committed", len(result.Committed)).
		Int("stale", len(result.Unplaceable)).
		Msg("Distribution plan committed")

	return result, nil
}

// commitEntry validates and writes one planned allocation in its own
// transaction. The student row lock comes first, then the target shift lock,
// the same order approval uses; without the student lock two writers for the
// same student could miss each other's uncommitted allocation rows.
func (s *DistributionService) commitEntry(ctx context.Context, entry dto.PlanEntry) error {
	return db.WithTransaction(ctx, s.store, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.studentRepo.LockByID(ctx, tx, entry.StudentID); err != nil {
			return err
		}

		target, occupancy, err := s.capacity.LockShift(ctx, tx, entry.ShiftID)
		if err != nil {
			return err
		}
		if target.CourseID != entry.CourseID {
			return apperrors.NewCustomError(apperrors.ErrValidationFailed, "plan entry course does not match shift")
		}

		// An allocation for the course may have appeared since planning,
		// through an approved request or a concurrent commit.
		taken, err := s.allocRepo.ExistsForCourseTx(ctx, tx, entry.StudentID, entry.CourseID)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.ErrScheduleConflict
		}

		held, err := s.allocRepo.LockShiftsByStudent(ctx, tx, entry.StudentID)
		if err != nil {
			return err
		}

		if err := scheduling.ValidateApproval(target, held, occupancy); err != nil {
			return err
		}

		return s.allocRepo.CreateTx(ctx, tx, entry.StudentID, entry.ShiftID)
	})
}

// isPlanValidationError reports whether the commit failure means the entry
// went stale rather than the store failing.
func isPlanValidationError(err error) bool {
	return errors.Is(err, apperrors.ErrShiftFull) ||
		errors.Is(err, apperrors.ErrScheduleConflict) ||
		errors.Is(err, apperrors.ErrShiftNotFound) ||
		errors.Is(err, apperrors.ErrValidationFailed)
}

// planToResponse maps the planner output to the API view.
func planToResponse(plan scheduling.Plan) *dto.DistributionPlanResponse {
	resp := &dto.DistributionPlanResponse{
		PlanID:      uuid.New().String(),
		GeneratedAt: time.Now(),
		Entries:     make([]dto.PlanEntry, 0, len(plan.Entries)),
		Unplaceable: make([]dto.UnplaceableEntry, 0, len(plan.Unplaceable)),
	}
	for _, e := range plan.Entries {
		resp.Entries = append(resp.Entries, dto.PlanEntry{
			StudentID: e.StudentID,
			CourseID:  e.CourseID,
			ShiftID:   e.ShiftID,
		})
	}
	for _, u := range plan.Unplaceable {
		resp.Unplaceable = append(resp.Unplaceable, dto.UnplaceableEntry{
			StudentID: u.StudentID,
			CourseID:  u.CourseID,
			Reason:    u.Reason,
		})
	}
	return resp
}
