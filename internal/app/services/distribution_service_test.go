package services

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/dmelo/shiftboard/internal/app/models"
	"github.com/dmelo/shiftboard/internal/app/models/dto"
	"github.com/dmelo/shiftboard/internal/app/repositories"
	"github.com/dmelo/shiftboard/internal/app/scheduling"
)

type fakeDemandSource struct {
	fakeStudentLocker
	enrolments []repositories.UnallocatedEnrolment
}

func (f *fakeDemandSource) GetUnallocatedEnrolments(ctx context.Context) ([]repositories.UnallocatedEnrolment, error) {
	return f.enrolments, nil
}

type fakeShiftLister struct {
	byCourse map[int64][]*models.Shift
}

func (f *fakeShiftLister) GetByCourseIDs(ctx context.Context, courseIDs []int64) (map[int64][]*models.Shift, error) {
	return f.byCourse, nil
}

type fakePlanAllocations struct {
	byStudent map[int64][]*models.Allocation
	occupancy map[int64]int
	taken     map[[2]int64]bool
	held      map[int64][]*models.Shift
	created   [][2]int64
}

func (f *fakePlanAllocations) GetByStudentID(ctx context.Context, studentID int64) ([]*models.Allocation, error) {
	return f.byStudent[studentID], nil
}

func (f *fakePlanAllocations) OccupancyByShift(ctx context.Context) (map[int64]int, error) {
	return f.occupancy, nil
}

func (f *fakePlanAllocations) ExistsForCourseTx(ctx context.Context, tx pgx.Tx, studentID, courseID int64) (bool, error) {
	return f.taken[[2]int64{studentID, courseID}], nil
}

func (f *fakePlanAllocations) LockShiftsByStudent(ctx context.Context, tx pgx.Tx, studentID int64) ([]*models.Shift, error) {
	return f.held[studentID], nil
}

func (f *fakePlanAllocations) CreateTx(ctx context.Context, tx pgx.Tx, studentID, shiftID int64) error {
	f.created = append(f.created, [2]int64{studentID, shiftID})
	return nil
}

func newDistributionServiceForTest(
	students *fakeDemandSource,
	shifts *fakeShiftLister,
	allocs *fakePlanAllocations,
	seats *fakeCapacity,
) *DistributionService {
	return NewDistributionService(stubBeginner{}, students, shifts, allocs, seats, zerolog.Nop())
}

func TestBuildPlanPlacesUnallocatedEnrolments(t *testing.T) {
	t.Parallel()

	shift := testShift(1, 10, models.Monday, 9*60, 11*60)
	students := &fakeDemandSource{enrolments: []repositories.UnallocatedEnrolment{
		{StudentID: 100, CourseID: 10},
	}}
	shifts := &fakeShiftLister{byCourse: map[int64][]*models.Shift{10: {shift}}}
	allocs := &fakePlanAllocations{occupancy: map[int64]int{}}

	svc := newDistributionServiceForTest(students, shifts, allocs, &fakeCapacity{})

	plan, err := svc.BuildPlan(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, plan.PlanID)
	require.Equal(t, []dto.PlanEntry{{StudentID: 100, CourseID: 10, ShiftID: 1}}, plan.Entries)
	require.Empty(t, plan.Unplaceable)
	require.Empty(t, allocs.created, "planning must not write")
}

func TestCommitPlanWritesValidEntries(t *testing.T) {
	t.Parallel()

	shiftA := testShift(1, 10, models.Monday, 9*60, 11*60)
	shiftB := testShift(2, 20, models.Wednesday, 14*60, 16*60)
	students := &fakeDemandSource{}
	allocs := &fakePlanAllocations{}
	seats := &fakeCapacity{
		shifts:    map[int64]*models.Shift{1: shiftA, 2: shiftB},
		occupancy: map[int64]int{},
	}

	svc := newDistributionServiceForTest(students, &fakeShiftLister{}, allocs, seats)

	result, err := svc.CommitPlan(context.Background(), []dto.PlanEntry{
		{StudentID: 200, CourseID: 20, ShiftID: 2},
		{StudentID: 100, CourseID: 10, ShiftID: 1},
	})
	require.NoError(t, err)

	// Entries commit in (student, course) order regardless of input order.
	require.Equal(t, []dto.PlanEntry{
		{StudentID: 100, CourseID: 10, ShiftID: 1},
		{StudentID: 200, CourseID: 20, ShiftID: 2},
	}, result.Committed)
	require.Empty(t, result.Unplaceable)
	require.Equal(t, [][2]int64{{100, 1}, {200, 2}}, allocs.created)
	require.Equal(t, []int64{100, 200}, students.locked)
}

func TestCommitPlanSkipsEntryTakenDuringCommit(t *testing.T) {
	t.Parallel()

	// Between planning and commit another writer allocated student 100 into
	// an overlapping Monday shift. Its rows become visible at the student
	// lock; the entry is reported stale instead of double-booking.
	target := testShift(1, 10, models.Monday, 9*60, 11*60)
	allocs := &fakePlanAllocations{}
	students := &fakeDemandSource{}
	students.onLock = func(studentID int64) {
		if allocs.held == nil {
			allocs.held = map[int64][]*models.Shift{}
		}
		allocs.held[studentID] = []*models.Shift{testShift(9, 20, models.Monday, 10*60, 12*60)}
	}
	seats := &fakeCapacity{shifts: map[int64]*models.Shift{1: target}, occupancy: map[int64]int{}}

	svc := newDistributionServiceForTest(students, &fakeShiftLister{}, allocs, seats)

	result, err := svc.CommitPlan(context.Background(), []dto.PlanEntry{
		{StudentID: 100, CourseID: 10, ShiftID: 1},
	})
	require.NoError(t, err)

	require.Empty(t, result.Committed)
	require.Equal(t, []dto.UnplaceableEntry{
		{StudentID: 100, CourseID: 10, Reason: scheduling.ReasonBecameStale},
	}, result.Unplaceable)
	require.Empty(t, allocs.created)
}

func TestCommitPlanSkipsEntryWhoseCourseGotAllocated(t *testing.T) {
	t.Parallel()

	target := testShift(1, 10, models.Monday, 9*60, 11*60)
	allocs := &fakePlanAllocations{taken: map[[2]int64]bool{{100, 10}: true}}
	seats := &fakeCapacity{shifts: map[int64]*models.Shift{1: target}, occupancy: map[int64]int{}}

	svc := newDistributionServiceForTest(&fakeDemandSource{}, &fakeShiftLister{}, allocs, seats)

	result, err := svc.CommitPlan(context.Background(), []dto.PlanEntry{
		{StudentID: 100, CourseID: 10, ShiftID: 1},
	})
	require.NoError(t, err)

	require.Empty(t, result.Committed)
	require.Len(t, result.Unplaceable, 1)
	require.Empty(t, allocs.created)
}
