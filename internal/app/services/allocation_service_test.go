package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmelo/shiftboard/internal/app/models"
	"github.com/dmelo/shiftboard/internal/app/scheduling"
	"github.com/dmelo/shiftboard/internal/pkg/apperrors"
)

type fakePublication struct {
	state *models.PublicationState
	err   error
}

func (f *fakePublication) Get(ctx context.Context) (*models.PublicationState, error) {
	return f.state, f.err
}

type fakeAllocations struct {
	byStudent map[int64][]*models.Allocation
	counts    map[int64]int
}

func (f *fakeAllocations) GetByStudentID(ctx context.Context, studentID int64) ([]*models.Allocation, error) {
	return f.byStudent[studentID], nil
}

func (f *fakeAllocations) CountByShift(ctx context.Context, shiftID int64) (int, error) {
	return f.counts[shiftID], nil
}

func allocation(studentID int64, s *models.Shift) *models.Allocation {
	return &models.Allocation{
		StudentID: studentID,
		ShiftID:   s.ID,
		Shift:     s,
	}
}

func testShift(id, courseID int64, day models.Weekday, startMin, endMin int) *models.Shift {
	return &models.Shift{
		ID:       id,
		CourseID: courseID,
		Weekday:  day,
		StartMin: startMin,
		EndMin:   endMin,
		Capacity: 30,
		Room:     "R1",
		Kind:     models.Practical,
	}
}

func TestGetStudentAllocationsBlockedWhileDraft(t *testing.T) {
	t.Parallel()

	s := testShift(1, 10, models.Monday, 9*60, 11*60)
	svc := NewAllocationService(
		&fakeAllocations{
			byStudent: map[int64][]*models.Allocation{100: {allocation(100, s)}},
			counts:    map[int64]int{1: 5},
		},
		&fakePublication{state: &models.PublicationState{ID: 1, Status: models.PublicationDraft}},
	)

	// Rows exist, but a student caller gets the gate error while Draft.
	_, err := svc.GetStudentAllocations(context.Background(), 100, false)
	require.ErrorIs(t, err, apperrors.ErrScheduleNotPublished)
}

func TestGetStudentAllocationsDirectorBypassesGate(t *testing.T) {
	t.Parallel()

	s := testShift(1, 10, models.Monday, 9*60, 11*60)
	svc := NewAllocationService(
		&fakeAllocations{
			byStudent: map[int64][]*models.Allocation{100: {allocation(100, s)}},
			counts:    map[int64]int{1: 5},
		},
		&fakePublication{state: &models.PublicationState{ID: 1, Status: models.PublicationDraft}},
	)

	result, err := svc.GetStudentAllocations(context.Background(), 100, true)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, int64(1), result[0].Shift.ID)
	require.Equal(t, 5, result[0].Shift.Occupancy)
}

func TestGetStudentAllocationsVisibleAfterPublish(t *testing.T) {
	t.Parallel()

	s := testShift(1, 10, models.Monday, 9*60, 11*60)
	svc := NewAllocationService(
		&fakeAllocations{
			byStudent: map[int64][]*models.Allocation{100: {allocation(100, s)}},
			counts:    map[int64]int{1: 5},
		},
		&fakePublication{state: &models.PublicationState{ID: 1, Status: models.PublicationPublished}},
	)

	result, err := svc.GetStudentAllocations(context.Background(), 100, false)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, "09:00", result[0].Shift.StartTime)
}

func TestGetStudentAllocationsEmptyAfterPublish(t *testing.T) {
	t.Parallel()

	svc := NewAllocationService(
		&fakeAllocations{byStudent: map[int64][]*models.Allocation{}},
		&fakePublication{state: &models.PublicationState{ID: 1, Status: models.PublicationPublished}},
	)

	result, err := svc.GetStudentAllocations(context.Background(), 100, false)
	require.NoError(t, err)
	require.Empty(t, result)
}

func TestGetConflictsReportsPairs(t *testing.T) {
	t.Parallel()

	// Conflicts are reported regardless of publication state; the report is a
	// diagnostic surface, not the schedule itself.
	a := testShift(1, 10, models.Monday, 9*60, 11*60)
	b := testShift(2, 20, models.Monday, 10*60, 12*60)
	svc := NewAllocationService(
		&fakeAllocations{
			byStudent: map[int64][]*models.Allocation{
				100: {allocation(100, a), allocation(100, b)},
			},
		},
		&fakePublication{state: &models.PublicationState{ID: 1, Status: models.PublicationDraft}},
	)

	pairs, err := svc.GetConflicts(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	require.Equal(t, int64(1), pairs[0].ShiftID)
	require.Equal(t, int64(2), pairs[0].OtherShiftID)
	require.Equal(t, scheduling.ReasonTimeOverlap, pairs[0].Reason)
}

func TestGetConflictsCleanSchedule(t *testing.T) {
	t.Parallel()

	a := testShift(1, 10, models.Monday, 9*60, 11*60)
	b := testShift(2, 20, models.Tuesday, 9*60, 11*60)
	svc := NewAllocationService(
		&fakeAllocations{
			byStudent: map[int64][]*models.Allocation{
				100: {allocation(100, a), allocation(100, b)},
			},
		},
		&fakePublication{state: &models.PublicationState{ID: 1, Status: models.PublicationPublished}},
	)

	pairs, err := svc.GetConflicts(context.Background(), 100)
	require.NoError(t, err)
	require.Empty(t, pairs)
}
