package scheduling

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmelo/shiftboard/internal/app/models"
	"github.com/dmelo/shiftboard/internal/pkg/apperrors"
)

func TestValidateApprovalHappyPath(t *testing.T) {
	t.Parallel()

	target := shift(2, 20, models.Tuesday, 9*60, 11*60, 30)
	held := []*models.Shift{
		shift(1, 10, models.Monday, 9*60, 11*60, 30),
	}

	require.NoError(t, ValidateApproval(target, held, 12))
}

func TestValidateApprovalShiftFull(t *testing.T) {
	t.Parallel()

	target := shift(2, 20, models.Tuesday, 9*60, 11*60, 30)

	err := ValidateApproval(target, nil, 30)
	require.ErrorIs(t, err, apperrors.ErrShiftFull)

	// Over capacity behaves the same as exactly at capacity.
	err = ValidateApproval(target, nil, 31)
	require.ErrorIs(t, err, apperrors.ErrShiftFull)
}

func TestValidateApprovalLastSeat(t *testing.T) {
	t.Parallel()

	target := shift(2, 20, models.Tuesday, 9*60, 11*60, 30)

	require.NoError(t, ValidateApproval(target, nil, 29))
}

func TestValidateApprovalConflict(t *testing.T) {
	t.Parallel()

	target := shift(2, 20, models.Monday, 10*60, 12*60, 30)
	held := []*models.Shift{
		shift(1, 10, models.Monday, 9*60, 11*60, 30),
	}

	err := ValidateApproval(target, held, 0)
	require.ErrorIs(t, err, apperrors.ErrScheduleConflict)

	var customErr *apperrors.CustomError
	require.True(t, errors.As(err, &customErr))
	require.Equal(t, int64(1), customErr.Details["conflictingShiftId"])
}

func TestValidateApprovalFullCheckedBeforeConflict(t *testing.T) {
	t.Parallel()

	// Both failures apply; fullness is reported first.
	target := shift(2, 20, models.Monday, 10*60, 12*60, 1)
	held := []*models.Shift{
		shift(1, 10, models.Monday, 9*60, 11*60, 30),
	}

	err := ValidateApproval(target, held, 1)
	require.ErrorIs(t, err, apperrors.ErrShiftFull)
}

func TestValidateApprovalIgnoresReleasedShift(t *testing.T) {
	t.Parallel()

	// The current shift overlaps the target but is dropped before the check,
	// since approval releases it. This is the plain shift-change case: moving
	// to another shift of the same course at an overlapping time.
	current := shift(1, 20, models.Monday, 9*60, 11*60, 30)
	target := shift(2, 20, models.Monday, 10*60, 12*60, 30)
	other := shift(3, 30, models.Friday, 9*60, 11*60, 30)

	held := ExcludeShift([]*models.Shift{current, other}, &current.ID)

	require.NoError(t, ValidateApproval(target, held, 0))
}

func TestExcludeShift(t *testing.T) {
	t.Parallel()

	a := shift(1, 10, models.Monday, 9*60, 11*60, 30)
	b := shift(2, 20, models.Tuesday, 9*60, 11*60, 30)
	held := []*models.Shift{a, b}

	require.Equal(t, []*models.Shift{b}, ExcludeShift(held, &a.ID))
	require.Equal(t, held, ExcludeShift(held, nil))

	missing := int64(99)
	require.Equal(t, held, ExcludeShift(held, &missing))
}
