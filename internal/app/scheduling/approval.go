package scheduling

import (
	"github.com/dmelo/shiftboard/internal/app/models"
	"github.com/dmelo/shiftboard/internal/pkg/apperrors"
)

// ValidateApproval re-checks a shift request at resolution time: the target
// must have a free seat and must not clash with any shift the student keeps
// after the move. held must already exclude the request's current shift,
// since approval replaces that allocation.
//
// Returns ErrShiftFull or ErrScheduleConflict; both leave the request
// Pending. Fullness can clear when another student moves away, and a
// conflict is the director's call to reject explicitly.
func ValidateApproval(target *models.Shift, held []*models.Shift, occupancy int) error {
	if occupancy >= target.Capacity {
		return apperrors.ErrShiftFull
	}

	if conflictID, ok := HasConflict(held, target); ok {
		return apperrors.NewCustomError(apperrors.ErrScheduleConflict, "").
			WithDetails(map[string]interface{}{"conflictingShiftId": conflictID})
	}

	return nil
}

// ExcludeShift returns held without the shift identified by id. Used to drop
// the request's current shift before conflict checking. A nil id returns the
// input unchanged.
func ExcludeShift(held []*models.Shift, id *int64) []*models.Shift {
	if id == nil {
		return held
	}
	out := make([]*models.Shift, 0, len(held))
	for _, s := range held {
		if s.ID != *id {
			out = append(out, s)
		}
	}
	return out
}
