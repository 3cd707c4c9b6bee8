// Package scheduling holds the pure allocation core: conflict detection
// between a student's shifts and the bulk distribution planner. Nothing in
// this package touches the store; callers pass snapshots in and persist
// results themselves.
package scheduling

import (
	"sort"

	"github.com/dmelo/shiftboard/internal/app/models"
)

// Conflict reasons reported for diagnostics.
const (
	ReasonTimeOverlap = "time overlap"
	ReasonSameCourse  = "same course"
)

// HasConflict decides whether candidate clashes with any of the shifts the
// student already holds. Two shifts conflict when they belong to the same
// course, or share a weekday with overlapping [start,end) intervals. The
// first conflicting shift found is returned for diagnostics; when several
// conflict, which one is reported is unspecified.
func HasConflict(held []*models.Shift, candidate *models.Shift) (conflictShiftID int64, ok bool) {
	for _, s := range held {
		if s.ID == candidate.ID {
			continue
		}
		if s.CourseID == candidate.CourseID || s.OverlapsTime(candidate) {
			return s.ID, true
		}
	}
	return 0, false
}

// ConflictReason classifies why two shifts clash. Same-course wins over time
// overlap when both apply, matching the rule that a student never holds two
// shifts of one course regardless of time.
func ConflictReason(a, b *models.Shift) (string, bool) {
	if a.CourseID == b.CourseID {
		return ReasonSameCourse, true
	}
	if a.OverlapsTime(b) {
		return ReasonTimeOverlap, true
	}
	return "", false
}

// ConflictPair is one clashing pair in a pairwise report.
type ConflictPair struct {
	ShiftID      int64
	OtherShiftID int64
	Reason       string
}

// PairwiseConflicts reports every clashing pair among the given shifts,
// ordered by (ShiftID, OtherShiftID) with ShiftID < OtherShiftID.
func PairwiseConflicts(shifts []*models.Shift) []ConflictPair {
	sorted := make([]*models.Shift, len(shifts))
	copy(sorted, shifts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var pairs []ConflictPair
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if reason, ok := ConflictReason(sorted[i], sorted[j]); ok {
				pairs = append(pairs, ConflictPair{
					ShiftID:      sorted[i].ID,
					OtherShiftID: sorted[j].ID,
					Reason:       reason,
				})
			}
		}
	}
	return pairs
}
