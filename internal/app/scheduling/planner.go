package scheduling

import (
	"sort"

	"github.com/dmelo/shiftboard/internal/app/models"
)

// Unplaceable reasons.
const (
	ReasonNoSeats     = "no shift with free seats"
	ReasonAllConflict = "all shifts conflict with the student's schedule"
	ReasonNoShifts    = "course has no shifts"
	ReasonBecameStale = "allocation became invalid before commit"
)

// Demand is one student needing a shift for each of the listed courses.
type Demand struct {
	StudentID     int64
	SpecialStatus bool
	CourseIDs     []int64
}

// PlanInput is the in-memory snapshot the planner works on.
type PlanInput struct {
	Demands []Demand
	// ShiftsByCourse lists every shift of each demanded course.
	ShiftsByCourse map[int64][]*models.Shift
	// Held maps studentID to the shifts the student is already allocated to.
	Held map[int64][]*models.Shift
	// Occupancy maps shiftID to its committed seat count.
	Occupancy map[int64]int
}

// PlanEntry is one proposed allocation.
type PlanEntry struct {
	StudentID int64
	CourseID  int64
	ShiftID   int64
}

// Unplaceable names a (student, course) that could not be placed.
type Unplaceable struct {
	StudentID int64
	CourseID  int64
	Reason    string
}

// Plan is the draft produced by BuildPlan. It is transient: a director
// reviews it and commits it explicitly, or discards it by replanning.
type Plan struct {
	Entries     []PlanEntry
	Unplaceable []Unplaceable
}

// BuildPlan assigns each demanded (student, course) to the first admissible
// shift, greedily. Students with a special statute go first, then id
// ascending; a student's courses are taken id ascending; candidate shifts are
// tried in ascending remaining-capacity order, ties broken by shift id.
// Shifts that are full or that clash with the student's held or
// already-planned shifts are skipped. An inadmissible (student, course) is
// reported and planning continues; partial success is expected.
//
// The function is pure with respect to its input: occupancy is copied before
// tentative reservations, so rerunning on the same snapshot yields the same
// plan.
func BuildPlan(in PlanInput) Plan {
	demands := make([]Demand, len(in.Demands))
	copy(demands, in.Demands)
	sort.SliceStable(demands, func(i, j int) bool {
		if demands[i].SpecialStatus != demands[j].SpecialStatus {
			return demands[i].SpecialStatus
		}
		return demands[i].StudentID < demands[j].StudentID
	})

	occ := make(map[int64]int, len(in.Occupancy))
	for id, n := range in.Occupancy {
		occ[id] = n
	}

	var plan Plan
	for _, d := range demands {
		courses := make([]int64, len(d.CourseIDs))
		copy(courses, d.CourseIDs)
		sort.Slice(courses, func(i, j int) bool { return courses[i] < courses[j] })

		// Working view of the student's schedule: held shifts plus shifts
		// planned for them earlier in this run.
		schedule := append([]*models.Shift(nil), in.Held[d.StudentID]...)

		for _, courseID := range courses {
			shifts := in.ShiftsByCourse[courseID]
			if len(shifts) == 0 {
				plan.Unplaceable = append(plan.Unplaceable, Unplaceable{
					StudentID: d.StudentID,
					CourseID:  courseID,
					Reason:    ReasonNoShifts,
				})
				continue
			}

			candidates := make([]*models.Shift, len(shifts))
			copy(candidates, shifts)
			sort.Slice(candidates, func(i, j int) bool {
				ri := candidates[i].Capacity - occ[candidates[i].ID]
				rj := candidates[j].Capacity - occ[candidates[j].ID]
				if ri != rj {
					return ri < rj
				}
				return candidates[i].ID < candidates[j].ID
			})

			placed := false
			sawSeat := false
			for _, shift := range candidates {
				if occ[shift.ID] >= shift.Capacity {
					continue
				}
				sawSeat = true
				if _, clash := HasConflict(schedule, shift); clash {
					continue
				}

				occ[shift.ID]++
				schedule = append(schedule, shift)
				plan.Entries = append(plan.Entries, PlanEntry{
					StudentID: d.StudentID,
					CourseID:  courseID,
					ShiftID:   shift.ID,
				})
				placed = true
				break
			}

			if !placed {
				reason := ReasonNoSeats
				if sawSeat {
					reason = ReasonAllConflict
				}
				plan.Unplaceable = append(plan.Unplaceable, Unplaceable{
					StudentID: d.StudentID,
					CourseID:  courseID,
					Reason:    reason,
				})
			}
		}
	}

	return plan
}
