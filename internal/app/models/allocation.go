package models

import "time"

// Allocation is a committed assignment of one student to one shift, unique per
// (student, shift). A student holds at most one allocation per course and no
// two allocations with overlapping times on the same weekday.
type Allocation struct {
	ID        int64     `json:"id" db:"id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	ShiftID   int64     `json:"shiftId" db:"shift_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Shift *Shift `json:"shift,omitempty"`
}
