package models

import "time"

// RequestStatus is the lifecycle state of a shift request. The status is
// always explicit; there is no null-as-pending sentinel.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// Valid reports whether the status is a known request status.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// Terminal reports whether the status is final. A request never leaves
// Approved or Rejected.
func (s RequestStatus) Terminal() bool {
	return s == RequestApproved || s == RequestRejected
}

// ShiftRequest is a student-initiated proposal to move from a current shift
// (nil if the student was unallocated for the course) to a target shift,
// subject to director approval.
type ShiftRequest struct {
	ID             int64         `json:"id" db:"id"`
	StudentID      int64         `json:"studentId" db:"student_id"`
	CurrentShiftID *int64        `json:"currentShiftId,omitempty" db:"current_shift_id"`
	TargetShiftID  int64         `json:"targetShiftId" db:"target_shift_id"`
	SubmittedAt    time.Time     `json:"submittedAt" db:"submitted_at"`
	Status         RequestStatus `json:"status" db:"status"`
	ResolvedAt     *time.Time    `json:"resolvedAt,omitempty" db:"resolved_at"`
	ResolverID     *int64        `json:"resolverId,omitempty" db:"resolver_id"`

	// Relations (populated when needed)
	TargetShift *Shift `json:"targetShift,omitempty"`
}
