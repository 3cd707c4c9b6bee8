package dto

// AllocationResponse is the student-facing allocation/shift join entry.
type AllocationResponse struct {
	StudentID int64         `json:"studentId"`
	Shift     ShiftResponse `json:"shift"`
}

// ConflictPair reports two of a student's shifts that clash.
type ConflictPair struct {
	ShiftID      int64  `json:"shiftId"`
	OtherShiftID int64  `json:"otherShiftId"`
	Reason       string `json:"reason" example:"time overlap"`
}
