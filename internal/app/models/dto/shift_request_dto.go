package dto

// SubmitShiftRequest is the body for a student's change request. The student
// id comes from the caller's token.
type SubmitShiftRequest struct {
	TargetShiftID int64 `json:"targetShiftId" binding:"required"`
}

// ResolveShiftRequest is the body for a director's approve/reject action.
type ResolveShiftRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
}

// Resolver actions accepted by PATCH /shift-requests/:id.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)
