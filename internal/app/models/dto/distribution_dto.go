package dto

import "time"

// PlanEntry is one proposed allocation in a distribution plan.
type PlanEntry struct {
	StudentID int64 `json:"studentId"`
	CourseID  int64 `json:"courseId"`
	ShiftID   int64 `json:"shiftId"`
}

// UnplaceableEntry names a (student, course) the planner could not place and why.
type UnplaceableEntry struct {
	StudentID int64  `json:"studentId"`
	CourseID  int64  `json:"courseId"`
	Reason    string `json:"reason"`
}

// DistributionPlanResponse is the draft plan a director reviews before commit.
type DistributionPlanResponse struct {
	PlanID      string             `json:"planId"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Entries     []PlanEntry        `json:"entries"`
	Unplaceable []UnplaceableEntry `json:"unplaceable"`
}

// CommitPlanRequest carries the plan entries to commit. Entries are
// re-validated against live store state before any row is written.
type CommitPlanRequest struct {
	Entries []PlanEntry `json:"entries" binding:"required"`
}

// CommitPlanResponse reports what was written and what became invalid between
// planning and commit.
type CommitPlanResponse struct {
	Committed   []PlanEntry        `json:"committed"`
	Unplaceable []UnplaceableEntry `json:"unplaceable"`
}
