package models

// Student defines a student record. Profile fields beyond scheduling needs are
// kept opaque. SpecialStatus marks working-student and athlete statutes; the
// distribution planner places these students first.
type Student struct {
	ID            int64  `json:"id" db:"id"`
	Number        string `json:"number" db:"number"`
	Name          string `json:"name" db:"name"`
	SpecialStatus bool   `json:"specialStatus" db:"special_status"`
}
