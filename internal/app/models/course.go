package models

// Course represents a curricular unit students enrol in. Courses are treated
// as immutable once shifts reference them during a term.
type Course struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Abbreviation string `json:"abbreviation" db:"abbreviation"`
}
