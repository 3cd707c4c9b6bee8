package models

// Weekday is a teaching day. Shifts are weekly, Monday through Friday.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
)

// Valid reports whether the weekday is one of the five teaching days.
func (w Weekday) Valid() bool {
	switch w {
	case Monday, Tuesday, Wednesday, Thursday, Friday:
		return true
	}
	return false
}

// ShiftKind distinguishes theoretical from practical shifts. A course carries
// at most two theoretical shifts.
type ShiftKind string

const (
	Theoretical ShiftKind = "THEORETICAL"
	Practical   ShiftKind = "PRACTICAL"
)

// Valid reports whether the kind is a known shift kind.
func (k ShiftKind) Valid() bool {
	return k == Theoretical || k == Practical
}

// Shift is a weekly time slot of a course with a seat capacity.
// StartMin/EndMin are minutes from midnight; the interval is half-open
// [StartMin, EndMin).
type Shift struct {
	ID       int64     `json:"id" db:"id"`
	CourseID int64     `json:"courseId" db:"course_id"`
	Weekday  Weekday   `json:"weekday" db:"weekday"`
	StartMin int       `json:"startMin" db:"start_min"`
	EndMin   int       `json:"endMin" db:"end_min"`
	Capacity int       `json:"capacity" db:"capacity"`
	Room     string    `json:"room" db:"room"`
	Kind     ShiftKind `json:"kind" db:"kind"`

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"`
}

// OverlapsTime reports whether the two shifts share a weekday and their
// half-open time intervals intersect. Course identity is not considered here.
func (s *Shift) OverlapsTime(other *Shift) bool {
	return s.Weekday == other.Weekday && s.StartMin < other.EndMin && other.StartMin < s.EndMin
}
