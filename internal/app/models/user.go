package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent  RoleType = "STUDENT"
	RoleDirector RoleType = "DIRECTOR"
)

// User is an account that can call the API. Students carry a link to their
// student record; directors do not.
type User struct {
	ID           int64    `json:"id" db:"id"`
	Email        string   `json:"email" db:"email"`
	PasswordHash string   `json:"-" db:"password_hash"`
	Name         string   `json:"name" db:"name"`
	RoleType     RoleType `json:"roleType" db:"role_type"`
	StudentID    *int64   `json:"studentId,omitempty" db:"student_id"`
}
