package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	CourseRepository       *CourseRepository
	StudentRepository      *StudentRepository
	ShiftRepository        *ShiftRepository
	AllocationRepository   *AllocationRepository
	ShiftRequestRepository *ShiftRequestRepository
	PublicationRepository  *PublicationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		CourseRepository:       NewCourseRepository(db),
		StudentRepository:      NewStudentRepository(db),
		ShiftRepository:        NewShiftRepository(db),
		AllocationRepository:   NewAllocationRepository(db),
		ShiftRequestRepository: NewShiftRequestRepository(db),
		PublicationRepository:  NewPublicationRepository(db),
	}
}
