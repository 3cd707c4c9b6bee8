package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmelo/shiftboard/internal/app/models"
	"github.com/dmelo/shiftboard/internal/app/repositories"
	"github.com/dmelo/shiftboard/internal/pkg/apperrors"
)

// StudentService handles student records and course enrolments.
type StudentService struct {
	studentRepo *repositories.StudentRepository
	courseRepo  *repositories.CourseRepository
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo *repositories.StudentRepository, courseRepo *repositories.CourseRepository) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		courseRepo:  courseRepo,
	}
}

// CreateStudent validates and creates a new student
func (s *StudentService) CreateStudent(ctx context.Context, student *models.Student) error {
	if strings.TrimSpace(student.Number) == "" {
		return fmt.Errorf("%w: number cannot be empty", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(student.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}

	return s.studentRepo.Create(ctx, student)
}

// GetStudentByID retrieves a student by ID
func (s *StudentService) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid student ID", apperrors.ErrValidationFailed)
	}
	return s.studentRepo.GetByID(ctx, id)
}

// GetAllStudents retrieves all students
func (s *StudentService) GetAllStudents(ctx context.Context) ([]*models.Student, error) {
	return s.studentRepo.GetAll(ctx)
}

// EnrolStudent registers a student in a course. Both must exist; enrolling
// twice is a no-op.
func (s *StudentService) EnrolStudent(ctx context.Context, studentID, courseID int64) error {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return err
	}
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return err
	}

	return s.studentRepo.Enrol(ctx, studentID, courseID)
}

// GetEnrolments returns the ids of the courses the student is enrolled in.
func (s *StudentService) GetEnrolments(ctx context.Context, studentID int64) ([]int64, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.studentRepo.GetEnrolledCourseIDs(ctx, studentID)
}
