package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmelo/shiftboard/internal/app/models"
	"github.com/dmelo/shiftboard/internal/app/repositories"
	"github.com/dmelo/shiftboard/internal/pkg/apperrors"
)

// CourseService handles course-related operations
type CourseService struct {
	courseRepo *repositories.CourseRepository
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo *repositories.CourseRepository) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
	}
}

// CreateCourse validates and creates a new course
func (s *CourseService) CreateCourse(ctx context.Context, course *models.Course) error {
	if strings.TrimSpace(course.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(course.Abbreviation) == "" {
		return fmt.Errorf("%w: abbreviation cannot be empty", apperrors.ErrValidationFailed)
	}

	exists, err := s.courseRepo.ExistsByNameOrAbbreviation(ctx, course.Name, course.Abbreviation)
	if err != nil {
		return fmt.Errorf("error checking course: %w", err)
	}
	if exists {
		return apperrors.ErrCourseAlreadyExists
	}

	return s.courseRepo.Create(ctx, course)
}

// GetCourseByID retrieves a course by ID
func (s *CourseService) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid course ID", apperrors.ErrValidationFailed)
	}
	return s.courseRepo.GetByID(ctx, id)
}

// GetAllCourses retrieves all courses
func (s *CourseService) GetAllCourses(ctx context.Context) ([]*models.Course, error) {
	return s.courseRepo.GetAll(ctx)
}
