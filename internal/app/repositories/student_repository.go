package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmelo/shiftboard/internal/app/models"
	"github.com/dmelo/shiftboard/internal/pkg/apperrors"
	"github.com/dmelo/shiftboard/internal/pkg/dberrors"
)

// StudentRepository handles database operations for students and their
// course enrolments.
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

// Create creates a new student
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (number, name, special_status)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, student.Number, student.Name, student.SpecialStatus).Scan(&student.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrStudentAlreadyExists
		}
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `
		SELECT id, number, name, special_status
		FROM students
		WHERE id = $1
	`

	var student models.Student
	err := r.db.QueryRow(ctx, query, id).Scan(
		&student.ID,
		&student.Number,
		&student.Name,
		&student.SpecialStatus,
	)
	if err != nil {
		if dberrors.IsNotFound(err) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

// GetAll retrieves all students ordered by id
func (r *StudentRepository) GetAll(ctx context.Context) ([]*models.Student, error) {
	query := `
		SELECT id, number, name, special_status
		FROM students
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		var student models.Student
		if err := rows.Scan(
			&student.ID,
			&student.Number,
			&student.Name,
			&student.SpecialStatus,
		); err != nil {
			return nil, err
		}
		students = append(students, &student)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

// LockByID takes a row lock on the student inside tx. Allocation writers lock
// the student before reading their schedule; existing allocation rows alone
// cannot serialize concurrent inserts, a writer for an unallocated student
// would find nothing to lock.
func (r *StudentRepository) LockByID(ctx context.Context, tx pgx.Tx, id int64) error {
	var locked int64
	err := tx.QueryRow(ctx, `SELECT id FROM students WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if dberrors.IsNotFound(err) {
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("error locking student: %w", err)
	}
	return nil
}

// Enrol registers the student in a course. Enrolling twice is a no-op.
func (r *StudentRepository) Enrol(ctx context.Context, studentID, courseID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO enrolments (student_id, course_id)
		VALUES ($1, $2)
		ON CONFLICT (student_id, course_id) DO NOTHING`,
		studentID, courseID)
	if err != nil {
		return fmt.Errorf("error enrolling student: %w", err)
	}
	return nil
}

// GetEnrolledCourseIDs returns the ids of the courses the student is enrolled in.
func (r *StudentRepository) GetEnrolledCourseIDs(ctx context.Context, studentID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT course_id FROM enrolments WHERE student_id = $1 ORDER BY course_id`,
		studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// UnallocatedEnrolment is one (student, course) pair with no allocation.
type UnallocatedEnrolment struct {
	StudentID     int64
	SpecialStatus bool
	CourseID      int64
}

// GetUnallocatedEnrolments returns every enrolment that has no allocation in
// any shift of the enrolled course, ordered by (student_id, course_id). This
// is the planner's demand set.
func (r *StudentRepository) GetUnallocatedEnrolments(ctx context.Context) ([]UnallocatedEnrolment, error) {
	query := `
		SELECT e.student_id, s.special_status, e.course_id
		FROM enrolments e
		JOIN students s ON s.id = e.student_id
		WHERE NOT EXISTS (
			SELECT 1
			FROM allocations a
			JOIN shifts f ON f.id = a.shift_id
			WHERE a.student_id = e.student_id AND f.course_id = e.course_id
		)
		ORDER BY e.student_id, e.course_id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []UnallocatedEnrolment
	for rows.Next() {
		var u UnallocatedEnrolment
		if err := rows.Scan(&u.StudentID, &u.SpecialStatus, &u.CourseID); err != nil {
			return nil, err
		}
		result = append(result, u)
	}

	return result, rows.Err()
}
