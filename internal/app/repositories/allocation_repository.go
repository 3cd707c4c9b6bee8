package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmelo/shiftboard/internal/app/models"
)

// AllocationRepository handles database operations for allocations. Mutations
// run inside a caller-provided transaction so the allocation swap on request
// approval and the plan commit stay atomic.
type AllocationRepository struct {
	db *pgxpool.Pool
}

// NewAllocationRepository creates a new allocation repository
func NewAllocationRepository(db *pgxpool.Pool) *AllocationRepository {
	return &AllocationRepository{
		db: db,
	}
}

// GetByStudentID retrieves a student's allocations with their shifts joined,
// ordered by shift id.
func (r *AllocationRepository) GetByStudentID(ctx context.Context, studentID int64) ([]*models.Allocation, error) {
	query := `
		SELECT a.id, a.student_id, a.shift_id, a.created_at,
		       f.id, f.course_id, f.weekday, f.start_min, f.end_min, f.capacity, f.room, f.kind
		FROM allocations a
		JOIN shifts f ON f.id = a.shift_id
		WHERE a.student_id = $1
		ORDER BY f.id
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var allocations []*models.Allocation
	for rows.Next() {
		var alloc models.Allocation
		var shift models.Shift
		if err := rows.Scan(
			&alloc.ID, &alloc.StudentID, &alloc.ShiftID, &alloc.CreatedAt,
			&shift.ID, &shift.CourseID, &shift.Weekday, &shift.StartMin,
			&shift.EndMin, &shift.Capacity, &shift.Room, &shift.Kind,
		); err != nil {
			return nil, err
		}
		alloc.Shift = &shift
		allocations = append(allocations, &alloc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return allocations, nil
}

// LockShiftsByStudent retrieves the shifts a student is allocated to inside
// tx, locking the allocation rows against concurrent deletes. Serialization
// against concurrent inserts comes from the student row lock the caller takes
// first; these rows cannot provide it, an unallocated student has none.
func (r *AllocationRepository) LockShiftsByStudent(ctx context.Context, tx pgx.Tx, studentID int64) ([]*models.Shift, error) {
	query := `
		SELECT f.id, f.course_id, f.weekday, f.start_min, f.end_min, f.capacity, f.room, f.kind
		FROM allocations a
		JOIN shifts f ON f.id = a.shift_id
		WHERE a.student_id = $1
		ORDER BY f.id
		FOR UPDATE OF a
	`

	rows, err := tx.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []*models.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

// GetForCourse returns the student's allocation in any shift of the course,
// or nil when the student is unallocated for it.
func (r *AllocationRepository) GetForCourse(ctx context.Context, studentID, courseID int64) (*models.Allocation, error) {
	query := `
		SELECT a.id, a.student_id, a.shift_id, a.created_at
		FROM allocations a
		JOIN shifts f ON f.id = a.shift_id
		WHERE a.student_id = $1 AND f.course_id = $2
	`

	var alloc models.Allocation
	err := r.db.QueryRow(ctx, query, studentID, courseID).Scan(
		&alloc.ID, &alloc.StudentID, &alloc.ShiftID, &alloc.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving allocation: %w", err)
	}

	return &alloc, nil
}

// CountByShiftTx counts the seats taken in a shift inside tx. Callers lock
// the shift row first so the count cannot move under them.
func (r *AllocationRepository) CountByShiftTx(ctx context.Context, tx pgx.Tx, shiftID int64) (int, error) {
	var count int
	err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM allocations WHERE shift_id = $1`, shiftID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting allocations: %w", err)
	}
	return count, nil
}

// CountByShift counts the seats taken in a shift outside any transaction.
func (r *AllocationRepository) CountByShift(ctx context.Context, shiftID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM allocations WHERE shift_id = $1`, shiftID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting allocations: %w", err)
	}
	return count, nil
}

// OccupancyByShift returns the committed seat count per shift id.
func (r *AllocationRepository) OccupancyByShift(ctx context.Context) (map[int64]int, error) {
	rows, err := r.db.Query(ctx, `SELECT shift_id, COUNT(*) FROM allocations GROUP BY shift_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	occupancy := make(map[int64]int)
	for rows.Next() {
		var shiftID int64
		var count int
		if err := rows.Scan(&shiftID, &count); err != nil {
			return nil, err
		}
		occupancy[shiftID] = count
	}

	return occupancy, rows.Err()
}

// CreateTx inserts an allocation inside tx.
func (r *AllocationRepository) CreateTx(ctx context.Context, tx pgx.Tx, studentID, shiftID int64) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO allocations (student_id, shift_id)
		VALUES ($1, $2)`,
		studentID, shiftID)
	if err != nil {
		return fmt.Errorf("error creating allocation: %w", err)
	}
	return nil
}

// DeleteTx removes the allocation of a student in a shift inside tx,
// reporting whether a row was deleted.
func (r *AllocationRepository) DeleteTx(ctx context.Context, tx pgx.Tx, studentID, shiftID int64) (bool, error) {
	cmdTag, err := tx.Exec(ctx, `
		DELETE FROM allocations WHERE student_id = $1 AND shift_id = $2`,
		studentID, shiftID)
	if err != nil {
		return false, fmt.Errorf("error deleting allocation: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// ExistsForCourseTx reports inside tx whether the student already holds an
// allocation in any shift of the course.
func (r *AllocationRepository) ExistsForCourseTx(ctx context.Context, tx pgx.Tx, studentID, courseID int64) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM allocations a
			JOIN shifts f ON f.id = a.shift_id
			WHERE a.student_id = $1 AND f.course_id = $2
		)`,
		studentID, courseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking allocation existence: %w", err)
	}
	return exists, nil
}
