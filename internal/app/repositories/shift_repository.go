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

// ShiftRepository handles database operations for shifts
type ShiftRepository struct {
	db *pgxpool.Pool
}

// NewShiftRepository creates a new shift repository
func NewShiftRepository(db *pgxpool.Pool) *ShiftRepository {
	return &ShiftRepository{
		db: db,
	}
}

const shiftColumns = `id, course_id, weekday, start_min, end_min, capacity, room, kind`

func scanShift(row pgx.Row) (*models.Shift, error) {
	var shift models.Shift
	err := row.Scan(
		&shift.ID,
		&shift.CourseID,
		&shift.Weekday,
		&shift.StartMin,
		&shift.EndMin,
		&shift.Capacity,
		&shift.Room,
		&shift.Kind,
	)
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

// Create creates a new shift
func (r *ShiftRepository) Create(ctx context.Context, shift *models.Shift) error {
	query := `
		INSERT INTO shifts (course_id, weekday, start_min, end_min, capacity, room, kind)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		shift.CourseID, shift.Weekday, shift.StartMin, shift.EndMin,
		shift.Capacity, shift.Room, shift.Kind,
	).Scan(&shift.ID)
	if err != nil {
		return fmt.Errorf("error creating shift: %w", err)
	}

	return nil
}

// GetByID retrieves a shift by ID
func (r *ShiftRepository) GetByID(ctx context.Context, id int64) (*models.Shift, error) {
	shift, err := scanShift(r.db.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, id))
	if err != nil {
		if dberrors.IsNotFound(err) {
			return nil, apperrors.ErrShiftNotFound
		}
		return nil, fmt.Errorf("error retrieving shift: %w", err)
	}
	return shift, nil
}

// LockByID retrieves a shift by ID inside tx, taking a row lock. Occupancy
// checks against the shift stay serialized per shift until the transaction
// ends.
func (r *ShiftRepository) LockByID(ctx context.Context, tx pgx.Tx, id int64) (*models.Shift, error) {
	shift, err := scanShift(tx.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if dberrors.IsNotFound(err) {
			return nil, apperrors.ErrShiftNotFound
		}
		return nil, fmt.Errorf("error locking shift: %w", err)
	}
	return shift, nil
}

// GetAll retrieves all shifts ordered by id
func (r *ShiftRepository) GetAll(ctx context.Context) ([]*models.Shift, error) {
	return r.queryShifts(ctx, `SELECT `+shiftColumns+` FROM shifts ORDER BY id`)
}

// GetByCourseID retrieves all shifts of a course ordered by id
func (r *ShiftRepository) GetByCourseID(ctx context.Context, courseID int64) ([]*models.Shift, error) {
	return r.queryShifts(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE course_id = $1 ORDER BY id`, courseID)
}

// GetByCourseIDs retrieves the shifts of several courses, grouped by course.
func (r *ShiftRepository) GetByCourseIDs(ctx context.Context, courseIDs []int64) (map[int64][]*models.Shift, error) {
	shifts, err := r.queryShifts(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE course_id = ANY($1) ORDER BY id`, courseIDs)
	if err != nil {
		return nil, err
	}

	byCourse := make(map[int64][]*models.Shift, len(courseIDs))
	for _, s := range shifts {
		byCourse[s.CourseID] = append(byCourse[s.CourseID], s)
	}
	return byCourse, nil
}

func (r *ShiftRepository) queryShifts(ctx context.Context, query string, args ...interface{}) ([]*models.Shift, error) {
	rows, err := r.db.Query(ctx, query, args...)
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

// CountTheoretical counts the theoretical shifts of a course.
func (r *ShiftRepository) CountTheoretical(ctx context.Context, courseID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM shifts WHERE course_id = $1 AND kind = $2`,
		courseID, models.Theoretical).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting theoretical shifts: %w", err)
	}
	return count, nil
}

// RoomOccupied checks whether any shift already uses the room on the given
// weekday with an overlapping time interval.
func (r *ShiftRepository) RoomOccupied(ctx context.Context, room string, weekday models.Weekday, startMin, endMin int) (bool, error) {
	var occupied bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM shifts
			WHERE room = $1 AND weekday = $2 AND start_min < $4 AND $3 < end_min
		)`,
		room, weekday, startMin, endMin).Scan(&occupied)
	if err != nil {
		return false, fmt.Errorf("error checking room occupancy: %w", err)
	}
	return occupied, nil
}
