package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmelo/shiftboard/internal/app/models"
	"github.com/dmelo/shiftboard/internal/pkg/apperrors"
	"github.com/dmelo/shiftboard/internal/pkg/dberrors"
)

// ShiftRequestRepository handles database operations for shift requests
type ShiftRequestRepository struct {
	db *pgxpool.Pool
}

// NewShiftRequestRepository creates a new shift request repository
func NewShiftRequestRepository(db *pgxpool.Pool) *ShiftRequestRepository {
	return &ShiftRequestRepository{
		db: db,
	}
}

const requestColumns = `id, student_id, current_shift_id, target_shift_id, submitted_at, status, resolved_at, resolver_id`

// Partial unique index on (student_id, target_shift_id) WHERE status = 'PENDING'.
const pendingTargetConstraint = "uq_shift_requests_pending_target"

func scanRequest(row pgx.Row) (*models.ShiftRequest, error) {
	var req models.ShiftRequest
	err := row.Scan(
		&req.ID,
		&req.StudentID,
		&req.CurrentShiftID,
		&req.TargetShiftID,
		&req.SubmittedAt,
		&req.Status,
		&req.ResolvedAt,
		&req.ResolverID,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create inserts a new pending request
func (r *ShiftRequestRepository) Create(ctx context.Context, req *models.ShiftRequest) error {
	query := `
		INSERT INTO shift_requests (student_id, current_shift_id, target_shift_id, submitted_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		req.StudentID, req.CurrentShiftID, req.TargetShiftID, req.SubmittedAt, req.Status,
	).Scan(&req.ID)
	if err != nil {
		return translateRequestCreateError(err)
	}

	return nil
}

// translateRequestCreateError maps a duplicate-pending unique violation to the
// domain error. The service pre-checks for duplicates, but two concurrent
// submissions can both pass that check; the index is the authority.
func translateRequestCreateError(err error) error {
	if dberrors.IsDuplicateConstraintError(err, pendingTargetConstraint) {
		return apperrors.NewCustomError(apperrors.ErrInvalidRequest, "a pending request for this shift already exists")
	}
	return fmt.Errorf("error creating shift request: %w", err)
}

// GetByID retrieves a request by ID
func (r *ShiftRequestRepository) GetByID(ctx context.Context, id int64) (*models.ShiftRequest, error) {
	req, err := scanRequest(r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM shift_requests WHERE id = $1`, id))
	if err != nil {
		if dberrors.IsNotFound(err) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, fmt.Errorf("error retrieving shift request: %w", err)
	}
	return req, nil
}

// LockByID retrieves a request by ID inside tx, taking a row lock so
// concurrent resolutions of the same request serialize.
func (r *ShiftRequestRepository) LockByID(ctx context.Context, tx pgx.Tx, id int64) (*models.ShiftRequest, error) {
	req, err := scanRequest(tx.QueryRow(ctx, `SELECT `+requestColumns+` FROM shift_requests WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if dberrors.IsNotFound(err) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, fmt.Errorf("error locking shift request: %w", err)
	}
	return req, nil
}

// HasPendingForTarget checks whether the student already has a pending
// request for the same target shift.
func (r *ShiftRequestRepository) HasPendingForTarget(ctx context.Context, studentID, targetShiftID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM shift_requests
			WHERE student_id = $1 AND target_shift_id = $2 AND status = $3
		)`,
		studentID, targetShiftID, models.RequestPending).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking pending request: %w", err)
	}
	return exists, nil
}

// ListByStatus retrieves requests with the given status, newest first.
func (r *ShiftRequestRepository) ListByStatus(ctx context.Context, status models.RequestStatus) ([]*models.ShiftRequest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+requestColumns+` FROM shift_requests WHERE status = $1 ORDER BY submitted_at DESC`,
		status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.ShiftRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// ListByStudent retrieves a student's requests, newest first.
func (r *ShiftRequestRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.ShiftRequest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+requestColumns+` FROM shift_requests WHERE student_id = $1 ORDER BY submitted_at DESC`,
		studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.ShiftRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// ResolveTx moves a request out of Pending inside tx. The status write and
// the allocation swap commit or roll back together.
func (r *ShiftRequestRepository) ResolveTx(ctx context.Context, tx pgx.Tx, id int64, status models.RequestStatus, resolverID int64, resolvedAt time.Time) error {
	cmdTag, err := tx.Exec(ctx, `
		UPDATE shift_requests
		SET status = $1, resolver_id = $2, resolved_at = $3
		WHERE id = $4 AND status = $5`,
		status, resolverID, resolvedAt, id, models.RequestPending)
	if err != nil {
		return fmt.Errorf("error resolving shift request: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyResolved
	}

	return nil
}
