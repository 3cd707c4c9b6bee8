package repositories

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/dmelo/shiftboard/internal/pkg/apperrors"
)

func TestTranslateRequestCreateErrorDuplicatePending(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: pendingTargetConstraint}

	err := translateRequestCreateError(pgErr)
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestTranslateRequestCreateErrorOtherViolationsPassThrough(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "allocations_student_id_shift_id_key"}

	err := translateRequestCreateError(pgErr)
	require.NotErrorIs(t, err, apperrors.ErrInvalidRequest)
	require.ErrorIs(t, err, pgErr)
}
