package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmelo/shiftboard/internal/pkg/apperrors"
)

type fakeTx struct {
	pgx.Tx
	commitErr   error
	rollbackErr error
	committed   bool
	rolledBack  bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return t.rollbackErr
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx, nil
}

func TestWithTransactionCommitsOnSuccess(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{}
	err := WithTransaction(context.Background(), &fakeBeginner{tx: tx}, func(ctx context.Context, _ pgx.Tx) error {
		return nil
	})

	require.NoError(t, err)
	require.True(t, tx.committed)
	require.False(t, tx.rolledBack)
}

func TestWithTransactionRollsBackAndKeepsError(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{}
	err := WithTransaction(context.Background(), &fakeBeginner{tx: tx}, func(ctx context.Context, _ pgx.Tx) error {
		return apperrors.ErrShiftFull
	})

	require.ErrorIs(t, err, apperrors.ErrShiftFull)
	require.True(t, tx.rolledBack)
	require.False(t, tx.committed)
}

func TestWithTransactionRollbackFailureKeepsBothErrors(t *testing.T) {
	t.Parallel()

	// A failing rollback must not hide the original error; the error mapping
	// downstream matches sentinels with errors.Is.
	rbErr := errors.New("connection gone")
	tx := &fakeTx{rollbackErr: rbErr}
	err := WithTransaction(context.Background(), &fakeBeginner{tx: tx}, func(ctx context.Context, _ pgx.Tx) error {
		return apperrors.ErrShiftFull
	})

	require.ErrorIs(t, err, apperrors.ErrShiftFull)
	require.ErrorIs(t, err, rbErr)
}

func TestWithTransactionTagsTransientBeginFailure(t *testing.T) {
	t.Parallel()

	err := WithTransaction(context.Background(), &fakeBeginner{beginErr: context.DeadlineExceeded}, func(ctx context.Context, _ pgx.Tx) error {
		t.Fatal("fn must not run when begin fails")
		return nil
	})

	require.ErrorIs(t, err, apperrors.ErrTransientStore)
}

func TestWithTransactionTagsTransientBodyFailure(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{}
	err := WithTransaction(context.Background(), &fakeBeginner{tx: tx}, func(ctx context.Context, _ pgx.Tx) error {
		return context.DeadlineExceeded
	})

	require.ErrorIs(t, err, apperrors.ErrTransientStore)
	require.True(t, tx.rolledBack)
}

func TestWithTransactionDoesNotTagLogicErrors(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{}
	err := WithTransaction(context.Background(), &fakeBeginner{tx: tx}, func(ctx context.Context, _ pgx.Tx) error {
		return apperrors.ErrScheduleConflict
	})

	require.ErrorIs(t, err, apperrors.ErrScheduleConflict)
	require.NotErrorIs(t, err, apperrors.ErrTransientStore)
}
