package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/dmelo/shiftboard/internal/app/models"
	"github.com/dmelo/shiftboard/internal/pkg/apperrors"
)

type stubTx struct{ pgx.Tx }

func (stubTx) Commit(ctx context.Context) error   { return nil }
func (stubTx) Rollback(ctx context.Context) error { return nil }

type stubBeginner struct{}

func (stubBeginner) Begin(ctx context.Context) (pgx.Tx, error) { return stubTx{}, nil }

type fakeRequestStore struct {
	byID       map[int64]*models.ShiftRequest
	hasPending bool
	createErr  error
	created    []*models.ShiftRequest
	resolved   map[int64]models.RequestStatus
}

func newFakeRequestStore(requests ...*models.ShiftRequest) *fakeRequestStore {
	f := &fakeRequestStore{
		byID:     make(map[int64]*models.ShiftRequest),
		resolved: make(map[int64]models.RequestStatus),
	}
	for _, r := range requests {
		f.byID[r.ID] = r
	}
	return f
}

func (f *fakeRequestStore) Create(ctx context.Context, req *models.ShiftRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	req.ID = int64(len(f.created) + 1)
	f.created = append(f.created, req)
	return nil
}

func (f *fakeRequestStore) GetByID(ctx context.Context, id int64) (*models.ShiftRequest, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrRequestNotFound
	}
	return r, nil
}

func (f *fakeRequestStore) LockByID(ctx context.Context, tx pgx.Tx, id int64) (*models.ShiftRequest, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrRequestNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRequestStore) ResolveTx(ctx context.Context, tx pgx.Tx, id int64, status models.RequestStatus, resolverID int64, resolvedAt time.Time) error {
	f.resolved[id] = status
	return nil
}

func (f *fakeRequestStore) HasPendingForTarget(ctx context.Context, studentID, targetShiftID int64) (bool, error) {
	return f.hasPending, nil
}

func (f *fakeRequestStore) ListByStatus(ctx context.Context, status models.RequestStatus) ([]*models.ShiftRequest, error) {
	return nil, nil
}

func (f *fakeRequestStore) ListByStudent(ctx context.Context, studentID int64) ([]*models.ShiftRequest, error) {
	return nil, nil
}

type fakeShiftGetter struct {
	shifts map[int64]*models.Shift
}

func (f *fakeShiftGetter) GetByID(ctx context.Context, id int64) (*models.Shift, error) {
	s, ok := f.shifts[id]
	if !ok {
		return nil, apperrors.ErrShiftNotFound
	}
	return s, nil
}

// fakeStudentLocker records lock acquisitions. onLock models the moment a
// waiting transaction gets the lock and the competing writer's rows become
// visible: the hook mutates the other fakes before the checks run.
type fakeStudentLocker struct {
	locked []int64
	onLock func(studentID int64)
}

func (f *fakeStudentLocker) LockByID(ctx context.Context, tx pgx.Tx, id int64) error {
	f.locked = append(f.locked, id)
	if f.onLock != nil {
		f.onLock(id)
	}
	return nil
}

type fakeSwapper struct {
	current map[int64]*models.Allocation
	held    map[int64][]*models.Shift
	created [][2]int64
}

func (f *fakeSwapper) GetForCourse(ctx context.Context, studentID, courseID int64) (*models.Allocation, error) {
	return f.current[studentID], nil
}

func (f *fakeSwapper) LockShiftsByStudent(ctx context.Context, tx pgx.Tx, studentID int64) ([]*models.Shift, error) {
	return f.held[studentID], nil
}

func (f *fakeSwapper) CreateTx(ctx context.Context, tx pgx.Tx, studentID, shiftID int64) error {
	f.created = append(f.created, [2]int64{studentID, shiftID})
	return nil
}

type fakeCapacity struct {
	shifts     map[int64]*models.Shift
	occupancy  map[int64]int
	released   [][2]int64
	releaseErr error
}

func (f *fakeCapacity) LockShift(ctx context.Context, tx pgx.Tx, shiftID int64) (*models.Shift, int, error) {
	s, ok := f.shifts[shiftID]
	if !ok {
		return nil, 0, apperrors.ErrShiftNotFound
	}
	return s, f.occupancy[shiftID], nil
}

func (f *fakeCapacity) Release(ctx context.Context, tx pgx.Tx, studentID, shiftID int64) error {
	f.released = append(f.released, [2]int64{studentID, shiftID})
	return f.releaseErr
}

func pendingRequest(id, studentID, targetShiftID int64, currentShiftID *int64) *models.ShiftRequest {
	return &models.ShiftRequest{
		ID:             id,
		StudentID:      studentID,
		CurrentShiftID: currentShiftID,
		TargetShiftID:  targetShiftID,
		SubmittedAt:    time.Now(),
		Status:         models.RequestPending,
	}
}

func newRequestServiceForTest(
	reqs *fakeRequestStore,
	shifts *fakeShiftGetter,
	locker *fakeStudentLocker,
	allocs *fakeSwapper,
	seats *fakeCapacity,
) *RequestService {
	return NewRequestService(stubBeginner{}, reqs, shifts, locker, allocs, seats, zerolog.Nop())
}

func TestApproveSeesAllocationCommittedAtStudentLock(t *testing.T) {
	t.Parallel()

	// Student 100 looks unallocated when the approval starts. A competing
	// writer commits an overlapping Monday shift for a different course;
	// its rows become visible once the student lock is acquired. The
	// conflict check must run against that state and refuse the approval.
	target := testShift(2, 20, models.Monday, 10*60, 12*60)
	reqs := newFakeRequestStore(pendingRequest(1, 100, 2, nil))
	allocs := &fakeSwapper{held: map[int64][]*models.Shift{}}
	locker := &fakeStudentLocker{onLock: func(studentID int64) {
		allocs.held[studentID] = []*models.Shift{testShift(1, 10, models.Monday, 9*60, 11*60)}
	}}
	seats := &fakeCapacity{shifts: map[int64]*models.Shift{2: target}, occupancy: map[int64]int{}}

	svc := newRequestServiceForTest(reqs, &fakeShiftGetter{}, locker, allocs, seats)

	_, err := svc.Approve(context.Background(), 1, 7)
	require.ErrorIs(t, err, apperrors.ErrScheduleConflict)

	require.Equal(t, []int64{100}, locker.locked)
	require.Empty(t, allocs.created)
	require.Empty(t, reqs.resolved, "request must stay pending")
}

func TestApproveSwapsAllocation(t *testing.T) {
	t.Parallel()

	currentID := int64(1)
	current := testShift(1, 20, models.Monday, 9*60, 11*60)
	target := testShift(2, 20, models.Wednesday, 14*60, 16*60)

	reqs := newFakeRequestStore(pendingRequest(1, 100, 2, &currentID))
	allocs := &fakeSwapper{held: map[int64][]*models.Shift{100: {current}}}
	locker := &fakeStudentLocker{}
	seats := &fakeCapacity{shifts: map[int64]*models.Shift{2: target}, occupancy: map[int64]int{2: 5}}

	svc := newRequestServiceForTest(reqs, &fakeShiftGetter{}, locker, allocs, seats)

	approved, err := svc.Approve(context.Background(), 1, 7)
	require.NoError(t, err)

	require.Equal(t, models.RequestApproved, approved.Status)
	require.NotNil(t, approved.ResolverID)
	require.Equal(t, int64(7), *approved.ResolverID)
	require.NotNil(t, approved.ResolvedAt)

	require.Equal(t, [][2]int64{{100, 1}}, seats.released)
	require.Equal(t, [][2]int64{{100, 2}}, allocs.created)
	require.Equal(t, models.RequestApproved, reqs.resolved[1])
}

func TestApproveFullTargetLeavesPending(t *testing.T) {
	t.Parallel()

	target := testShift(2, 20, models.Monday, 10*60, 12*60)
	reqs := newFakeRequestStore(pendingRequest(1, 100, 2, nil))
	allocs := &fakeSwapper{held: map[int64][]*models.Shift{}}
	seats := &fakeCapacity{
		shifts:    map[int64]*models.Shift{2: target},
		occupancy: map[int64]int{2: target.Capacity},
	}

	svc := newRequestServiceForTest(reqs, &fakeShiftGetter{}, &fakeStudentLocker{}, allocs, seats)

	_, err := svc.Approve(context.Background(), 1, 7)
	require.ErrorIs(t, err, apperrors.ErrShiftFull)
	require.Empty(t, allocs.created)
	require.Empty(t, reqs.resolved)
}

func TestApproveAlreadyResolved(t *testing.T) {
	t.Parallel()

	resolved := pendingRequest(1, 100, 2, nil)
	resolved.Status = models.RequestApproved
	reqs := newFakeRequestStore(resolved)
	locker := &fakeStudentLocker{}

	svc := newRequestServiceForTest(reqs, &fakeShiftGetter{}, locker, &fakeSwapper{}, &fakeCapacity{})

	_, err := svc.Approve(context.Background(), 1, 7)
	require.ErrorIs(t, err, apperrors.ErrAlreadyResolved)
	require.Empty(t, locker.locked)
}

func TestApproveToleratesMissingCurrentAllocation(t *testing.T) {
	t.Parallel()

	// The recorded current shift was released by something else since
	// submission. The swap degrades to a plain insert.
	currentID := int64(1)
	target := testShift(2, 20, models.Wednesday, 14*60, 16*60)
	reqs := newFakeRequestStore(pendingRequest(1, 100, 2, &currentID))
	allocs := &fakeSwapper{held: map[int64][]*models.Shift{}}
	seats := &fakeCapacity{
		shifts:     map[int64]*models.Shift{2: target},
		occupancy:  map[int64]int{},
		releaseErr: apperrors.ErrSeatNotReserved,
	}

	svc := newRequestServiceForTest(reqs, &fakeShiftGetter{}, &fakeStudentLocker{}, allocs, seats)

	approved, err := svc.Approve(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Equal(t, models.RequestApproved, approved.Status)
	require.Equal(t, [][2]int64{{100, 2}}, allocs.created)
}

func TestRejectDoesNotTouchAllocations(t *testing.T) {
	t.Parallel()

	reqs := newFakeRequestStore(pendingRequest(1, 100, 2, nil))
	allocs := &fakeSwapper{}
	seats := &fakeCapacity{}

	svc := newRequestServiceForTest(reqs, &fakeShiftGetter{}, &fakeStudentLocker{}, allocs, seats)

	rejected, err := svc.Reject(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Equal(t, models.RequestRejected, rejected.Status)
	require.Equal(t, models.RequestRejected, reqs.resolved[1])
	require.Empty(t, allocs.created)
	require.Empty(t, seats.released)
}

func TestSubmitUnknownTarget(t *testing.T) {
	t.Parallel()

	svc := newRequestServiceForTest(newFakeRequestStore(), &fakeShiftGetter{}, &fakeStudentLocker{}, &fakeSwapper{}, &fakeCapacity{})

	_, err := svc.Submit(context.Background(), 100, 99)
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestSubmitDuplicatePending(t *testing.T) {
	t.Parallel()

	target := testShift(2, 20, models.Monday, 10*60, 12*60)
	reqs := newFakeRequestStore()
	reqs.hasPending = true

	svc := newRequestServiceForTest(reqs, &fakeShiftGetter{shifts: map[int64]*models.Shift{2: target}}, &fakeStudentLocker{}, &fakeSwapper{}, &fakeCapacity{})

	_, err := svc.Submit(context.Background(), 100, 2)
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	require.Empty(t, reqs.created)
}

func TestSubmitSurfacesDuplicateFromStore(t *testing.T) {
	t.Parallel()

	// Two submissions can race past the pending pre-check; the unique index
	// rejects the second insert and the error must reach the caller intact.
	target := testShift(2, 20, models.Monday, 10*60, 12*60)
	reqs := newFakeRequestStore()
	reqs.createErr = apperrors.NewCustomError(apperrors.ErrInvalidRequest, "a pending request for this shift already exists")

	svc := newRequestServiceForTest(reqs, &fakeShiftGetter{shifts: map[int64]*models.Shift{2: target}}, &fakeStudentLocker{}, &fakeSwapper{}, &fakeCapacity{})

	_, err := svc.Submit(context.Background(), 100, 2)
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestSubmitRecordsCurrentShift(t *testing.T) {
	t.Parallel()

	current := testShift(1, 20, models.Monday, 9*60, 11*60)
	target := testShift(2, 20, models.Wednesday, 14*60, 16*60)
	allocs := &fakeSwapper{current: map[int64]*models.Allocation{100: allocation(100, current)}}

	svc := newRequestServiceForTest(newFakeRequestStore(), &fakeShiftGetter{shifts: map[int64]*models.Shift{2: target}}, &fakeStudentLocker{}, allocs, &fakeCapacity{})

	req, err := svc.Submit(context.Background(), 100, 2)
	require.NoError(t, err)
	require.NotNil(t, req.CurrentShiftID)
	require.Equal(t, int64(1), *req.CurrentShiftID)
	require.Equal(t, models.RequestPending, req.Status)
}
