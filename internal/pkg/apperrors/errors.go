package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Entity errors
var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrShiftNotFound   = errors.New("shift not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrRequestNotFound = errors.New("shift request not found")
	ErrUserNotFound    = errors.New("user not found")

	ErrCourseAlreadyExists  = errors.New("course with this name or abbreviation already exists")
	ErrStudentAlreadyExists = errors.New("student with this number already exists")
	ErrEmailAlreadyExists   = errors.New("email already exists")
)

// Allocation and request workflow errors
var (
	// ErrInvalidRequest covers malformed submissions and duplicate pending
	// requests for the same target shift.
	ErrInvalidRequest = errors.New("invalid shift request")

	// ErrShiftFull is returned when the target shift has no free seat at
	// resolution time. The request stays Pending.
	ErrShiftFull = errors.New("shift is full")

	// ErrScheduleConflict is returned when the target shift overlaps one of the
	// student's other allocations, or belongs to a course the student already
	// holds a shift for. The request stays Pending.
	ErrScheduleConflict = errors.New("schedule conflict")

	// ErrAlreadyResolved is returned on approve/reject of a request that has
	// already left the Pending state.
	ErrAlreadyResolved = errors.New("shift request already resolved")

	// ErrSeatNotReserved signals a release of a seat that was never reserved.
	// The release is a no-op; the caller gets this so the logic error is visible.
	ErrSeatNotReserved = errors.New("seat was not reserved")
)

// Shift creation errors (room and shift-type rules)
var (
	ErrRoomOccupied        = errors.New("room is already occupied at this time")
	ErrTheoreticalLimit    = errors.New("course already has the maximum number of theoretical shifts")
	ErrShiftHasAllocations = errors.New("shift has allocations and cannot be deleted")
)

// Publication errors
var (
	// ErrScheduleNotPublished gates student reads while the schedule is Draft.
	ErrScheduleNotPublished = errors.New("schedule not yet available")
)

// Store errors
var (
	// ErrTransientStore wraps timeouts and connection failures from the entity
	// store. It is the only error kind eligible for caller-driven retry.
	ErrTransientStore = errors.New("transient store failure")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
