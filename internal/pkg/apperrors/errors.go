package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Catalog errors
var (
	ErrTermNotFound       = errors.New("term not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrInstructorNotFound = errors.New("instructor not found")
	ErrSectionNotFound    = errors.New("section not found")
)

// Synchronization errors
var (
	// ErrSyncSkipped signals that a sync phase found no usable feed and left
	// the store untouched. Callers log it, they never escalate it.
	ErrSyncSkipped = errors.New("sync skipped: feed unavailable or empty")

	// ErrDataFormat marks a malformed value inside an otherwise well-shaped
	// feed record (bad timestamp, non-numeric CRN).
	ErrDataFormat = errors.New("malformed feed data")
)

// NewDataFormatError creates a new custom error for a malformed feed value
func NewDataFormatError(message string) error {
	return &CustomError{
		Err:     ErrDataFormat,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
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
