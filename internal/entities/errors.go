package entities

import "errors"

// Error kinds. Every error returned by the store wraps exactly one of these,
// so callers can branch with errors.Is without knowing the specific cause.
var (
	ErrValidation     = errors.New("validation failed")
	ErrAuthentication = errors.New("authentication required")
	ErrAuthorization  = errors.New("not authorized")
	ErrConflict       = errors.New("conflict")
	ErrNotFound       = errors.New("not found")
	ErrPersistence    = errors.New("persistence failed")
)

var (
	ErrInvalidSnapshot  = NewError(ErrValidation, "invalid snapshot: users, books and reviews must be arrays")
	ErrSnapshotNotFound = NewError(ErrNotFound, "no snapshot stored")
)

type kindError struct {
	kind error
	msg  string
}

// NewError returns an error with the given message that matches kind under
// errors.Is.
func NewError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }
