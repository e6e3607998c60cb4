package domain

import "errors"

// Domain errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCollegeNotFound    = errors.New("college not found")
	ErrProgramNotFound    = errors.New("program not found")
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrNoteNotFound       = errors.New("note not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrDuplicate          = errors.New("record already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidFile        = errors.New("invalid file")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
