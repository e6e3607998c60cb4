package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType is the machine-readable kind carried in every error response.
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "ValidationError"
	ErrorTypeEmptyInput      ErrorType = "EmptyInputError"
	ErrorTypeExtraction      ErrorType = "ExtractionError"
	ErrorTypeProviderAuth    ErrorType = "ProviderAuthError"
	ErrorTypeProviderRequest ErrorType = "ProviderRequestError"
	ErrorTypeNotFound        ErrorType = "NotFound"
	ErrorTypeUnauthorized    ErrorType = "Unauthorized"
	ErrorTypeForbidden       ErrorType = "Forbidden"
	ErrorTypeConflict        ErrorType = "Conflict"
	ErrorTypeRateLimited     ErrorType = "RateLimited"
	ErrorTypeInternal        ErrorType = "InternalError"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"kind"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

func detailOf(details []string) string {
	if len(details) > 0 {
		return details[0]
	}
	return ""
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		Details:    detailOf(details),
		StatusCode: http.StatusBadRequest,
	}
}

// NewEmptyInputError is returned when there is no text to summarize.
func NewEmptyInputError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeEmptyInput,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewExtractionError is returned when a buffer is not a readable PDF or has no text layer.
func NewExtractionError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExtraction,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewProviderAuthError is returned when an LLM provider key is missing or rejected.
func NewProviderAuthError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeProviderAuth,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
		Cause:      cause,
	}
}

// NewProviderRequestError is returned when the upstream LLM call fails.
func NewProviderRequestError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeProviderRequest,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewProviderTimeoutError is a ProviderRequestError reported as a gateway timeout.
func NewProviderTimeoutError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeProviderRequest,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewRateLimitedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeRateLimited,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
