package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"patshala-server/internal/domain"
	apperrors "patshala-server/pkg/errors"
)

type contextKey string

const (
	claimsContextKey contextKey = "claims"
	tokenContextKey  contextKey = "token"
)

// GetClaimsFromContext extracts the authenticated caller from request context
func GetClaimsFromContext(r *http.Request) (*domain.AuthClaims, bool) {
	claims, ok := r.Context().Value(claimsContextKey).(*domain.AuthClaims)
	return claims, ok && claims != nil
}

// GetTokenFromContext extracts the authentication token from request context
func GetTokenFromContext(r *http.Request) (string, bool) {
	token, ok := r.Context().Value(tokenContextKey).(string)
	return token, ok
}

// callerID is the authenticated user id, or nil for anonymous requests.
func callerID(r *http.Request) *string {
	claims, ok := GetClaimsFromContext(r)
	if !ok {
		return nil
	}
	id := claims.UserID
	return &id
}

type errorBody struct {
	Error *apperrors.AppError `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes {"error":{"kind","message","details"}}.
func writeError(w http.ResponseWriter, appErr *apperrors.AppError) {
	if appErr.Type == apperrors.ErrorTypeRateLimited {
		w.Header().Set("Retry-After", strconv.Itoa(60))
	}
	writeJSON(w, appErr.StatusCode, errorBody{Error: appErr})
}

var notFoundErrors = []error{
	domain.ErrUserNotFound,
	domain.ErrCollegeNotFound,
	domain.ErrProgramNotFound,
	domain.ErrSubjectNotFound,
	domain.ErrNoteNotFound,
}

// toAppError maps service errors onto the public error kinds. Unknown errors
// become a generic InternalError; the cause is only exposed in debug mode.
func toAppError(err error, debug bool) *apperrors.AppError {
	if appErr, ok := apperrors.AsAppError(err); ok {
		if appErr.Type != apperrors.ErrorTypeInternal {
			return appErr
		}
		public := &apperrors.AppError{Type: appErr.Type, Message: appErr.Message, StatusCode: appErr.StatusCode}
		if debug && appErr.Cause != nil {
			public.Details = appErr.Cause.Error()
		}
		return public
	}

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return apperrors.NewValidationError(vErr.Error())
	}

	for _, nf := range notFoundErrors {
		if errors.Is(err, nf) {
			return apperrors.NewNotFoundError(capitalize(nf.Error()))
		}
	}

	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		return apperrors.NewConflictError("Email already registered")
	case errors.Is(err, domain.ErrDuplicate):
		return apperrors.NewConflictError(capitalize(err.Error()))
	case errors.Is(err, domain.ErrInvalidCredentials):
		return apperrors.NewUnauthorizedError("Invalid email or password")
	case errors.Is(err, domain.ErrInvalidToken):
		return apperrors.NewUnauthorizedError("Invalid token")
	case errors.Is(err, domain.ErrAccessDenied):
		return apperrors.NewForbiddenError(capitalize(err.Error()))
	case errors.Is(err, domain.ErrInvalidFile):
		return apperrors.NewValidationError(capitalize(err.Error()))
	}

	internal := apperrors.NewInternalError("Internal server error", nil)
	if debug {
		internal.Details = err.Error()
	}
	return internal
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// base carries what every handler needs to answer a request.
type base struct {
	logger domain.Logger
	debug  bool
}

func (b base) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	writeJSON(w, statusCode, data)
}

func (b base) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := toAppError(err, b.debug)
	if appErr.StatusCode >= http.StatusInternalServerError {
		b.logger.Error("Request failed", err, "method", r.Method, "path", r.URL.Path, "kind", appErr.Type)
	} else {
		b.logger.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "kind", appErr.Type, "message", appErr.Message)
	}
	writeError(w, appErr)
}

func (b base) decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.NewValidationError("Invalid request body", err.Error())
	}
	return nil
}
