package handler

import (
	"net/http"

	"patshala-server/internal/domain"
	apperrors "patshala-server/pkg/errors"

	"github.com/gorilla/mux"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	base
	authService domain.AuthService
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService domain.AuthService, logger domain.Logger, debug bool) *AuthHandler {
	return &AuthHandler{
		base:        base{logger: logger, debug: debug},
		authService: authService,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input domain.RegisterInput
	if err := h.decodeJSON(r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.authService.Register(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := h.decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	if body.Email == "" || body.Password == "" {
		h.writeError(w, r, apperrors.NewValidationError("Email and password are required"))
		return
	}

	result, err := h.authService.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// Me returns the current user's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r)
	if !ok {
		h.writeError(w, r, apperrors.NewUnauthorizedError("User not found in context"))
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), claims.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

// CreateAdmin creates an admin or super_admin account for a super_admin caller.
func (h *AuthHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r)
	if !ok {
		h.writeError(w, r, apperrors.NewUnauthorizedError("User not found in context"))
		return
	}

	var input domain.RegisterInput
	if err := h.decodeJSON(r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.authService.CreateAdmin(r.Context(), claims.UserID, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context(), domain.Role(r.URL.Query().Get("role")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, users)
}

func (h *AuthHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r)
	if !ok {
		h.writeError(w, r, apperrors.NewUnauthorizedError("User not found in context"))
		return
	}

	user, err := h.authService.ToggleActive(r.Context(), claims.UserID, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}
