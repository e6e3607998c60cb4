package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin is true for admin and super_admin.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// User represents a user in the system
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"is_active"`
	CollegeID    *string    `json:"college_id,omitempty"`
	ProgramID    *string    `json:"program_id,omitempty"`
	Year         *int       `json:"year,omitempty"`
	Semester     *int       `json:"semester,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

type RegisterInput struct {
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Password  string  `json:"password"`
	Role      Role    `json:"role"`
	CollegeID *string `json:"college_id,omitempty"`
	ProgramID *string `json:"program_id,omitempty"`
	Year      *int    `json:"year,omitempty"`
	Semester  *int    `json:"semester,omitempty"`
}

// Validate checks the fields a registration needs.
func (in *RegisterInput) Validate() error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" {
		return &ValidationError{Field: "email", Message: "is required"}
	}
	parts := strings.Split(in.Email, "@")
	if len(parts) != 2 || parts[0] == "" || !strings.Contains(parts[1], ".") ||
		strings.HasPrefix(parts[1], ".") || strings.HasSuffix(parts[1], ".") {
		return &ValidationError{Field: "email", Message: "is not a valid address"}
	}
	if in.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if len(in.Password) < 8 {
		return &ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}
	if in.Role == "" {
		in.Role = RoleStudent
	}
	if !in.Role.Valid() {
		return &ValidationError{Field: "role", Message: "is not a known role"}
	}
	if in.Semester != nil && (*in.Semester < 1 || *in.Semester > 12) {
		return &ValidationError{Field: "semester", Message: "must be between 1 and 12"}
	}
	return nil
}

// AuthClaims is the verified content of an access token.
type AuthClaims struct {
	UserID string
	Email  string
	Role   Role
}

type AuthResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user"`
}
