package domain

import (
	"errors"
	"testing"
)

func TestRegisterInput_Validate(t *testing.T) {
	semester := 14
	tests := []struct {
		name      string
		input     RegisterInput
		wantField string
	}{
		{
			name:  "Valid student",
			input: RegisterInput{Email: " Student@Example.com ", Name: "Asha", Password: "password123"},
		},
		{
			name:      "Missing email",
			input:     RegisterInput{Name: "Asha", Password: "password123"},
			wantField: "email",
		},
		{
			name:      "Invalid email format",
			input:     RegisterInput{Email: "invalid-email", Name: "Asha", Password: "password123"},
			wantField: "email",
		},
		{
			name:      "Email with dotted domain edge",
			input:     RegisterInput{Email: "a@.com", Name: "Asha", Password: "password123"},
			wantField: "email",
		},
		{
			name:      "Short password",
			input:     RegisterInput{Email: "a@b.com", Name: "Asha", Password: "short"},
			wantField: "password",
		},
		{
			name:      "Unknown role",
			input:     RegisterInput{Email: "a@b.com", Name: "Asha", Password: "password123", Role: "moderator"},
			wantField: "role",
		},
		{
			name:      "Semester out of range",
			input:     RegisterInput{Email: "a@b.com", Name: "Asha", Password: "password123", Semester: &semester},
			wantField: "semester",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("expected field %s, got %s", tt.wantField, vErr.Field)
			}
		})
	}
}

func TestRegisterInput_Defaults(t *testing.T) {
	in := RegisterInput{Email: " Student@Example.com ", Name: " Asha ", Password: "password123"}
	if err := in.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Email != "student@example.com" {
		t.Errorf("expected normalized email, got %q", in.Email)
	}
	if in.Role != RoleStudent {
		t.Errorf("expected default role student, got %s", in.Role)
	}
}

func TestRole(t *testing.T) {
	if !RoleAdmin.IsAdmin() || !RoleSuperAdmin.IsAdmin() {
		t.Fatalf("expected admin roles to report IsAdmin")
	}
	if RoleStudent.IsAdmin() {
		t.Fatalf("expected student not to be admin")
	}
	if Role("guest").Valid() {
		t.Fatalf("expected unknown role to be invalid")
	}
}
