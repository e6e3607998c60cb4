package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"patshala-server/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type tokenClaims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	users  domain.UserRepository
	secret []byte
	expiry time.Duration
	cost   int
	now    func() time.Time
	logger domain.Logger
}

func NewAuthService(
	users domain.UserRepository,
	secret string,
	expiry time.Duration,
	logger domain.Logger,
) *authService {
	return &authService{
		users:  users,
		secret: []byte(secret),
		expiry: expiry,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
		logger: logger,
	}
}

// Register creates a student account and signs it in.
func (s *authService) Register(ctx context.Context, input domain.RegisterInput) (*domain.AuthResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.Role != domain.RoleStudent {
		return nil, fmt.Errorf("only students can self-register: %w", domain.ErrAccessDenied)
	}

	user, err := s.createUser(ctx, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)
	return s.issue(user)
}

func (s *authService) createUser(ctx context.Context, input domain.RegisterInput) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hash),
		Role:         input.Role,
		IsActive:     true,
		CollegeID:    input.CollegeID,
		ProgramID:    input.ProgramID,
		Year:         input.Year,
		Semester:     input.Semester,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// CreateAdmin creates an admin or super_admin account. The route is guarded
// by RequireRole(super_admin).
func (s *authService) CreateAdmin(ctx context.Context, creatorID string, input domain.RegisterInput) (*domain.User, error) {
	if input.Role == "" {
		input.Role = domain.RoleAdmin
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if !input.Role.IsAdmin() {
		return nil, &domain.ValidationError{Field: "role", Message: "must be admin or super_admin"}
	}

	user, err := s.createUser(ctx, input)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Admin created", "user_id", user.ID, "role", user.Role, "created_by", creatorID)
	return user, nil
}

// EnsureSuperAdmin creates the first super_admin. It does nothing once any
// super_admin exists, so it is safe to run on every start.
func (s *authService) EnsureSuperAdmin(ctx context.Context, email, password, name string) (*domain.User, bool, error) {
	existing, err := s.users.List(ctx, domain.RoleSuperAdmin)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up super admins: %w", err)
	}
	if len(existing) > 0 {
		return existing[0], false, nil
	}

	input := domain.RegisterInput{Email: email, Name: name, Password: password, Role: domain.RoleSuperAdmin}
	if err := input.Validate(); err != nil {
		return nil, false, err
	}
	user, err := s.createUser(ctx, input)
	if err != nil {
		return nil, false, err
	}
	s.logger.Info("Super admin seeded", "user_id", user.ID, "email", user.Email)
	return user, true, nil
}

func (s *authService) ListUsers(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	if role != "" && !role.Valid() {
		return nil, &domain.ValidationError{Field: "role", Message: "is not a known role"}
	}
	return s.users.List(ctx, role)
}

// ToggleActive flips is_active on another non super_admin account.
func (s *authService) ToggleActive(ctx context.Context, actorID, targetID string) (*domain.User, error) {
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role == domain.RoleSuperAdmin {
		return nil, fmt.Errorf("cannot disable a super admin: %w", domain.ErrAccessDenied)
	}
	if target.ID == actorID {
		return nil, &domain.ValidationError{Message: "Cannot disable yourself"}
	}

	active := !target.IsActive
	if err := s.users.SetActive(ctx, target.ID, active); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	target.IsActive = active
	s.logger.Info("User active state changed", "user_id", target.ID, "active", active, "changed_by", actorID)
	return target, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrAccessDenied)
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("Failed to record last login", "user_id", user.ID, "error", err)
	} else {
		user.LastLogin = &now
	}
	return s.issue(user)
}

// ParseToken verifies an HS256 access token.
func (s *authService) ParseToken(token string) (*domain.AuthClaims, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}
	return &domain.AuthClaims{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrAccessDenied)
	}
	return user, nil
}

func (s *authService) issue(user *domain.User) (*domain.AuthResult, error) {
	now := s.now()
	claims := tokenClaims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &domain.AuthResult{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.expiry.Seconds()),
		User:        user,
	}, nil
}
