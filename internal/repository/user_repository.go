package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"patshala-server/internal/domain"
)

const userColumns = `id, email, name, password_hash, role, is_active,
	college_id, program_id, year, semester, created_at, last_login`

// UserRepository implements domain.UserRepository
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u         domain.User
		role      string
		collegeID sql.NullString
		programID sql.NullString
		year      sql.NullInt64
		semester  sql.NullInt64
		lastLogin sql.NullTime
	)
	if err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &u.IsActive,
		&collegeID, &programID, &year, &semester, &u.CreatedAt, &lastLogin,
	); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.CollegeID = stringPtr(collegeID)
	u.ProgramID = stringPtr(programID)
	u.Year = intPtr(year)
	u.Semester = intPtr(semester)
	u.LastLogin = timePtr(lastLogin)
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		insert into users (id, email, name, password_hash, role, is_active,
			college_id, program_id, year, semester, created_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, user.ID, user.Email, user.Name, user.PasswordHash, string(user.Role), user.IsActive,
		user.CollegeID, user.ProgramID, user.Year, user.Semester, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", mapError(err, domain.ErrUserNotFound))
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `select `+userColumns+` from users where id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, mapError(err, domain.ErrUserNotFound)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `select `+userColumns+` from users where email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		return nil, mapError(err, domain.ErrUserNotFound)
	}
	return user, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `update users set last_login = $1 where id = $2`, at, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List returns users newest first, optionally of one role.
func (r *UserRepository) List(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		select `+userColumns+` from users
		where ($1 = '' or role = $1)
		order by created_at desc
	`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `update users set is_active = $1 where id = $2`, active, id)
	if err != nil {
		return mapError(err, domain.ErrUserNotFound)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
