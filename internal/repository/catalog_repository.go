package repository

import (
	"context"
	"database/sql"
	"fmt"

	"patshala-server/internal/domain"
)

const (
	collegeColumns = `id, name, short_name, description, icon, created_at`
	programColumns = `id, college_id, name, short_name, duration, description, total_credits`
	subjectColumns = `id, program_id, semester, name, code, credits, description`
)

// CollegeRepository implements domain.CollegeRepository
type CollegeRepository struct {
	db *sql.DB
}

func NewCollegeRepository(db *sql.DB) domain.CollegeRepository {
	return &CollegeRepository{db: db}
}

func scanCollege(row rowScanner) (*domain.College, error) {
	var (
		c           domain.College
		description sql.NullString
		icon        sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &c.ShortName, &description, &icon, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Description = stringPtr(description)
	c.Icon = stringPtr(icon)
	return &c, nil
}

func (r *CollegeRepository) Create(ctx context.Context, c *domain.College) error {
	_, err := r.db.ExecContext(ctx, `
		insert into colleges (id, name, short_name, description, icon, created_at)
		values ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.Name, c.ShortName, c.Description, c.Icon, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert college: %w", mapError(err, domain.ErrCollegeNotFound))
	}
	return nil
}

func (r *CollegeRepository) GetByID(ctx context.Context, id string) (*domain.College, error) {
	row := r.db.QueryRowContext(ctx, `select `+collegeColumns+` from colleges where id = $1`, id)
	c, err := scanCollege(row)
	if err != nil {
		return nil, mapError(err, domain.ErrCollegeNotFound)
	}
	return c, nil
}

func (r *CollegeRepository) List(ctx context.Context) ([]*domain.College, error) {
	rows, err := r.db.QueryContext(ctx, `select `+collegeColumns+` from colleges order by name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.College, 0)
	for rows.Next() {
		c, err := scanCollege(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// ProgramRepository implements domain.ProgramRepository
type ProgramRepository struct {
	db *sql.DB
}

func NewProgramRepository(db *sql.DB) domain.ProgramRepository {
	return &ProgramRepository{db: db}
}

func scanProgram(row rowScanner) (*domain.Program, error) {
	var (
		p            domain.Program
		description  sql.NullString
		totalCredits sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.CollegeID, &p.Name, &p.ShortName, &p.Duration, &description, &totalCredits); err != nil {
		return nil, err
	}
	p.Description = stringPtr(description)
	p.TotalCredits = intPtr(totalCredits)
	return &p, nil
}

func (r *ProgramRepository) Create(ctx context.Context, p *domain.Program) error {
	_, err := r.db.ExecContext(ctx, `
		insert into programs (id, college_id, name, short_name, duration, description, total_credits)
		values ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.CollegeID, p.Name, p.ShortName, p.Duration, p.Description, p.TotalCredits)
	if err != nil {
		return fmt.Errorf("insert program: %w", mapError(err, domain.ErrProgramNotFound))
	}
	return nil
}

func (r *ProgramRepository) GetByID(ctx context.Context, id string) (*domain.Program, error) {
	row := r.db.QueryRowContext(ctx, `select `+programColumns+` from programs where id = $1`, id)
	p, err := scanProgram(row)
	if err != nil {
		return nil, mapError(err, domain.ErrProgramNotFound)
	}
	return p, nil
}

// List returns all programs, or those of one college when collegeID is set.
func (r *ProgramRepository) List(ctx context.Context, collegeID string) ([]*domain.Program, error) {
	rows, err := r.db.QueryContext(ctx, `
		select `+programColumns+` from programs
		where ($1 = '' or college_id::text = $1)
		order by name
	`, collegeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Program, 0)
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// SubjectRepository implements domain.SubjectRepository
type SubjectRepository struct {
	db *sql.DB
}

func NewSubjectRepository(db *sql.DB) domain.SubjectRepository {
	return &SubjectRepository{db: db}
}

func scanSubject(row rowScanner) (*domain.Subject, error) {
	var (
		s           domain.Subject
		description sql.NullString
	)
	if err := row.Scan(&s.ID, &s.ProgramID, &s.Semester, &s.Name, &s.Code, &s.Credits, &description); err != nil {
		return nil, err
	}
	s.Description = stringPtr(description)
	return &s, nil
}

func (r *SubjectRepository) Create(ctx context.Context, s *domain.Subject) error {
	_, err := r.db.ExecContext(ctx, `
		insert into subjects (id, program_id, semester, name, code, credits, description)
		values ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.ProgramID, s.Semester, s.Name, s.Code, s.Credits, s.Description)
	if err != nil {
		return fmt.Errorf("insert subject: %w", mapError(err, domain.ErrSubjectNotFound))
	}
	return nil
}

func (r *SubjectRepository) GetByID(ctx context.Context, id string) (*domain.Subject, error) {
	row := r.db.QueryRowContext(ctx, `select `+subjectColumns+` from subjects where id = $1`, id)
	s, err := scanSubject(row)
	if err != nil {
		return nil, mapError(err, domain.ErrSubjectNotFound)
	}
	return s, nil
}

func (r *SubjectRepository) List(ctx context.Context, programID string) ([]*domain.Subject, error) {
	rows, err := r.db.QueryContext(ctx, `
		select `+subjectColumns+` from subjects
		where ($1 = '' or program_id::text = $1)
		order by semester, code
	`, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Subject, 0)
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *SubjectRepository) Lineage(ctx context.Context, subjectID string) (*domain.College, *domain.Program, *domain.Subject, error) {
	row := r.db.QueryRowContext(ctx, `
		select s.id, s.program_id, s.semester, s.name, s.code, s.credits, s.description,
		       p.id, p.college_id, p.name, p.short_name, p.duration, p.description, p.total_credits,
		       c.id, c.name, c.short_name, c.description, c.icon, c.created_at
		from subjects s
		join programs p on p.id = s.program_id
		join colleges c on c.id = p.college_id
		where s.id = $1
	`, subjectID)

	var (
		s                          domain.Subject
		p                          domain.Program
		c                          domain.College
		sDesc, pDesc, cDesc, cIcon sql.NullString
		pCredits                   sql.NullInt64
	)
	err := row.Scan(
		&s.ID, &s.ProgramID, &s.Semester, &s.Name, &s.Code, &s.Credits, &sDesc,
		&p.ID, &p.CollegeID, &p.Name, &p.ShortName, &p.Duration, &pDesc, &pCredits,
		&c.ID, &c.Name, &c.ShortName, &cDesc, &cIcon, &c.CreatedAt,
	)
	if err != nil {
		return nil, nil, nil, mapError(err, domain.ErrSubjectNotFound)
	}
	s.Description = stringPtr(sDesc)
	p.Description = stringPtr(pDesc)
	p.TotalCredits = intPtr(pCredits)
	c.Description = stringPtr(cDesc)
	c.Icon = stringPtr(cIcon)
	return &c, &p, &s, nil
}
