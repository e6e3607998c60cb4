package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"patshala-server/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type catalogService struct {
	colleges domain.CollegeRepository
	programs domain.ProgramRepository
	subjects domain.SubjectRepository
	stats    domain.StatsRepository
	logger   domain.Logger
}

func NewCatalogService(
	colleges domain.CollegeRepository,
	programs domain.ProgramRepository,
	subjects domain.SubjectRepository,
	stats domain.StatsRepository,
	logger domain.Logger,
) *catalogService {
	return &catalogService{
		colleges: colleges,
		programs: programs,
		subjects: subjects,
		stats:    stats,
		logger:   logger,
	}
}

func (s *catalogService) CreateCollege(ctx context.Context, input domain.CollegeInput) (*domain.College, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	college := &domain.College{
		ID:          uuid.NewString(),
		Name:        input.Name,
		ShortName:   input.ShortName,
		Description: input.Description,
		Icon:        input.Icon,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.colleges.Create(ctx, college); err != nil {
		return nil, fmt.Errorf("failed to create college: %w", err)
	}
	s.logger.Info("College created", "college_id", college.ID, "name", college.Name)
	return college, nil
}

func (s *catalogService) ListColleges(ctx context.Context) ([]*domain.College, error) {
	return s.colleges.List(ctx)
}

func (s *catalogService) GetCollege(ctx context.Context, id string) (*domain.College, error) {
	return s.colleges.GetByID(ctx, id)
}

// CreateProgram requires the parent college to exist.
func (s *catalogService) CreateProgram(ctx context.Context, input domain.ProgramInput) (*domain.Program, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.colleges.GetByID(ctx, input.CollegeID); err != nil {
		return nil, err
	}
	program := &domain.Program{
		ID:           uuid.NewString(),
		CollegeID:    input.CollegeID,
		Name:         input.Name,
		ShortName:    input.ShortName,
		Duration:     input.Duration,
		Description:  input.Description,
		TotalCredits: input.TotalCredits,
	}
	if err := s.programs.Create(ctx, program); err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}
	s.logger.Info("Program created", "program_id", program.ID, "college_id", program.CollegeID)
	return program, nil
}

func (s *catalogService) ListPrograms(ctx context.Context, collegeID string) ([]*domain.Program, error) {
	return s.programs.List(ctx, collegeID)
}

func (s *catalogService) GetProgram(ctx context.Context, id string) (*domain.Program, error) {
	return s.programs.GetByID(ctx, id)
}

// CreateSubject requires the parent program to exist. Subject codes are unique.
func (s *catalogService) CreateSubject(ctx context.Context, input domain.SubjectInput) (*domain.Subject, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.programs.GetByID(ctx, input.ProgramID); err != nil {
		return nil, err
	}
	subject := &domain.Subject{
		ID:          uuid.NewString(),
		ProgramID:   input.ProgramID,
		Semester:    input.Semester,
		Name:        input.Name,
		Code:        input.Code,
		Credits:     input.Credits,
		Description: input.Description,
	}
	if err := s.subjects.Create(ctx, subject); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("subject code %s: %w", subject.Code, domain.ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}
	s.logger.Info("Subject created", "subject_id", subject.ID, "code", subject.Code)
	return subject, nil
}

func (s *catalogService) ListSubjects(ctx context.Context, programID string) ([]*domain.Subject, error) {
	return s.subjects.List(ctx, programID)
}

func (s *catalogService) GetSubject(ctx context.Context, id string) (*domain.Subject, error) {
	return s.subjects.GetByID(ctx, id)
}

// Stats runs the counts concurrently.
func (s *catalogService) Stats(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalNotes, err = s.stats.CountReadyNotes(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalStudents, err = s.stats.CountStudents(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalSubjects, err = s.stats.CountSubjects(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalSummaries, err = s.stats.CountSummaries(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalChats, err = s.stats.CountChats(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	return &stats, nil
}
