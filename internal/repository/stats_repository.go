package repository

import (
	"context"
	"database/sql"

	"patshala-server/internal/domain"
)

// StatsRepository implements domain.StatsRepository
type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) domain.StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) count(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *StatsRepository) CountReadyNotes(ctx context.Context) (int64, error) {
	return r.count(ctx, `select count(*) from notes where status = 'ready'`)
}

func (r *StatsRepository) CountStudents(ctx context.Context) (int64, error) {
	return r.count(ctx, `select count(*) from users where role = 'student'`)
}

func (r *StatsRepository) CountSubjects(ctx context.Context) (int64, error) {
	return r.count(ctx, `select count(*) from subjects`)
}

func (r *StatsRepository) CountSummaries(ctx context.Context) (int64, error) {
	return r.count(ctx, `select count(*) from summaries`)
}

func (r *StatsRepository) CountChats(ctx context.Context) (int64, error) {
	return r.count(ctx, `select count(*) from ai_chat_logs`)
}
