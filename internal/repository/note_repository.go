package repository

import (
	"context"
	"database/sql"
	"fmt"

	"patshala-server/internal/domain"
)

const noteColumns = `id, user_id, subject_id, title, description, file_url, storage_path,
	file_name, file_size, page_count, status, coalesce(array_to_json(tags)::text, '[]'), created_at`

// NoteRepository implements domain.NoteRepository
type NoteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) domain.NoteRepository {
	return &NoteRepository{db: db}
}

func scanNote(row rowScanner) (*domain.Note, error) {
	var (
		n           domain.Note
		description sql.NullString
		fileURL     sql.NullString
		storagePath sql.NullString
		fileName    sql.NullString
		fileSize    sql.NullInt64
		pageCount   sql.NullInt64
		status      string
		tags        string
	)
	if err := row.Scan(
		&n.ID, &n.UserID, &n.SubjectID, &n.Title, &description, &fileURL, &storagePath,
		&fileName, &fileSize, &pageCount, &status, &tags, &n.CreatedAt,
	); err != nil {
		return nil, err
	}

	parsed, err := parseTags(tags)
	if err != nil {
		return nil, fmt.Errorf("decode tags of note %s: %w", n.ID, err)
	}
	n.Description = stringPtr(description)
	n.FileURL = fileURL.String
	n.StoragePath = storagePath.String
	n.FileName = fileName.String
	n.FileSize = fileSize.Int64
	n.PageCount = int(pageCount.Int64)
	n.Status = domain.NoteStatus(status)
	n.Tags = parsed
	return &n, nil
}

func (r *NoteRepository) Create(ctx context.Context, n *domain.Note) error {
	_, err := r.db.ExecContext(ctx, `
		insert into notes (id, user_id, subject_id, title, description, file_url, storage_path,
			file_name, file_size, page_count, status, tags, created_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			array(select json_array_elements_text($12::json)), $13)
	`, n.ID, n.UserID, n.SubjectID, n.Title, n.Description, n.FileURL, n.StoragePath,
		n.FileName, n.FileSize, n.PageCount, string(n.Status), tagsJSON(n.Tags), n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert note: %w", mapError(err, domain.ErrNoteNotFound))
	}
	return nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	row := r.db.QueryRowContext(ctx, `select `+noteColumns+` from notes where id = $1`, id)
	n, err := scanNote(row)
	if err != nil {
		return nil, mapError(err, domain.ErrNoteNotFound)
	}
	return n, nil
}

// List returns ready notes, newest first. A zero limit means no limit.
func (r *NoteRepository) List(ctx context.Context, filter domain.NoteFilter) ([]*domain.Note, error) {
	var limit interface{}
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	rows, err := r.db.QueryContext(ctx, `
		select `+noteColumns+` from notes
		where status = 'ready' and ($1 = '' or subject_id::text = $1)
		order by created_at desc
		limit $2
	`, filter.SubjectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

const summaryColumns = `id, note_id, user_id, filename, platform, model, summary_text, word_count, created_at`

// SummaryRepository implements domain.SummaryRepository
type SummaryRepository struct {
	db *sql.DB
}

func NewSummaryRepository(db *sql.DB) domain.SummaryRepository {
	return &SummaryRepository{db: db}
}

func scanSummary(row rowScanner) (*domain.Summary, error) {
	var (
		s         domain.Summary
		userID    sql.NullString
		platform  string
		wordCount sql.NullInt64
	)
	if err := row.Scan(
		&s.ID, &s.NoteID, &userID, &s.Filename, &platform, &s.Model, &s.SummaryText, &wordCount, &s.CreatedAt,
	); err != nil {
		return nil, err
	}
	s.UserID = stringPtr(userID)
	s.Platform = domain.Platform(platform)
	s.WordCount = int(wordCount.Int64)
	return &s, nil
}

func (r *SummaryRepository) Create(ctx context.Context, s *domain.Summary) error {
	_, err := r.db.ExecContext(ctx, `
		insert into summaries (id, note_id, user_id, filename, platform, model, summary_text, word_count, created_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, s.ID, s.NoteID, s.UserID, s.Filename, string(s.Platform), s.Model, s.SummaryText, s.WordCount, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert summary: %w", mapError(err, domain.ErrNoteNotFound))
	}
	return nil
}

func (r *SummaryRepository) ListByNote(ctx context.Context, noteID string) ([]*domain.Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
		select `+summaryColumns+` from summaries
		where note_id = $1
		order by created_at desc
	`, noteID)
	if err != nil {
		return nil, mapError(err, domain.ErrNoteNotFound)
	}
	defer rows.Close()

	result := make([]*domain.Summary, 0)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// ChatLogRepository implements domain.ChatLogRepository
type ChatLogRepository struct {
	db *sql.DB
}

func NewChatLogRepository(db *sql.DB) domain.ChatLogRepository {
	return &ChatLogRepository{db: db}
}

func (r *ChatLogRepository) Create(ctx context.Context, l *domain.ChatLog) error {
	_, err := r.db.ExecContext(ctx, `
		insert into ai_chat_logs (id, user_id, note_id, question, platform, created_at)
		values ($1, $2, $3, $4, $5, $6)
	`, l.ID, l.UserID, l.NoteID, l.Question, string(l.Platform), l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert chat log: %w", mapError(err, domain.ErrNoteNotFound))
	}
	return nil
}
