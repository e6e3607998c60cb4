package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"patshala-server/internal/domain"
	apperrors "patshala-server/pkg/errors"

	"github.com/google/uuid"
)

const noteContentType = "application/pdf"

type noteService struct {
	notes      domain.NoteRepository
	summaries  domain.SummaryRepository
	chatLogs   domain.ChatLogRepository
	subjects   domain.SubjectRepository
	storage    domain.FileStorage
	processor  domain.PDFProcessor
	summarizer domain.Summarizer
	assistant  domain.Assistant
	logger     domain.Logger
}

func NewNoteService(
	notes domain.NoteRepository,
	summaries domain.SummaryRepository,
	chatLogs domain.ChatLogRepository,
	subjects domain.SubjectRepository,
	storage domain.FileStorage,
	processor domain.PDFProcessor,
	summarizer domain.Summarizer,
	assistant domain.Assistant,
	logger domain.Logger,
) *noteService {
	return &noteService{
		notes:      notes,
		summaries:  summaries,
		chatLogs:   chatLogs,
		subjects:   subjects,
		storage:    storage,
		processor:  processor,
		summarizer: summarizer,
		assistant:  assistant,
		logger:     logger,
	}
}

// Upload stores the file under its subject's path and records a ready note.
func (s *noteService) Upload(ctx context.Context, userID string, input domain.NoteUploadInput, file io.Reader) (*domain.Note, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	college, program, subject, err := s.subjects.Lineage(ctx, input.SubjectID)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, &domain.ValidationError{Field: "file", Message: "is empty"}
	}

	pageCount := 0
	if extracted, err := s.processor.ExtractText(ctx, data); err != nil {
		s.logger.Warn("Uploaded note has no extractable text", "subject_id", subject.ID, "error", err)
	} else {
		pageCount = extracted.PageCount
	}

	storagePath := NotePath(college.ShortName, program.ShortName, subject.Code, input.FileName)
	fileURL, err := s.storage.Save(ctx, storagePath, bytes.NewReader(data), noteContentType)
	if err != nil {
		s.logger.Error("Failed to store note file", err, "path", storagePath)
		return nil, apperrors.NewInternalError("Upload failed", err)
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}
	note := &domain.Note{
		ID:          uuid.NewString(),
		UserID:      userID,
		SubjectID:   subject.ID,
		Title:       input.Title,
		Description: input.Description,
		FileURL:     fileURL,
		StoragePath: storagePath,
		FileName:    input.FileName,
		FileSize:    int64(len(data)),
		PageCount:   pageCount,
		Status:      domain.NoteStatusReady,
		Tags:        tags,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.notes.Create(ctx, note); err != nil {
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("Orphaned note file", "path", storagePath, "error", delErr)
		}
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.logger.Info("Note uploaded",
		"note_id", note.ID,
		"user_id", userID,
		"size", note.FileSize,
		"pages", note.PageCount,
		"path", storagePath,
	)
	return note, nil
}

func (s *noteService) Get(ctx context.Context, id string) (*domain.Note, error) {
	return s.notes.GetByID(ctx, id)
}

// List returns ready notes, newest first. Limit must be 0 or within 1..100.
func (s *noteService) List(ctx context.Context, filter domain.NoteFilter) ([]*domain.Note, error) {
	if filter.Limit < 0 || filter.Limit > 100 {
		return nil, &domain.ValidationError{Field: "limit", Message: "must be between 1 and 100"}
	}
	return s.notes.List(ctx, filter)
}

// Summarize reads the stored file back, extracts it and records the summary.
func (s *noteService) Summarize(ctx context.Context, noteID string, userID *string, platform domain.Platform) (*domain.Summary, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	extracted, err := s.noteText(ctx, note)
	if err != nil {
		return nil, err
	}

	result, err := s.summarizer.Summarize(ctx, extracted.Text, platform)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, note, userID, note.FileName, result)
}

// RecordSummary persists a result produced outside the note flow.
func (s *noteService) RecordSummary(ctx context.Context, noteID string, userID *string, filename string, result *domain.SummaryResult) (*domain.Summary, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, note, userID, filename, result)
}

func (s *noteService) record(ctx context.Context, note *domain.Note, userID *string, filename string, result *domain.SummaryResult) (*domain.Summary, error) {
	summary := &domain.Summary{
		ID:          uuid.NewString(),
		NoteID:      note.ID,
		UserID:      userID,
		Filename:    filename,
		Platform:    result.Platform,
		Model:       result.Model,
		SummaryText: result.Summary,
		WordCount:   countWords(result.Summary),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.summaries.Create(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to save summary: %w", err)
	}
	s.logger.Info("Summary recorded", "summary_id", summary.ID, "note_id", note.ID, "platform", summary.Platform)
	return summary, nil
}

func (s *noteService) ListSummaries(ctx context.Context, noteID string) ([]*domain.Summary, error) {
	if _, err := s.notes.GetByID(ctx, noteID); err != nil {
		if errors.Is(err, domain.ErrNoteNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load note: %w", err)
	}
	return s.summaries.ListByNote(ctx, noteID)
}

func (s *noteService) noteText(ctx context.Context, note *domain.Note) (*domain.ExtractedText, error) {
	if note.StoragePath == "" {
		return nil, apperrors.NewValidationError("This note has no uploaded file")
	}
	data, err := s.storage.Read(ctx, note.StoragePath)
	if err != nil {
		s.logger.Error("Failed to read note file", err, "note_id", note.ID, "path", note.StoragePath)
		return nil, apperrors.NewInternalError("Could not load note file", err)
	}
	return s.processor.ExtractText(ctx, data)
}

// Chat answers a question about a note's text and logs that it was asked.
func (s *noteService) Chat(ctx context.Context, noteID, userID string, input domain.ChatInput) (*domain.ChatAnswer, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	extracted, err := s.noteText(ctx, note)
	if err != nil {
		return nil, err
	}

	answer, err := s.assistant.Answer(ctx, note.Title, extracted.Text, input.Message, input.Platform)
	if err != nil {
		return nil, err
	}

	entry := &domain.ChatLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		NoteID:    note.ID,
		Question:  input.Message,
		Platform:  answer.Platform,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.chatLogs.Create(ctx, entry); err != nil {
		s.logger.Warn("Failed to log chat", "note_id", note.ID, "user_id", userID, "error", err)
	}
	return answer, nil
}
