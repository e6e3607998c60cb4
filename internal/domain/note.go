package domain

import (
	"strings"
	"time"
)

type NoteStatus string

const (
	NoteStatusProcessing NoteStatus = "processing"
	NoteStatusReady      NoteStatus = "ready"
	NoteStatusFailed     NoteStatus = "failed"
)

// Note is the metadata of an uploaded document.
type Note struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	SubjectID   string     `json:"subject_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	FileURL     string     `json:"file_url"`
	StoragePath string     `json:"-"`
	FileName    string     `json:"file_name"`
	FileSize    int64      `json:"file_size"`
	PageCount   int        `json:"page_count"`
	Status      NoteStatus `json:"status"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
}

type NoteUploadInput struct {
	Title       string
	SubjectID   string
	Description *string
	Tags        []string
	FileName    string
	FileSize    int64
}

func (in *NoteUploadInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if in.SubjectID == "" {
		return &ValidationError{Field: "subject_id", Message: "is required"}
	}
	return nil
}

// ParseTags splits a comma separated tag list, dropping blanks.
func ParseTags(raw string) []string {
	tags := make([]string, 0)
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

type NoteFilter struct {
	SubjectID string
	Limit     int
}

// Summary is a persisted summarization result for a Note.
type Summary struct {
	ID          string    `json:"id"`
	NoteID      string    `json:"note_id"`
	UserID      *string   `json:"user_id,omitempty"`
	Filename    string    `json:"filename"`
	Platform    Platform  `json:"platform"`
	Model       string    `json:"model"`
	SummaryText string    `json:"summary"`
	WordCount   int       `json:"word_count"`
	CreatedAt   time.Time `json:"created_at"`
}
