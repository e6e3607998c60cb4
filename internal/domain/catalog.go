package domain

import (
	"strings"
	"time"
)

// College is the top of the classification hierarchy.
type College struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ShortName   string    `json:"short_name"`
	Description *string   `json:"description,omitempty"`
	Icon        *string   `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Program belongs to a College.
type Program struct {
	ID           string  `json:"id"`
	CollegeID    string  `json:"college_id"`
	Name         string  `json:"name"`
	ShortName    string  `json:"short_name"`
	Duration     int     `json:"duration"`
	Description  *string `json:"description,omitempty"`
	TotalCredits *int    `json:"total_credits,omitempty"`
}

// Subject belongs to a Program.
type Subject struct {
	ID          string  `json:"id"`
	ProgramID   string  `json:"program_id"`
	Semester    int     `json:"semester"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Credits     int     `json:"credits"`
	Description *string `json:"description,omitempty"`
}

type CollegeInput struct {
	Name        string  `json:"name"`
	ShortName   string  `json:"short_name"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

func (in *CollegeInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.ShortName = strings.TrimSpace(in.ShortName)
	if in.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if in.ShortName == "" {
		return &ValidationError{Field: "short_name", Message: "is required"}
	}
	return nil
}

type ProgramInput struct {
	CollegeID    string  `json:"college_id"`
	Name         string  `json:"name"`
	ShortName    string  `json:"short_name"`
	Duration     int     `json:"duration"`
	Description  *string `json:"description,omitempty"`
	TotalCredits *int    `json:"total_credits,omitempty"`
}

func (in *ProgramInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.ShortName = strings.TrimSpace(in.ShortName)
	if in.CollegeID == "" {
		return &ValidationError{Field: "college_id", Message: "is required"}
	}
	if in.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if in.ShortName == "" {
		return &ValidationError{Field: "short_name", Message: "is required"}
	}
	if in.Duration == 0 {
		in.Duration = 4
	}
	if in.Duration < 1 {
		return &ValidationError{Field: "duration", Message: "must be positive"}
	}
	return nil
}

type SubjectInput struct {
	ProgramID   string  `json:"program_id"`
	Semester    int     `json:"semester"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Credits     int     `json:"credits"`
	Description *string `json:"description,omitempty"`
}

func (in *SubjectInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	if in.ProgramID == "" {
		return &ValidationError{Field: "program_id", Message: "is required"}
	}
	if in.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if in.Code == "" {
		return &ValidationError{Field: "code", Message: "is required"}
	}
	if in.Semester < 1 || in.Semester > 12 {
		return &ValidationError{Field: "semester", Message: "must be between 1 and 12"}
	}
	if in.Credits == 0 {
		in.Credits = 3
	}
	return nil
}

// Stats are the counters shown on the landing page.
type Stats struct {
	TotalNotes     int64 `json:"total_notes"`
	TotalStudents  int64 `json:"total_students"`
	TotalSubjects  int64 `json:"total_subjects"`
	TotalSummaries int64 `json:"total_summaries"`
	TotalChats     int64 `json:"total_ai_responses"`
}
