package handler

import (
	"context"
	"io"

	"patshala-server/internal/domain"
)

// Mock logger used by handler package tests.
type MockHandlerLogger struct{}

func NewMockHandlerLogger() domain.Logger {
	return &MockHandlerLogger{}
}

func (l *MockHandlerLogger) Info(msg string, fields ...interface{})             {}
func (l *MockHandlerLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *MockHandlerLogger) Debug(msg string, fields ...interface{})            {}
func (l *MockHandlerLogger) Warn(msg string, fields ...interface{})             {}

type mockAuthService struct {
	claims    *domain.AuthClaims
	user      *domain.User
	err       error
	userErr   error
	lastToken string

	listed    []*domain.User
	createdBy string
	toggleErr error
	actor     string
}

func (m *mockAuthService) Register(ctx context.Context, input domain.RegisterInput) (*domain.AuthResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.Role != domain.RoleStudent {
		return nil, domain.ErrAccessDenied
	}
	return &domain.AuthResult{AccessToken: "token", TokenType: "bearer", User: &domain.User{Email: input.Email, Role: input.Role}}, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if password != "correct-password" {
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.AuthResult{AccessToken: "token", TokenType: "bearer", User: m.user}, nil
}

func (m *mockAuthService) ParseToken(token string) (*domain.AuthClaims, error) {
	m.lastToken = token
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

func (m *mockAuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	if m.userErr != nil {
		return nil, m.userErr
	}
	return m.user, nil
}

func (m *mockAuthService) CreateAdmin(ctx context.Context, creatorID string, input domain.RegisterInput) (*domain.User, error) {
	if input.Role == "" {
		input.Role = domain.RoleAdmin
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if !input.Role.IsAdmin() {
		return nil, &domain.ValidationError{Field: "role", Message: "must be admin or super_admin"}
	}
	m.createdBy = creatorID
	return &domain.User{ID: "admin-new", Email: input.Email, Name: input.Name, Role: input.Role, IsActive: true}, nil
}

func (m *mockAuthService) ListUsers(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	if role != "" && !role.Valid() {
		return nil, &domain.ValidationError{Field: "role", Message: "is not a known role"}
	}
	out := make([]*domain.User, 0, len(m.listed))
	for _, u := range m.listed {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockAuthService) ToggleActive(ctx context.Context, actorID, targetID string) (*domain.User, error) {
	m.actor = actorID
	if m.toggleErr != nil {
		return nil, m.toggleErr
	}
	return &domain.User{ID: targetID, Role: domain.RoleStudent, IsActive: false}, nil
}

// tokens maps bearer tokens onto users for router tests.
type tokenAuthService struct {
	mockAuthService
	users map[string]*domain.User
}

func (m *tokenAuthService) ParseToken(token string) (*domain.AuthClaims, error) {
	u, ok := m.users[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return &domain.AuthClaims{UserID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (m *tokenAuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type stubProcessor struct {
	result *domain.ExtractedText
	err    error
	calls  int
}

func (s *stubProcessor) ExtractText(ctx context.Context, data []byte) (*domain.ExtractedText, error) {
	s.calls++
	return s.result, s.err
}

type stubSummarizer struct {
	result *domain.SummaryResult
	err    error
	calls  int
}

func (s *stubSummarizer) Summarize(ctx context.Context, text string, platform domain.Platform) (*domain.SummaryResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	r := *s.result
	if platform == "" {
		platform = domain.PlatformGroq
	}
	r.Platform = platform
	return &r, nil
}

func (s *stubSummarizer) DefaultPlatform() domain.Platform {
	return domain.PlatformGroq
}

type mockNoteService struct {
	notes     map[string]*domain.Note
	recorded  []*domain.Summary
	uploaded  *domain.NoteUploadInput
	uploader  string
	chatUser  string
	chatInput *domain.ChatInput
}

func newMockNoteService() *mockNoteService {
	return &mockNoteService{notes: make(map[string]*domain.Note)}
}

func (m *mockNoteService) Upload(ctx context.Context, userID string, input domain.NoteUploadInput, file io.Reader) (*domain.Note, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	m.uploaded = &input
	m.uploader = userID
	note := &domain.Note{ID: "note-new", UserID: userID, SubjectID: input.SubjectID, Title: input.Title, Tags: input.Tags, Status: domain.NoteStatusReady}
	m.notes[note.ID] = note
	return note, nil
}

func (m *mockNoteService) Get(ctx context.Context, id string) (*domain.Note, error) {
	if n, ok := m.notes[id]; ok {
		return n, nil
	}
	return nil, domain.ErrNoteNotFound
}

func (m *mockNoteService) List(ctx context.Context, filter domain.NoteFilter) ([]*domain.Note, error) {
	out := make([]*domain.Note, 0, len(m.notes))
	for _, n := range m.notes {
		out = append(out, n)
	}
	return out, nil
}

func (m *mockNoteService) Summarize(ctx context.Context, noteID string, userID *string, platform domain.Platform) (*domain.Summary, error) {
	if _, ok := m.notes[noteID]; !ok {
		return nil, domain.ErrNoteNotFound
	}
	s := &domain.Summary{ID: "sum-1", NoteID: noteID, UserID: userID, Platform: platform, SummaryText: "summary"}
	m.recorded = append(m.recorded, s)
	return s, nil
}

func (m *mockNoteService) RecordSummary(ctx context.Context, noteID string, userID *string, filename string, result *domain.SummaryResult) (*domain.Summary, error) {
	if _, ok := m.notes[noteID]; !ok {
		return nil, domain.ErrNoteNotFound
	}
	s := &domain.Summary{ID: "sum-1", NoteID: noteID, UserID: userID, Filename: filename, Platform: result.Platform, SummaryText: result.Summary}
	m.recorded = append(m.recorded, s)
	return s, nil
}

func (m *mockNoteService) ListSummaries(ctx context.Context, noteID string) ([]*domain.Summary, error) {
	return m.recorded, nil
}

func (m *mockNoteService) Chat(ctx context.Context, noteID, userID string, input domain.ChatInput) (*domain.ChatAnswer, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if _, ok := m.notes[noteID]; !ok {
		return nil, domain.ErrNoteNotFound
	}
	m.chatUser = userID
	m.chatInput = &input
	platform := input.Platform
	if platform == "" {
		platform = domain.PlatformGroq
	}
	return &domain.ChatAnswer{Response: "answer", Platform: platform, Model: "llama"}, nil
}

type mockCatalogService struct {
	colleges []*domain.College
}

func (m *mockCatalogService) CreateCollege(ctx context.Context, input domain.CollegeInput) (*domain.College, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	c := &domain.College{ID: "c1", Name: input.Name, ShortName: input.ShortName}
	m.colleges = append(m.colleges, c)
	return c, nil
}

func (m *mockCatalogService) ListColleges(ctx context.Context) ([]*domain.College, error) {
	return m.colleges, nil
}

func (m *mockCatalogService) GetCollege(ctx context.Context, id string) (*domain.College, error) {
	for _, c := range m.colleges {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrCollegeNotFound
}

func (m *mockCatalogService) GetProgram(ctx context.Context, id string) (*domain.Program, error) {
	if id == "p1" {
		return &domain.Program{ID: "p1", CollegeID: "c1", Name: "Computer Engineering", ShortName: "BCT"}, nil
	}
	return nil, domain.ErrProgramNotFound
}

func (m *mockCatalogService) GetSubject(ctx context.Context, id string) (*domain.Subject, error) {
	if id == "s1" {
		return &domain.Subject{ID: "s1", ProgramID: "p1", Name: "DBMS", Code: "CT 652"}, nil
	}
	return nil, domain.ErrSubjectNotFound
}

func (m *mockCatalogService) CreateProgram(ctx context.Context, input domain.ProgramInput) (*domain.Program, error) {
	return nil, domain.ErrCollegeNotFound
}

func (m *mockCatalogService) ListPrograms(ctx context.Context, collegeID string) ([]*domain.Program, error) {
	return []*domain.Program{}, nil
}

func (m *mockCatalogService) CreateSubject(ctx context.Context, input domain.SubjectInput) (*domain.Subject, error) {
	return nil, domain.ErrDuplicate
}

func (m *mockCatalogService) ListSubjects(ctx context.Context, programID string) ([]*domain.Subject, error) {
	return []*domain.Subject{}, nil
}

func (m *mockCatalogService) Stats(ctx context.Context) (*domain.Stats, error) {
	return &domain.Stats{TotalNotes: 1, TotalStudents: 2, TotalSubjects: 3, TotalSummaries: 4}, nil
}
