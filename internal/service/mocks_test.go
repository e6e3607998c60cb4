package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"patshala-server/internal/domain"
)

type MockLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		messages: []string{},
	}
}

func (m *MockLogger) record(s string) {
	m.mu.Lock()
	m.messages = append(m.messages, s)
	m.mu.Unlock()
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.record("INFO: " + msg)
}

func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	if err == nil {
		m.record("ERROR: " + msg)
		return
	}
	m.record("ERROR: " + msg + " - " + err.Error())
}

func (m *MockLogger) Debug(msg string, args ...interface{}) {
	m.record("DEBUG: " + msg)
}

func (m *MockLogger) Warn(msg string, args ...interface{}) {
	m.record("WARN: " + msg)
}

type MockUserRepository struct {
	users map[string]*domain.User
	err   error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrDuplicate
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLogin = &at
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockUserRepository) SetActive(ctx context.Context, id string, active bool) error {
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

type MockCatalogRepository struct {
	colleges map[string]*domain.College
	programs map[string]*domain.Program
	subjects map[string]*domain.Subject
}

func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{
		colleges: make(map[string]*domain.College),
		programs: make(map[string]*domain.Program),
		subjects: make(map[string]*domain.Subject),
	}
}

// Colleges, Programs and Subjects expose the store as each repository interface.
func (m *MockCatalogRepository) Colleges() domain.CollegeRepository { return mockColleges{m} }
func (m *MockCatalogRepository) Programs() domain.ProgramRepository { return mockPrograms{m} }
func (m *MockCatalogRepository) Subjects() domain.SubjectRepository { return mockSubjects{m} }

type mockColleges struct{ m *MockCatalogRepository }

func (r mockColleges) Create(ctx context.Context, c *domain.College) error {
	for _, existing := range r.m.colleges {
		if existing.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	r.m.colleges[c.ID] = c
	return nil
}

func (r mockColleges) GetByID(ctx context.Context, id string) (*domain.College, error) {
	if c, ok := r.m.colleges[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCollegeNotFound
}

func (r mockColleges) List(ctx context.Context) ([]*domain.College, error) {
	out := make([]*domain.College, 0, len(r.m.colleges))
	for _, c := range r.m.colleges {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type mockPrograms struct{ m *MockCatalogRepository }

func (r mockPrograms) Create(ctx context.Context, p *domain.Program) error {
	r.m.programs[p.ID] = p
	return nil
}

func (r mockPrograms) GetByID(ctx context.Context, id string) (*domain.Program, error) {
	if p, ok := r.m.programs[id]; ok {
		return p, nil
	}
	return nil, domain.ErrProgramNotFound
}

func (r mockPrograms) List(ctx context.Context, collegeID string) ([]*domain.Program, error) {
	out := make([]*domain.Program, 0)
	for _, p := range r.m.programs {
		if collegeID == "" || p.CollegeID == collegeID {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockSubjects struct{ m *MockCatalogRepository }

func (r mockSubjects) Create(ctx context.Context, s *domain.Subject) error {
	for _, existing := range r.m.subjects {
		if existing.Code == s.Code {
			return domain.ErrDuplicate
		}
	}
	r.m.subjects[s.ID] = s
	return nil
}

func (r mockSubjects) GetByID(ctx context.Context, id string) (*domain.Subject, error) {
	if s, ok := r.m.subjects[id]; ok {
		return s, nil
	}
	return nil, domain.ErrSubjectNotFound
}

func (r mockSubjects) List(ctx context.Context, programID string) ([]*domain.Subject, error) {
	out := make([]*domain.Subject, 0)
	for _, s := range r.m.subjects {
		if programID == "" || s.ProgramID == programID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r mockSubjects) Lineage(ctx context.Context, subjectID string) (*domain.College, *domain.Program, *domain.Subject, error) {
	s, ok := r.m.subjects[subjectID]
	if !ok {
		return nil, nil, nil, domain.ErrSubjectNotFound
	}
	p, ok := r.m.programs[s.ProgramID]
	if !ok {
		return nil, nil, nil, domain.ErrProgramNotFound
	}
	c, ok := r.m.colleges[p.CollegeID]
	if !ok {
		return nil, nil, nil, domain.ErrCollegeNotFound
	}
	return c, p, s, nil
}

type MockNoteRepository struct {
	notes     map[string]*domain.Note
	summaries []*domain.Summary
	chats     []*domain.ChatLog
	createErr error
	chatErr   error
}

func NewMockNoteRepository() *MockNoteRepository {
	return &MockNoteRepository{notes: make(map[string]*domain.Note)}
}

func (m *MockNoteRepository) Create(ctx context.Context, note *domain.Note) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.notes[note.ID] = note
	return nil
}

func (m *MockNoteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	if n, ok := m.notes[id]; ok {
		return n, nil
	}
	return nil, domain.ErrNoteNotFound
}

func (m *MockNoteRepository) List(ctx context.Context, filter domain.NoteFilter) ([]*domain.Note, error) {
	out := make([]*domain.Note, 0)
	for _, n := range m.notes {
		if n.Status != domain.NoteStatusReady {
			continue
		}
		if filter.SubjectID != "" && n.SubjectID != filter.SubjectID {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Summaries exposes the summary half of the store.
func (m *MockNoteRepository) Summaries() domain.SummaryRepository { return mockSummaries{m} }

type mockSummaries struct{ m *MockNoteRepository }

func (r mockSummaries) Create(ctx context.Context, s *domain.Summary) error {
	r.m.summaries = append(r.m.summaries, s)
	return nil
}

func (r mockSummaries) ListByNote(ctx context.Context, noteID string) ([]*domain.Summary, error) {
	out := make([]*domain.Summary, 0)
	for _, s := range r.m.summaries {
		if s.NoteID == noteID {
			out = append(out, s)
		}
	}
	return out, nil
}

// Chats exposes the chat log half of the store.
func (m *MockNoteRepository) Chats() domain.ChatLogRepository { return mockChatLogs{m} }

type mockChatLogs struct{ m *MockNoteRepository }

func (r mockChatLogs) Create(ctx context.Context, log *domain.ChatLog) error {
	if r.m.chatErr != nil {
		return r.m.chatErr
	}
	r.m.chats = append(r.m.chats, log)
	return nil
}

type MockFileStorage struct {
	files     map[string][]byte
	deleted   []string
	err       error
	deleteErr error
}

func NewMockFileStorage() *MockFileStorage {
	return &MockFileStorage{files: make(map[string][]byte)}
}

func (m *MockFileStorage) Save(ctx context.Context, path string, file io.Reader, contentType string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", err
	}
	m.files[path] = buf.Bytes()
	return "https://files.test/" + path, nil
}

func (m *MockFileStorage) Read(ctx context.Context, path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, errors.New("file not found")
	}
	return data, nil
}

func (m *MockFileStorage) Delete(ctx context.Context, path string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.files, path)
	m.deleted = append(m.deleted, path)
	return nil
}

type mockStatsRepository struct {
	notes, students, subjects, summaries, chats int64
	err                                         error
}

func (m *mockStatsRepository) CountReadyNotes(ctx context.Context) (int64, error) {
	return m.notes, m.err
}

func (m *mockStatsRepository) CountStudents(ctx context.Context) (int64, error) {
	return m.students, nil
}

func (m *mockStatsRepository) CountSubjects(ctx context.Context) (int64, error) {
	return m.subjects, nil
}

func (m *mockStatsRepository) CountSummaries(ctx context.Context) (int64, error) {
	return m.summaries, nil
}

func (m *mockStatsRepository) CountChats(ctx context.Context) (int64, error) {
	return m.chats, nil
}

type stubPDFProcessor struct {
	result *domain.ExtractedText
	err    error
}

func (s *stubPDFProcessor) ExtractText(ctx context.Context, data []byte) (*domain.ExtractedText, error) {
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
	if platform != "" {
		r.Platform = platform
	}
	return &r, nil
}

func (s *stubSummarizer) DefaultPlatform() domain.Platform {
	return domain.PlatformGroq
}

type stubAssistant struct {
	answer       *domain.ChatAnswer
	err          error
	lastTitle    string
	lastDocument string
	lastQuestion string
	calls        int
}

func (s *stubAssistant) Answer(ctx context.Context, title, document, question string, platform domain.Platform) (*domain.ChatAnswer, error) {
	s.calls++
	s.lastTitle, s.lastDocument, s.lastQuestion = title, document, question
	if s.err != nil {
		return nil, s.err
	}
	a := *s.answer
	if platform != "" {
		a.Platform = platform
	}
	return &a, nil
}
