package domain

import (
	"context"
	"io"
	"time"
)

// PDFProcessor turns raw PDF bytes into cleaned text.
type PDFProcessor interface {
	ExtractText(ctx context.Context, data []byte) (*ExtractedText, error)
}

// TextExtractor defines the strategy interface for text extraction
type TextExtractor interface {
	Name() string
	Extract(data []byte) (*RawDocument, error)
}

// Summarizer produces a summary of cleaned text with the selected provider.
type Summarizer interface {
	Summarize(ctx context.Context, text string, platform Platform) (*SummaryResult, error)
	DefaultPlatform() Platform
}

// Assistant answers questions about a document with the selected provider.
type Assistant interface {
	Answer(ctx context.Context, title, document, question string, platform Platform) (*ChatAnswer, error)
}

// LLMProvider is one hosted chat-completion API.
type LLMProvider interface {
	Platform() Platform
	Model() string
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// FileStorage persists uploaded note files.
type FileStorage interface {
	Save(ctx context.Context, path string, file io.Reader, contentType string) (string, error)
	Read(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}

// RateLimiter counts requests per key in fixed windows.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	// List returns users newest first; an empty role matches every user.
	List(ctx context.Context, role Role) ([]*User, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type CollegeRepository interface {
	Create(ctx context.Context, college *College) error
	GetByID(ctx context.Context, id string) (*College, error)
	List(ctx context.Context) ([]*College, error)
}

type ProgramRepository interface {
	Create(ctx context.Context, program *Program) error
	GetByID(ctx context.Context, id string) (*Program, error)
	List(ctx context.Context, collegeID string) ([]*Program, error)
}

type SubjectRepository interface {
	Create(ctx context.Context, subject *Subject) error
	GetByID(ctx context.Context, id string) (*Subject, error)
	List(ctx context.Context, programID string) ([]*Subject, error)
	// Lineage returns the college and program a subject belongs to.
	Lineage(ctx context.Context, subjectID string) (*College, *Program, *Subject, error)
}

type NoteRepository interface {
	Create(ctx context.Context, note *Note) error
	GetByID(ctx context.Context, id string) (*Note, error)
	List(ctx context.Context, filter NoteFilter) ([]*Note, error)
}

type SummaryRepository interface {
	Create(ctx context.Context, summary *Summary) error
	ListByNote(ctx context.Context, noteID string) ([]*Summary, error)
}

type ChatLogRepository interface {
	Create(ctx context.Context, log *ChatLog) error
}

type StatsRepository interface {
	CountReadyNotes(ctx context.Context) (int64, error)
	CountStudents(ctx context.Context) (int64, error)
	CountSubjects(ctx context.Context) (int64, error)
	CountSummaries(ctx context.Context) (int64, error)
	CountChats(ctx context.Context) (int64, error)
}

// AuthService issues and verifies access tokens.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	ParseToken(token string) (*AuthClaims, error)
	CurrentUser(ctx context.Context, userID string) (*User, error)
	// CreateAdmin creates an admin or super_admin account on behalf of creatorID.
	CreateAdmin(ctx context.Context, creatorID string, input RegisterInput) (*User, error)
	ListUsers(ctx context.Context, role Role) ([]*User, error)
	ToggleActive(ctx context.Context, actorID, targetID string) (*User, error)
}

type CatalogService interface {
	CreateCollege(ctx context.Context, input CollegeInput) (*College, error)
	ListColleges(ctx context.Context) ([]*College, error)
	GetCollege(ctx context.Context, id string) (*College, error)
	CreateProgram(ctx context.Context, input ProgramInput) (*Program, error)
	ListPrograms(ctx context.Context, collegeID string) ([]*Program, error)
	GetProgram(ctx context.Context, id string) (*Program, error)
	CreateSubject(ctx context.Context, input SubjectInput) (*Subject, error)
	ListSubjects(ctx context.Context, programID string) ([]*Subject, error)
	GetSubject(ctx context.Context, id string) (*Subject, error)
	Stats(ctx context.Context) (*Stats, error)
}

type NoteService interface {
	Upload(ctx context.Context, userID string, input NoteUploadInput, file io.Reader) (*Note, error)
	Get(ctx context.Context, id string) (*Note, error)
	List(ctx context.Context, filter NoteFilter) ([]*Note, error)
	Summarize(ctx context.Context, noteID string, userID *string, platform Platform) (*Summary, error)
	RecordSummary(ctx context.Context, noteID string, userID *string, filename string, result *SummaryResult) (*Summary, error)
	ListSummaries(ctx context.Context, noteID string) ([]*Summary, error)
	Chat(ctx context.Context, noteID, userID string, input ChatInput) (*ChatAnswer, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	IsDebug() bool
	GetLogLevel() string
	GetMaxFileSize() int64
	GetAllowedOrigins() []string
	GetPDFEngine() string

	GetDatabaseURL() string
	PersistenceEnabled() bool

	GetDefaultPlatform() string
	GetProviderSettings(platform Platform) ProviderSettings
	GetLLMTimeout() time.Duration
	GetSummaryMaxInputChars() int

	GetJWTSecret() string
	GetJWTExpiry() time.Duration
	UsesDefaultJWTSecret() bool
	GetSuperAdminEmail() string
	GetSuperAdminPassword() string
	GetSuperAdminName() string

	GetStorageBackend() string
	GetUploadPath() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetSupabaseBucket() string

	GetRedisURL() string
	GetRateLimitPerMinute() int
	TrustProxyHeaders() bool
}
