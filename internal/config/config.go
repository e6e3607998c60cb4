package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"patshala-server/internal/domain"
)

const (
	defaultJWTSecret = "your-secret-key-change-in-production"

	defaultGroqBaseURL       = "https://api.groq.com/openai/v1/"
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1/"
)

// AppConfig implements the domain.Config interface. It is built once in main
// and never mutated afterwards.
type AppConfig struct {
	ServerPort     string
	Debug          bool
	LogLevel       string
	MaxFileSize    int64
	AllowedOrigins []string
	PDFEngine      string

	DatabaseURL string

	DefaultPlatform      string
	Groq                 domain.ProviderSettings
	OpenRouter           domain.ProviderSettings
	LLMTimeout           time.Duration
	SummaryMaxInputChars int

	JWTSecret string
	JWTExpiry time.Duration

	SuperAdminEmail    string
	SuperAdminPassword string
	SuperAdminName     string

	StorageBackend string
	UploadPath     string
	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	RedisURL           string
	RateLimitPerMinute int
	TrustProxy         bool
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	timeout := time.Duration(getEnvIntOrDefault("LLM_TIMEOUT_SECONDS", 120)) * time.Second

	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:     getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		Debug:          getEnvBoolOrDefault("DEBUG", false),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		MaxFileSize:    getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		AllowedOrigins: getEnvListOrDefault("ALLOWED_ORIGINS", []string{"*"}),
		PDFEngine:      strings.ToLower(getEnvOrDefault("PDF_ENGINE", "mupdf")),

		DatabaseURL: getEnvOrDefault("DATABASE_URL", ""),

		DefaultPlatform: strings.ToLower(getEnvOrDefault("DEFAULT_LLM_PLATFORM", string(domain.PlatformGroq))),
		Groq: domain.ProviderSettings{
			APIKey:  getEnvOrDefault("GROQ_API_KEY", ""),
			Model:   getEnvOrDefault("GROQ_MODEL", "llama-3.1-8b-instant"),
			BaseURL: getEnvOrDefault("GROQ_BASE_URL", defaultGroqBaseURL),
			Timeout: timeout,
		},
		OpenRouter: domain.ProviderSettings{
			APIKey:  getEnvOrDefault("OPENROUTER_API_KEY", ""),
			Model:   getEnvOrDefault("OPENROUTER_MODEL", "meta-llama/llama-3.1-70b-instruct"),
			BaseURL: getEnvOrDefault("OPENROUTER_BASE_URL", defaultOpenRouterBaseURL),
			Timeout: timeout,
		},
		LLMTimeout:           timeout,
		SummaryMaxInputChars: getEnvIntOrDefault("SUMMARY_MAX_INPUT_CHARS", 24000),

		JWTSecret: getEnvOrDefault("JWT_SECRET", defaultJWTSecret),
		JWTExpiry: time.Duration(getEnvIntOrDefault("JWT_EXPIRE_MINUTES", 24*60)) * time.Minute,

		SuperAdminEmail:    strings.ToLower(strings.TrimSpace(getEnvOrDefault("SUPER_ADMIN_EMAIL", ""))),
		SuperAdminPassword: getEnvOrDefault("SUPER_ADMIN_PASSWORD", ""),
		SuperAdminName:     getEnvOrDefault("SUPER_ADMIN_NAME", "Super Admin"),

		StorageBackend: strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", "local")),
		UploadPath:     getEnvOrDefault("UPLOAD_PATH", "./uploads"),
		SupabaseURL:    getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:    getEnvOrDefault("SUPABASE_SERVICE_KEY", ""),
		SupabaseBucket: getEnvOrDefault("SUPABASE_BUCKET", "notes"),

		RedisURL:           getEnvOrDefault("REDIS_URL", ""),
		RateLimitPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 10),
		TrustProxy:         getEnvBoolOrDefault("TRUST_PROXY_HEADERS", false),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

func (c *AppConfig) IsDebug() bool {
	return c.Debug
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetMaxFileSize returns the maximum allowed file size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// GetPDFEngine returns "mupdf" or "native".
func (c *AppConfig) GetPDFEngine() string {
	return c.PDFEngine
}

func (c *AppConfig) GetDatabaseURL() string {
	return c.DatabaseURL
}

// PersistenceEnabled reports whether the relational store is configured.
func (c *AppConfig) PersistenceEnabled() bool {
	return c.DatabaseURL != ""
}

func (c *AppConfig) GetDefaultPlatform() string {
	return c.DefaultPlatform
}

// GetProviderSettings returns key, model and endpoint for a platform.
func (c *AppConfig) GetProviderSettings(platform domain.Platform) domain.ProviderSettings {
	switch platform {
	case domain.PlatformOpenRouter:
		return c.OpenRouter
	default:
		return c.Groq
	}
}

func (c *AppConfig) GetLLMTimeout() time.Duration {
	return c.LLMTimeout
}

func (c *AppConfig) GetSummaryMaxInputChars() int {
	return c.SummaryMaxInputChars
}

// GetJWTSecret returns the JWT secret key
func (c *AppConfig) GetJWTSecret() string {
	return c.JWTSecret
}

func (c *AppConfig) GetJWTExpiry() time.Duration {
	return c.JWTExpiry
}

// UsesDefaultJWTSecret is true while JWT_SECRET is unset.
func (c *AppConfig) UsesDefaultJWTSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}

// GetSuperAdminEmail returns the account seeded at startup, if any.
func (c *AppConfig) GetSuperAdminEmail() string {
	return c.SuperAdminEmail
}

func (c *AppConfig) GetSuperAdminPassword() string {
	return c.SuperAdminPassword
}

func (c *AppConfig) GetSuperAdminName() string {
	return c.SuperAdminName
}

func (c *AppConfig) GetStorageBackend() string {
	return c.StorageBackend
}

// GetUploadPath returns the upload directory path
func (c *AppConfig) GetUploadPath() string {
	return c.UploadPath
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase service key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

func (c *AppConfig) GetSupabaseBucket() string {
	return c.SupabaseBucket
}

func (c *AppConfig) GetRedisURL() string {
	return c.RedisURL
}

func (c *AppConfig) GetRateLimitPerMinute() int {
	return c.RateLimitPerMinute
}

// TrustProxyHeaders reports whether X-Forwarded-For and X-Real-IP identify the client.
func (c *AppConfig) TrustProxyHeaders() bool {
	return c.TrustProxy
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	return int(getEnvInt64OrDefault(key, int64(defaultValue)))
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
