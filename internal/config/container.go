package config

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"patshala-server/internal/domain"
	"patshala-server/internal/handler"
	"patshala-server/internal/infra/llm"
	"patshala-server/internal/infra/postgres"
	redisinfra "patshala-server/internal/infra/redis"
	"patshala-server/internal/infra/supabase"
	"patshala-server/internal/repository"
	"patshala-server/internal/service"
	"patshala-server/pkg/logger"
	"patshala-server/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	Config  domain.Config
	Logger  domain.Logger
	Metrics *metrics.Metrics
	Router  http.Handler

	DB    *sql.DB
	Redis *redis.Client
}

// NewContainer wires the stateless PDF pipeline and, when DATABASE_URL is
// set, the persistence layer on top of it.
func NewContainer() (*Container, error) {
	cfg := NewConfig()
	appLogger := logger.NewLogger(cfg.GetLogLevel(), cfg.IsDebug())
	m := metrics.New()

	c := &Container{Config: cfg, Logger: appLogger, Metrics: m}
	warnInsecureDefaults(cfg, appLogger)

	extractor := service.NewTextExtractor(cfg.GetPDFEngine(), appLogger)
	processor := service.NewPDFProcessor(extractor, m, appLogger)
	summarizer := service.NewSummarizationService(
		llm.NewProviders(cfg, appLogger),
		cfg.GetDefaultPlatform(),
		cfg.GetSummaryMaxInputChars(),
		m,
		appLogger,
	)

	deps := handler.RouterDeps{
		Metrics:        m,
		Logger:         appLogger,
		AllowedOrigins: cfg.GetAllowedOrigins(),
		Debug:          cfg.IsDebug(),

		TrustProxyHeaders: cfg.TrustProxyHeaders(),
	}

	var notes domain.NoteService
	if cfg.PersistenceEnabled() {
		if err := c.wirePersistence(&deps, processor, summarizer, &notes); err != nil {
			c.Close()
			return nil, err
		}
	} else {
		appLogger.Warn("DATABASE_URL not set, running without persistence")
	}

	if url := cfg.GetRedisURL(); url != "" {
		rdb, err := redisinfra.Connect(url)
		if err != nil {
			appLogger.Warn("Redis unavailable, rate limiting disabled", "error", err)
		} else {
			c.Redis = rdb
			deps.Limiter = redisinfra.NewFixedWindowLimiter(rdb, "summarize", cfg.GetRateLimitPerMinute(), time.Minute)
			appLogger.Info("Rate limiting enabled",
				"per_minute", cfg.GetRateLimitPerMinute(),
				"trust_proxy_headers", cfg.TrustProxyHeaders(),
			)
		}
	}

	deps.PDF = handler.NewPDFHandler(processor, summarizer, notes, cfg.GetMaxFileSize(), appLogger, cfg.IsDebug())
	c.Router = handler.NewRouter(deps)
	return c, nil
}

func (c *Container) wirePersistence(
	deps *handler.RouterDeps,
	processor domain.PDFProcessor,
	summarizer *service.SummarizationService,
	notes *domain.NoteService,
) error {
	cfg, appLogger := c.Config, c.Logger

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := postgres.Open(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	c.DB = db

	version, err := postgres.Migrate(db)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	appLogger.Info("Database ready", "schema_version", version)

	storage, err := c.newFileStorage()
	if err != nil {
		return err
	}

	users := repository.NewUserRepository(db)
	subjects := repository.NewSubjectRepository(db)

	authService := service.NewAuthService(users, cfg.GetJWTSecret(), cfg.GetJWTExpiry(), appLogger)
	if err := seedSuperAdmin(ctx, cfg, authService, appLogger); err != nil {
		return err
	}
	catalogService := service.NewCatalogService(
		repository.NewCollegeRepository(db),
		repository.NewProgramRepository(db),
		subjects,
		repository.NewStatsRepository(db),
		appLogger,
	)
	noteService := service.NewNoteService(
		repository.NewNoteRepository(db),
		repository.NewSummaryRepository(db),
		repository.NewChatLogRepository(db),
		subjects,
		storage,
		processor,
		summarizer,
		summarizer,
		appLogger,
	)
	*notes = noteService

	debug := cfg.IsDebug()
	deps.Auth = handler.NewAuthHandler(authService, appLogger, debug)
	deps.Catalog = handler.NewCatalogHandler(catalogService, appLogger, debug)
	deps.Notes = handler.NewNoteHandler(noteService, cfg.GetMaxFileSize(), appLogger, debug)
	deps.AuthMiddleware = handler.NewAuthMiddleware(authService, appLogger)
	deps.DBPing = db.PingContext
	return nil
}

func (c *Container) newFileStorage() (domain.FileStorage, error) {
	switch c.Config.GetStorageBackend() {
	case "supabase":
		s, err := supabase.NewStorage(c.Config, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("supabase storage: %w", err)
		}
		return s, nil
	case "local", "":
		c.Logger.Info("Using local file storage", "path", c.Config.GetUploadPath())
		return service.NewLocalStorage(c.Config.GetUploadPath()), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.Config.GetStorageBackend())
	}
}

// Close releases the database and Redis connections.
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("Failed to close Redis client", "error", err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Warn("Failed to close database", "error", err)
		}
	}
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}
