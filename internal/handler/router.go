package handler

import (
	"context"
	"net/http"
	"time"

	"patshala-server/internal/domain"
	"patshala-server/pkg/metrics"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

const (
	serviceName    = "patshala-server"
	serviceVersion = "1.0.0"
)

// RouterDeps collects the handlers and middleware the router mounts. Auth,
// Catalog and Notes are nil when persistence is disabled.
type RouterDeps struct {
	PDF     *PDFHandler
	Auth    *AuthHandler
	Catalog *CatalogHandler
	Notes   *NoteHandler

	AuthMiddleware *AuthMiddleware
	Limiter        domain.RateLimiter
	Metrics        *metrics.Metrics
	Logger         domain.Logger

	AllowedOrigins []string
	Debug          bool
	// TrustProxyHeaders keys rate limits on X-Forwarded-For and X-Real-IP.
	TrustProxyHeaders bool
	// DBPing reports database health; nil means persistence is disabled.
	DBPing func(ctx context.Context) error
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(deps RouterDeps) http.Handler {
	router := mux.NewRouter()
	router.Use(RecoverMiddleware(deps.Logger, deps.Debug))
	router.Use(RequestMiddleware(deps.Logger, deps.Metrics))

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Patshala notes and PDF summarization API",
			"version": serviceVersion,
			"docs":    "/api/v1",
		})
	}).Methods(http.MethodGet)

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", healthHandler(deps.DBPing)).Methods(http.MethodGet)
	if deps.Metrics != nil {
		router.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)
	}

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	optional := func(h http.HandlerFunc) http.Handler { return h }
	if deps.AuthMiddleware != nil {
		optional = func(h http.HandlerFunc) http.Handler { return deps.AuthMiddleware.Optional(h) }
	}
	limited := RateLimitMiddleware(deps.Limiter, deps.TrustProxyHeaders, deps.Logger)

	api.Handle("/pdf/extract", optional(deps.PDF.Extract)).Methods(http.MethodPost)
	api.Handle("/pdf/summarize", limited(optional(deps.PDF.Summarize))).Methods(http.MethodPost)

	if deps.AuthMiddleware != nil {
		mountPersistenceRoutes(api, deps, limited)
	}

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
		},
		ExposedHeaders: []string{
			"Retry-After",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}

func mountPersistenceRoutes(api *mux.Router, deps RouterDeps, limited mux.MiddlewareFunc) {
	authed := func(h http.HandlerFunc) http.Handler { return deps.AuthMiddleware.Middleware(h) }
	admin := func(h http.HandlerFunc) http.Handler {
		return deps.AuthMiddleware.Middleware(RequireAdmin()(h))
	}
	superAdmin := func(h http.HandlerFunc) http.Handler {
		return deps.AuthMiddleware.Middleware(RequireRole(domain.RoleSuperAdmin)(h))
	}

	// Users
	api.HandleFunc("/users/register", deps.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/users/login", deps.Auth.Login).Methods(http.MethodPost)
	api.Handle("/users/me", authed(deps.Auth.Me)).Methods(http.MethodGet)
	api.Handle("/users/create-admin", superAdmin(deps.Auth.CreateAdmin)).Methods(http.MethodPost)
	api.Handle("/users", admin(deps.Auth.ListUsers)).Methods(http.MethodGet)
	api.Handle("/users/{id}/toggle-active", superAdmin(deps.Auth.ToggleActive)).Methods(http.MethodPatch)

	// Catalog
	api.HandleFunc("/colleges", deps.Catalog.ListColleges).Methods(http.MethodGet)
	api.Handle("/colleges", admin(deps.Catalog.CreateCollege)).Methods(http.MethodPost)
	api.HandleFunc("/colleges/{id}", deps.Catalog.GetCollege).Methods(http.MethodGet)
	api.HandleFunc("/programs", deps.Catalog.ListPrograms).Methods(http.MethodGet)
	api.Handle("/programs", admin(deps.Catalog.CreateProgram)).Methods(http.MethodPost)
	api.HandleFunc("/programs/{id}", deps.Catalog.GetProgram).Methods(http.MethodGet)
	api.HandleFunc("/subjects", deps.Catalog.ListSubjects).Methods(http.MethodGet)
	api.Handle("/subjects", admin(deps.Catalog.CreateSubject)).Methods(http.MethodPost)
	api.HandleFunc("/subjects/{id}", deps.Catalog.GetSubject).Methods(http.MethodGet)
	api.HandleFunc("/stats", deps.Catalog.Stats).Methods(http.MethodGet)

	// Notes
	api.Handle("/notes/upload", admin(deps.Notes.Upload)).Methods(http.MethodPost)
	api.HandleFunc("/notes", deps.Notes.List).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}", deps.Notes.Get).Methods(http.MethodGet)
	api.Handle("/notes/{id}/summarize", limited(authed(deps.Notes.Summarize))).Methods(http.MethodPost)
	api.HandleFunc("/notes/{id}/summaries", deps.Notes.ListSummaries).Methods(http.MethodGet)

	// Chat
	api.Handle("/chat/note/{id}", limited(authed(deps.Notes.Chat))).Methods(http.MethodPost)
}

func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		database := "disabled"
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				database = "unavailable"
			} else {
				database = "connected"
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":   "ok",
			"service":  serviceName,
			"database": database,
		})
	}
}
