package handler

import (
	"context"
	"errors"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"patshala-server/internal/domain"
	apperrors "patshala-server/pkg/errors"
	"patshala-server/pkg/metrics"

	"github.com/gorilla/mux"
)

// AuthMiddleware validates bearer access tokens
type AuthMiddleware struct {
	authService domain.AuthService
	logger      domain.Logger
}

func NewAuthMiddleware(authService domain.AuthService, logger domain.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		logger:      logger,
	}
}

func bearerToken(r *http.Request) (string, *apperrors.AppError) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", apperrors.NewUnauthorizedError("Authorization header required")
	}

	// Extract token from "Bearer <token>" format
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperrors.NewUnauthorizedError("Invalid authorization header format")
	}
	if parts[1] == "" {
		return "", apperrors.NewUnauthorizedError("Token required")
	}
	return parts[1], nil
}

// authenticate resolves the token to an active user and its current role.
func (m *AuthMiddleware) authenticate(r *http.Request, token string) (*domain.AuthClaims, *apperrors.AppError) {
	claims, err := m.authService.ParseToken(token)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Invalid token")
	}

	user, err := m.authService.CurrentUser(r.Context(), claims.UserID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAccessDenied):
		return nil, apperrors.NewForbiddenError("Account disabled")
	case errors.Is(err, domain.ErrUserNotFound):
		return nil, apperrors.NewUnauthorizedError("Invalid token")
	default:
		m.logger.Error("Failed to load token user", err, "user_id", claims.UserID)
		return nil, apperrors.NewInternalError("Internal server error", nil)
	}

	return &domain.AuthClaims{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}

func withClaims(r *http.Request, claims *domain.AuthClaims, token string) *http.Request {
	ctx := context.WithValue(r.Context(), claimsContextKey, claims)
	ctx = context.WithValue(ctx, tokenContextKey, token)
	return r.WithContext(ctx)
}

// Middleware rejects requests without a valid bearer token.
func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, appErr := bearerToken(r)
		if appErr != nil {
			writeError(w, appErr)
			return
		}

		claims, appErr := m.authenticate(r, token)
		if appErr != nil {
			m.logger.Debug("Token rejected", "path", r.URL.Path, "kind", appErr.Type)
			writeError(w, appErr)
			return
		}

		next.ServeHTTP(w, withClaims(r, claims, token))
	})
}

// Optional attaches the caller when a valid bearer token is present and
// otherwise lets the request through anonymously.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, appErr := bearerToken(r)
		if appErr != nil {
			next.ServeHTTP(w, r)
			return
		}
		claims, appErr := m.authenticate(r, token)
		if appErr != nil {
			m.logger.Debug("Ignoring invalid optional token", "path", r.URL.Path, "kind", appErr.Type)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, withClaims(r, claims, token))
	})
}

// RequireRole must run after Middleware.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaimsFromContext(r)
			if !ok {
				writeError(w, apperrors.NewUnauthorizedError("Authorization header required"))
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, apperrors.NewForbiddenError("Insufficient permissions"))
		})
	}
}

// RequireAdmin admits admin and super_admin. It must run after Middleware.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaimsFromContext(r)
			if !ok {
				writeError(w, apperrors.NewUnauthorizedError("Authorization header required"))
				return
			}
			if !claims.Role.IsAdmin() {
				writeError(w, apperrors.NewForbiddenError("Admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// RequestMiddleware logs each request and records its latency.
func RequestMiddleware(logger domain.Logger, m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			route := routeTemplate(r)
			m.ObserveRequest(r.Method, route, rec.status, elapsed)

			fields := []interface{}{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", elapsed.Milliseconds(),
			}
			if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
				logger.Debug("HTTP request", fields...)
				return
			}
			logger.Info("HTTP request", fields...)
		})
	}
}

// RecoverMiddleware turns panics into a 500 InternalError.
func RecoverMiddleware(logger domain.Logger, debugMode bool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("Panic recovered", nil,
						"panic", rec,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					appErr := apperrors.NewInternalError("Internal server error", nil)
					if debugMode {
						if err, ok := rec.(error); ok {
							appErr.Details = err.Error()
						}
					}
					writeError(w, appErr)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP keys on the peer address. Forwarding headers are client supplied
// and only read when the server sits behind a proxy that overwrites them.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
				return ip
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware limits requests per client IP. A nil limiter disables
// it and limiter errors let the request through.
func RateLimitMiddleware(limiter domain.RateLimiter, trustProxy bool, logger domain.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), clientIP(r, trustProxy))
			if err != nil {
				logger.Warn("Rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				writeError(w, apperrors.NewRateLimitedError("Too many requests, please slow down"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
