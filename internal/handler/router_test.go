package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"patshala-server/internal/domain"
	"patshala-server/pkg/metrics"
)

func statelessDeps() RouterDeps {
	logger := NewMockHandlerLogger()
	processor := &stubProcessor{result: &domain.ExtractedText{Text: "text"}}
	summarizer := &stubSummarizer{result: &domain.SummaryResult{Summary: "s"}}
	return RouterDeps{
		PDF:            NewPDFHandler(processor, summarizer, nil, 1<<20, logger, false),
		Logger:         logger,
		AllowedOrigins: []string{"http://localhost:3000"},
	}
}

func persistentDeps(users map[string]*domain.User) RouterDeps {
	logger := NewMockHandlerLogger()
	auth := &tokenAuthService{users: users}
	notes := newMockNoteService()
	notes.notes["note-1"] = &domain.Note{ID: "note-1", Title: "Unit 1"}

	deps := statelessDeps()
	deps.PDF = NewPDFHandler(&stubProcessor{result: &domain.ExtractedText{Text: "text"}},
		&stubSummarizer{result: &domain.SummaryResult{Summary: "s"}}, notes, 1<<20, logger, false)
	deps.Auth = NewAuthHandler(auth, logger, false)
	deps.Catalog = NewCatalogHandler(&mockCatalogService{}, logger, false)
	deps.Notes = NewNoteHandler(notes, 1<<20, logger, false)
	deps.AuthMiddleware = NewAuthMiddleware(auth, logger)
	deps.DBPing = func(ctx context.Context) error { return nil }
	return deps
}

func TestNewRouter_Health(t *testing.T) {
	tests := []struct {
		name     string
		ping     func(ctx context.Context) error
		database string
	}{
		{"persistence disabled", nil, "disabled"},
		{"database up", func(ctx context.Context) error { return nil }, "connected"},
		{"database down", func(ctx context.Context) error { return errors.New("refused") }, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := statelessDeps()
			deps.DBPing = tt.ping
			router := NewRouter(deps)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body["status"] != "ok" || body["service"] != "patshala-server" {
				t.Fatalf("unexpected response body: %s", rr.Body.String())
			}
			if body["database"] != tt.database {
				t.Fatalf("expected database %q, got %q", tt.database, body["database"])
			}
		})
	}
}

func TestNewRouter_Root(t *testing.T) {
	router := NewRouter(statelessDeps())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"version":"1.0.0"`) {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestNewRouter_Metrics(t *testing.T) {
	deps := statelessDeps()
	deps.Metrics = metrics.New()
	router := NewRouter(deps)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "patshala_http_requests_total") {
		t.Fatalf("expected request counter in metrics output")
	}
}

func TestNewRouter_StatelessHidesPersistenceRoutes(t *testing.T) {
	router := NewRouter(statelessDeps())

	for _, path := range []string{"/api/v1/colleges", "/api/v1/notes", "/api/v1/stats"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s: expected status %d, got %d", path, http.StatusNotFound, rr.Code)
		}
	}
}

func TestNewRouter_PDFRoutes(t *testing.T) {
	router := NewRouter(statelessDeps())

	req := newUploadRequest(t, "/api/v1/pdf/extract", "a.pdf", "application/pdf", samplePDF, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("extract: expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	req = newUploadRequest(t, "/api/v1/pdf/summarize", "a.pdf", "application/pdf", samplePDF, nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("summarize: expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/pdf/extract", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status %d for GET, got %d", http.StatusMethodNotAllowed, rr.Code)
	}
}

func TestNewRouter_SummarizeRateLimited(t *testing.T) {
	deps := statelessDeps()
	deps.Limiter = &countingLimiter{limit: 1, seen: map[string]int{}}
	router := NewRouter(deps)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := newUploadRequest(t, "/api/v1/pdf/summarize", "a.pdf", "application/pdf", samplePDF, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence: %v", codes)
	}

	// extract is not limited
	req := newUploadRequest(t, "/api/v1/pdf/extract", "a.pdf", "application/pdf", samplePDF, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected extract to pass, got %d", rr.Code)
	}
}

func TestNewRouter_AdminGuard(t *testing.T) {
	users := map[string]*domain.User{
		"student-token": {ID: "u1", Email: "s@example.com", Role: domain.RoleStudent, IsActive: true},
		"admin-token":   {ID: "u2", Email: "a@example.com", Role: domain.RoleAdmin, IsActive: true},
	}
	router := NewRouter(persistentDeps(users))

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"invalid token", "nope", http.StatusUnauthorized},
		{"student", "student-token", http.StatusForbidden},
		{"admin", "admin-token", http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/colleges", strings.NewReader(`{"name":"Tribhuvan University","short_name":"TU"}`))
			req.Header.Set("Content-Type", "application/json")
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Fatalf("expected status %d, got %d: %s", tt.want, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestNewRouter_PublicCatalog(t *testing.T) {
	router := NewRouter(persistentDeps(nil))

	for _, path := range []string{"/api/v1/colleges", "/api/v1/programs", "/api/v1/subjects", "/api/v1/stats", "/api/v1/notes"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected status %d, got %d", path, http.StatusOK, rr.Code)
		}
	}
}

func TestNewRouter_NoteSummarizeRequiresAuth(t *testing.T) {
	users := map[string]*domain.User{
		"student-token": {ID: "u1", Email: "s@example.com", Role: domain.RoleStudent, IsActive: true},
	}
	router := NewRouter(persistentDeps(users))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/notes/note-1/summarize", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notes/note-1/summarize", nil)
	req.Header.Set("Authorization", "Bearer student-token")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
}

func TestNewRouter_CORS(t *testing.T) {
	router := NewRouter(statelessDeps())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/pdf/extract", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}

func TestNewRouter_UserAdministration(t *testing.T) {
	users := map[string]*domain.User{
		"student-token": {ID: "u1", Email: "s@example.com", Role: domain.RoleStudent, IsActive: true},
		"admin-token":   {ID: "u2", Email: "a@example.com", Role: domain.RoleAdmin, IsActive: true},
		"root-token":    {ID: "u3", Email: "root@example.com", Role: domain.RoleSuperAdmin, IsActive: true},
	}
	router := NewRouter(persistentDeps(users))
	adminBody := `{"email":"ops@example.com","name":"Ops","password":"password1","role":"admin"}`

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		token  string
		want   int
	}{
		{"create admin anonymous", http.MethodPost, "/api/v1/users/create-admin", adminBody, "", http.StatusUnauthorized},
		{"create admin as student", http.MethodPost, "/api/v1/users/create-admin", adminBody, "student-token", http.StatusForbidden},
		{"create admin as admin", http.MethodPost, "/api/v1/users/create-admin", adminBody, "admin-token", http.StatusForbidden},
		{"create admin as super admin", http.MethodPost, "/api/v1/users/create-admin", adminBody, "root-token", http.StatusCreated},
		{"list users as student", http.MethodGet, "/api/v1/users", "", "student-token", http.StatusForbidden},
		{"list users as admin", http.MethodGet, "/api/v1/users?role=student", "", "admin-token", http.StatusOK},
		{"list users as super admin", http.MethodGet, "/api/v1/users", "", "root-token", http.StatusOK},
		{"toggle as admin", http.MethodPatch, "/api/v1/users/u1/toggle-active", "", "admin-token", http.StatusForbidden},
		{"toggle as super admin", http.MethodPatch, "/api/v1/users/u1/toggle-active", "", "root-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Fatalf("expected status %d, got %d: %s", tt.want, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestNewRouter_CatalogByID(t *testing.T) {
	router := NewRouter(persistentDeps(nil))

	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/programs/p1", http.StatusOK},
		{"/api/v1/subjects/s1", http.StatusOK},
		{"/api/v1/colleges/missing", http.StatusNotFound},
		{"/api/v1/subjects/missing", http.StatusNotFound},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rr.Code != tt.want {
			t.Errorf("%s: expected status %d, got %d", tt.path, tt.want, rr.Code)
		}
	}
}

func TestNewRouter_NoteChat(t *testing.T) {
	users := map[string]*domain.User{
		"student-token": {ID: "u1", Email: "s@example.com", Role: domain.RoleStudent, IsActive: true},
	}
	router := NewRouter(persistentDeps(users))

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"anonymous", "/api/v1/chat/note/note-1", "", http.StatusUnauthorized},
		{"student", "/api/v1/chat/note/note-1", "student-token", http.StatusOK},
		{"unknown note", "/api/v1/chat/note/nope", "student-token", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(`{"message":"What is normalization?"}`))
			req.Header.Set("Content-Type", "application/json")
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Fatalf("expected status %d, got %d: %s", tt.want, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestNewRouter_CORSAllowsPatch(t *testing.T) {
	router := NewRouter(persistentDeps(nil))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/users/u1/toggle-active", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPatch) {
		t.Fatalf("expected PATCH in allowed methods, got %q", got)
	}
}
