package config

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewContainer_Stateless(t *testing.T) {
	clearEnv(t)

	c, err := NewContainer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	if c.DB != nil || c.Redis != nil {
		t.Fatalf("expected no database or redis without configuration")
	}

	rr := httptest.NewRecorder()
	c.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"database":"disabled"`) {
		t.Fatalf("unexpected health body: %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	c.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/notes", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected notes routes to be absent, got %d", rr.Code)
	}
}

func TestNewContainer_UnreachableRedisDisablesLimiter(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_URL", "redis://127.0.0.1:1/0")

	c, err := NewContainer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	if c.Redis != nil {
		t.Fatalf("expected redis client to be dropped when unreachable")
	}
}
