package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/memory"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRouter_BasePath(t *testing.T) {
	t.Parallel()

	authn, err := auth.NewAuthenticator([]auth.TokenEntry{
		{Role: domain.RoleUser, Token: testUserToken},
		{Role: domain.RoleAdmin, Token: testAdminToken},
	})
	require.NoError(t, err)

	tests := []struct {
		name       string
		basePath   string
		path       string
		wantStatus int
	}{
		{name: "prefixed", basePath: "/api/v1.0", path: "/api/v1.0/tasks", wantStatus: http.StatusOK},
		{name: "trailing slash trimmed", basePath: "/api/v1.0/", path: "/api/v1.0/tasks", wantStatus: http.StatusOK},
		{name: "unprefixed path not routed", basePath: "/api/v1.0", path: "/tasks", wantStatus: http.StatusNotFound},
		{name: "root mount", basePath: "", path: "/tasks", wantStatus: http.StatusOK},
		{name: "health outside base path", basePath: "/api/v1.0", path: "/health", wantStatus: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewRouter(RouterConfig{
				Store:         memory.NewTaskStore(),
				Authenticator: authn,
				Logger:        slog.New(slog.NewJSONHandler(io.Discard, nil)),
				BasePath:      tc.basePath,
			})

			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestNewRouter_UnknownRouteAndMethod(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t, memory.NewTaskStore())

	rec, body := doRequest(t, h, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", body["error"])

	rec, body = doRequest(t, h, http.MethodPatch, "/tasks/1", testUserToken, `{"title":"x"}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", body["error"])
}

func TestNewRouter_UnauthorizedChallenge(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t, memory.NewTaskStore())

	rec, _ := doRequest(t, h, http.MethodPost, "/tasks", "", `{"title":"a","description":"b"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	rec, _ = doRequest(t, h, http.MethodDelete, "/tasks/1", testUserToken, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "insufficient_scope")
}

func TestNewRouter_PanicsOnMissingDependencies(t *testing.T) {
	t.Parallel()

	authn, err := auth.NewAuthenticator([]auth.TokenEntry{
		{Role: domain.RoleUser, Token: testUserToken},
	})
	require.NoError(t, err)

	assert.Panics(t, func() { NewRouter(RouterConfig{Authenticator: authn}) })
	assert.Panics(t, func() { NewRouter(RouterConfig{Store: memory.NewTaskStore()}) })
}

func TestHealthHandler_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantKey    string
		wantValue  string
	}{
		{name: "healthy", wantStatus: http.StatusOK, wantKey: "status", wantValue: "ok"},
		{
			name:       "backend down",
			pingErr:    errors.New("dial tcp 10.0.0.1:5432: connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantKey:    "error",
			wantValue:  "Database unavailable",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := &stubStore{TaskStore: memory.NewTaskStore(), pingErr: tc.pingErr}
			h := newTestRouter(t, s)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantValue, body[tc.wantKey])
			assert.NotContains(t, rec.Body.String(), "10.0.0.1")
		})
	}
}

func TestHealthHandler_NilPinger(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NewHealthHandler(nil).Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
