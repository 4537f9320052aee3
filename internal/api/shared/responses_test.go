package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggedRequest(t *testing.T, buf *bytes.Buffer) *http.Request {
	t.Helper()
	l := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	req := httptest.NewRequest(http.MethodGet, "/api/v1.0/tasks/1", nil)
	ctx := logger.WithContext(SetTraceID(req.Context()), l)
	return req.WithContext(ctx)
}

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RespondWithJSON(rec, req, http.StatusOK, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	req := newLoggedRequest(t, &logs)
	rec := httptest.NewRecorder()

	RespondWithError(rec, req, http.StatusNotFound, "Task not found")

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Task not found", body["error"])
	assert.Equal(t, GetTraceID(req.Context()), body["trace_id"])
	assert.NotContains(t, body, "fields")
	assert.NotContains(t, body, "Code")
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		opts      []ResponseOption
		wantLevel string
	}{
		{name: "server error logs at error", status: http.StatusInternalServerError, wantLevel: "ERROR"},
		{name: "client error logs at debug", status: http.StatusBadRequest, wantLevel: "DEBUG"},
		{
			name:      "elevated client error logs at warn",
			status:    http.StatusUnauthorized,
			opts:      []ResponseOption{WithElevatedLogLevel()},
			wantLevel: "WARN",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var logs bytes.Buffer
			req := newLoggedRequest(t, &logs)
			rec := httptest.NewRecorder()

			err := errors.New("dial postgres://app:s3cr3t@db/tasks failed")
			RespondWithErrorAndLog(rec, req, tc.status, "Something went wrong", err, tc.opts...)

			assert.Equal(t, tc.status, rec.Code)
			assert.NotContains(t, rec.Body.String(), "s3cr3t")
			assert.NotContains(t, rec.Body.String(), "postgres")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
			assert.Equal(t, tc.wantLevel, entry["level"])
			assert.Equal(t, "API error response", entry["msg"])
			assert.NotContains(t, entry["error"], "s3cr3t")
			assert.Equal(t, "*errors.errorString", entry["error_type"])
		})
	}
}

func TestRespondWithErrorAndLog_Fields(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	req := newLoggedRequest(t, &logs)
	rec := httptest.NewRecorder()

	RespondWithErrorAndLog(rec, req, http.StatusBadRequest, "no task title provided", nil,
		WithFields(map[string]string{"title": "no task title provided"}))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"title": "no task title provided"}, body.Fields)
}
