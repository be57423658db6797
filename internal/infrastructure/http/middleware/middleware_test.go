package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoBody(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	})
}

func TestMaxBodyBytes(t *testing.T) {
	const limit = 16

	tests := []struct {
		name       string
		body       io.Reader
		chunked    bool
		wantStatus int
	}{
		{"within limit", strings.NewReader(`{"mode":"week"}`), false, http.StatusOK},
		{"exactly at limit", strings.NewReader(strings.Repeat("a", limit)), false, http.StatusOK},
		{"content length over limit", strings.NewReader(strings.Repeat("a", limit+1)), false, http.StatusRequestEntityTooLarge},
		{"chunked over limit", strings.NewReader(strings.Repeat("a", 4*limit)), true, http.StatusRequestEntityTooLarge},
		{"no body", nil, false, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/filters", tt.body)
			if tt.chunked {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()

			MaxBodyBytes(limit)(echoBody(t)).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusRequestEntityTooLarge {
				assert.JSONEq(t, payloadTooLargeJSON, w.Body.String())
				assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestMaxBodyBytes_BodyIsReplayed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader("payload"))
	w := httptest.NewRecorder()

	MaxBodyBytes(1024)(echoBody(t)).ServeHTTP(w, req)

	assert.Equal(t, "payload", w.Body.String())
}

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"ok", http.StatusOK, "INFO"},
		{"implicit ok", 0, "INFO"},
		{"client error", http.StatusBadRequest, "WARN"},
		{"server error", http.StatusServiceUnavailable, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				_, _ = w.Write([]byte("ok"))
			})
			h := chimw.RequestID(RequestLogger(logger)(next))

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil))

			line := buf.String()
			assert.Contains(t, line, "level="+tt.wantLevel)
			assert.Contains(t, line, "path=/api/v1/tasks")
			assert.Contains(t, line, "request_id=")
			assert.Contains(t, line, "bytes=2")
		})
	}
}
