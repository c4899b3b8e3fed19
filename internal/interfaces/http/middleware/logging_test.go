package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/internal/testutil"
)

type observation struct {
	method, route string
	status        int
}

type stubRecorder struct {
	mu  sync.Mutex
	obs []observation
}

func (s *stubRecorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.obs = append(s.obs, observation{method, route, status})
}

func newTestRouter(logger *testutil.MockLogger, cfg LoggingConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogging(logger, cfg))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/sessions/{sessionID}", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("{}")) })
	r.Post("/sessions/{sessionID}/place", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	r.Put("/sessions/{sessionID}/matter", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})
	return r
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRequestLogging_LevelsByStatus(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		level  string
		msg    string
	}{
		{"success", http.MethodGet, "/sessions/abc", "info", "HTTP request completed"},
		{"client error", http.MethodPut, "/sessions/abc/matter", "warn", "HTTP request completed with client error"},
		{"server error", http.MethodPost, "/sessions/abc/place", "error", "HTTP request completed with server error"},
		{"skipped path", http.MethodGet, "/healthz", "debug", "HTTP request completed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := testutil.NewMockLogger()
			serve(newTestRouter(logger, DefaultLoggingConfig()), tt.method, tt.path)

			msgs := logger.GetMessages()
			require.Len(t, msgs, 1)
			assert.Equal(t, tt.level, msgs[0].Level)
			assert.Equal(t, tt.msg, msgs[0].Message)
		})
	}
}

func TestRequestLogging_FieldsCarryRouteAndSession(t *testing.T) {
	logger := testutil.NewMockLogger()
	w := serve(newTestRouter(logger, DefaultLoggingConfig()), http.MethodGet, "/sessions/abc")
	require.Equal(t, http.StatusOK, w.Code)

	msg, ok := logger.Find("info", "HTTP request completed")
	require.True(t, ok)
	route, _ := msg.Field("route")
	assert.Equal(t, "/sessions/{sessionID}", route)
	sid, _ := msg.Field("session_id")
	assert.Equal(t, "abc", sid)
	bytes, _ := msg.Field("bytes")
	assert.Equal(t, int64(2), bytes)
}

func TestRequestLogging_RecordsMetricsByPattern(t *testing.T) {
	rec := &stubRecorder{}
	cfg := DefaultLoggingConfig()
	cfg.Recorder = rec
	h := newTestRouter(testutil.NewMockLogger(), cfg)

	serve(h, http.MethodGet, "/sessions/a")
	serve(h, http.MethodGet, "/sessions/b")
	serve(h, http.MethodGet, "/healthz")
	serve(h, http.MethodGet, "/nowhere")

	assert.Equal(t, []observation{
		{http.MethodGet, "/sessions/{sessionID}", http.StatusOK},
		{http.MethodGet, "/sessions/{sessionID}", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "unmatched", http.StatusNotFound},
	}, rec.obs)
}

func TestRequestLogging_SlowRequest(t *testing.T) {
	logger := testutil.NewMockLogger()
	r := chi.NewRouter()
	r.Use(RequestLogging(logger, LoggingConfig{SlowThreshold: time.Nanosecond}))
	r.Get("/slow", func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	serve(r, http.MethodGet, "/slow")
	assert.True(t, logger.HasMessage("warn", "HTTP request completed (slow)"))
}

func TestWrappedResponseWriter_FirstStatusWins(t *testing.T) {
	w := newWrappedResponseWriter(httptest.NewRecorder())
	w.WriteHeader(http.StatusCreated)
	w.WriteHeader(http.StatusInternalServerError)
	_, err := w.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, w.statusCode)
	assert.Equal(t, int64(3), w.bytesWritten)
}

func TestRequestLogging_PropagatesRequestID(t *testing.T) {
	var seen string
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(RequestLogging(testutil.NewMockLogger(), DefaultLoggingConfig()))
	r.Get("/sessions/{sessionID}", func(w http.ResponseWriter, req *http.Request) {
		seen = logging.RequestIDFromContext(req.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/sessions/s-1", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-42")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "req-42", seen)
}
