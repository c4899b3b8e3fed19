package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(name string) HealthChecker {
	return CheckFunc{Component: name, Fn: func(context.Context) error { return nil }}
}

func failing(name string) HealthChecker {
	return CheckFunc{Component: name, Fn: func(context.Context) error { return stderrors.New("connection refused") }}
}

func probe(t *testing.T, fn http.HandlerFunc, dst interface{}) int {
	t.Helper()
	w := httptest.NewRecorder()
	fn(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
	return w.Code
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler("1.2.3", nil, failing("redis"))
	var resp LivenessResponse
	code := probe(t, h.Liveness, &resp)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alive", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name     string
		checkers []HealthChecker
		code     int
		status   string
	}{
		{"no checkers", nil, http.StatusOK, "ready"},
		{"all healthy", []HealthChecker{ok("redis"), ok("postgres")}, http.StatusOK, "ready"},
		{"one failing", []HealthChecker{ok("redis"), failing("postgres")}, http.StatusServiceUnavailable, "not_ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler("dev", nil, tt.checkers...)
			var resp ReadinessResponse
			code := probe(t, h.Readiness, &resp)

			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.status, resp.Status)
			assert.Len(t, resp.Components, len(tt.checkers))
		})
	}
}

func TestHealthHandler_DetailedReportsComponentsAndSessions(t *testing.T) {
	h := NewHealthHandler("dev", func() int { return 4 }, ok("minio"), failing("redis"))
	var resp DetailedResponse
	code := probe(t, h.Detailed, &resp)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", resp.Status)
	require.NotNil(t, resp.Sessions)
	assert.Equal(t, 4, *resp.Sessions)
	assert.Equal(t, statusHealthy, resp.Components["minio"].Status)
	assert.Equal(t, statusUnhealthy, resp.Components["redis"].Status)
	assert.Equal(t, "connection refused", resp.Components["redis"].Error)
}
