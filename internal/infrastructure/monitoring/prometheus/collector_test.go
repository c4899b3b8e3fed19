package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/titleorder/internal/application/order"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/internal/testutil"
	"github.com/turtacn/titleorder/pkg/client"
	"github.com/turtacn/titleorder/pkg/errors"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrape(t *testing.T, c MetricsCollector) string {
	t.Helper()
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollector_RequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, logging.NewNopLogger())
	assert.True(t, errors.IsValidation(err))
}

func TestNewMetricsCollector_RuntimeCollectors(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "rt", EnableGoMetrics: true, EnableProcessMetrics: true}, logging.NewNopLogger())
	require.NoError(t, err)
	assert.Contains(t, scrape(t, c), "go_goroutines")
}

func TestRegister_ReturnsExistingFamily(t *testing.T) {
	c := newTestCollector(t)
	a := c.RegisterCounter("dup_total", "first", "l")
	b := c.RegisterCounter("dup_total", "second", "l")
	a.WithLabelValues("x").Inc()
	b.WithLabelValues("x").Inc()

	assert.Contains(t, scrape(t, c), `test_dup_total{l="x"} 2`)
}

func TestRegister_TypeMismatchIsNoop(t *testing.T) {
	log := testutil.NewMockLogger()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test"}, log)
	require.NoError(t, err)

	c.RegisterCounter("clash", "counter")
	g := c.RegisterGauge("clash", "gauge")
	g.WithLabelValues().Set(3)

	assert.True(t, log.HasMessage("warn", "metric type mismatch"))
}

func TestTimer(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("op_seconds", "op", nil)
	timer := NewTimer(h.WithLabelValues())
	timer.ObserveDuration()
	NewTimer(nil).ObserveDuration()

	assert.Contains(t, scrape(t, c), "test_op_seconds_count 1")
}

func TestAppMetrics_OrderMeasurements(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	m.ObserveSearch("NSW", "NSW_TITLE_REFERENCE", "ok", 120*time.Millisecond)
	m.ObserveItems("NSW", "NSW_TITLE_REFERENCE", 3)
	m.ObservePlacementLine("NSW", client.LineAccepted)
	m.ObservePlacementLine("NSW", client.LineRejected)
	m.IncSuperseded("NSW_TITLE_REFERENCE")
	m.ObserveTransition(order.StateSearching, order.StateSelecting)
	m.SetActiveSessions(4)
	m.RecordHTTPRequest(http.MethodPost, "/v1/sessions", http.StatusCreated, time.Millisecond)
	m.RecordCacheAccess(true)
	m.RecordCacheAccess(false)
	m.RecordError("order", "TTL_004")

	out := scrape(t, c)
	for _, want := range []string{
		`test_search_requests_total{jurisdiction="NSW",outcome="ok",search_type="NSW_TITLE_REFERENCE"} 1`,
		`test_search_items_count{jurisdiction="NSW",search_type="NSW_TITLE_REFERENCE"} 1`,
		`test_placement_lines_total{jurisdiction="NSW",status="accepted"} 1`,
		`test_placement_lines_total{jurisdiction="NSW",status="rejected"} 1`,
		`test_superseded_total{search_type="NSW_TITLE_REFERENCE"} 1`,
		`test_active_sessions 4`,
		`test_http_requests_total{method="POST",route="/v1/sessions",status_code="201"} 1`,
		`test_cache_requests_total{result="hit"} 1`,
		`test_cache_requests_total{result="miss"} 1`,
		`test_errors_total{code="TTL_004",component="order"} 1`,
	} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, `test_session_transitions_total{from="`+string(order.StateSearching)+`",to="`+string(order.StateSelecting)+`"} 1`)
}
