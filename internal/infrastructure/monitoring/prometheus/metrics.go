package prometheus

import (
	"strconv"
	"time"

	"github.com/turtacn/titleorder/internal/application/order"
	"github.com/turtacn/titleorder/pkg/client"
)

var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultProviderDurationBuckets = []float64{.05, .1, .25, .5, 1, 2, 5, 10, 20, 30}
	DefaultItemCountBuckets        = []float64{0, 1, 2, 5, 10, 20, 50, 100}
)

// AppMetrics holds the titleorder metric families.  It implements
// order.Metrics.
type AppMetrics struct {
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec

	SearchRequestsTotal CounterVec
	SearchDuration      HistogramVec
	SearchItems         HistogramVec
	SupersededTotal     CounterVec
	TransitionsTotal    CounterVec
	PlacementLinesTotal CounterVec
	ActiveSessions      GaugeVec

	CacheRequestsTotal CounterVec
	ErrorsTotal        CounterVec
}

var _ order.Metrics = (*AppMetrics)(nil)

// NewAppMetrics registers every family on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "HTTP requests", "method", "route", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route")

	m.SearchRequestsTotal = collector.RegisterCounter("search_requests_total", "Registry searches by outcome", "jurisdiction", "search_type", "outcome")
	m.SearchDuration = collector.RegisterHistogram("search_duration_seconds", "Registry search latency", DefaultProviderDurationBuckets, "jurisdiction", "search_type")
	m.SearchItems = collector.RegisterHistogram("search_items", "Items returned per search", DefaultItemCountBuckets, "jurisdiction", "search_type")
	m.SupersededTotal = collector.RegisterCounter("superseded_total", "Results discarded because a newer call replaced them", "search_type")
	m.TransitionsTotal = collector.RegisterCounter("session_transitions_total", "Session state transitions", "from", "to")
	m.PlacementLinesTotal = collector.RegisterCounter("placement_lines_total", "Placed order lines by status", "jurisdiction", "status")
	m.ActiveSessions = collector.RegisterGauge("active_sessions", "Open order sessions")

	m.CacheRequestsTotal = collector.RegisterCounter("cache_requests_total", "Search cache lookups", "result")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Errors by component and code", "component", "code")

	return m
}

func (m *AppMetrics) ObserveSearch(jurisdiction, searchType, outcome string, d time.Duration) {
	m.SearchRequestsTotal.WithLabelValues(jurisdiction, searchType, outcome).Inc()
	m.SearchDuration.WithLabelValues(jurisdiction, searchType).Observe(d.Seconds())
}

func (m *AppMetrics) ObserveItems(jurisdiction, searchType string, n int) {
	m.SearchItems.WithLabelValues(jurisdiction, searchType).Observe(float64(n))
}

func (m *AppMetrics) ObservePlacementLine(jurisdiction string, status client.LineStatus) {
	m.PlacementLinesTotal.WithLabelValues(jurisdiction, string(status)).Inc()
}

func (m *AppMetrics) IncSuperseded(searchType string) {
	m.SupersededTotal.WithLabelValues(searchType).Inc()
}

func (m *AppMetrics) ObserveTransition(from, to order.State) {
	m.TransitionsTotal.WithLabelValues(string(from), string(to)).Inc()
}

// SetActiveSessions records the registry size.
func (m *AppMetrics) SetActiveSessions(n int) {
	m.ActiveSessions.WithLabelValues().Set(float64(n))
}

// RecordHTTPRequest records one served request.
func (m *AppMetrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordCacheAccess counts a search cache hit or miss.
func (m *AppMetrics) RecordCacheAccess(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequestsTotal.WithLabelValues(result).Inc()
}

// RecordError counts an error by component and code.
func (m *AppMetrics) RecordError(component, code string) {
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}
