package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/admissions-crm-api/internal/models"
)

const metricsNamespace = "crm"

// Roster import outcomes used as the "outcome" label.
const (
	ImportOutcomeCreated = "created"
	ImportOutcomeUpdated = "updated"
	ImportOutcomeFailed  = "failed"
)

// MetricsService owns the Prometheus registry and keeps running totals for the JSON snapshot.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Histogram
	cacheWrite      prometheus.Histogram
	cacheHitRatio   prometheus.Gauge
	cacheLookups    *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	surveySubmits   *prometheus.CounterVec
	intakeSubmits   *prometheus.CounterVec
	rosterImported  *prometheus.CounterVec

	cacheHitCount        atomic.Uint64
	cacheMissCount       atomic.Uint64
	requestCount         atomic.Uint64
	requestDurationTotal atomic.Uint64
	dbQueryCount         atomic.Uint64
	dbQueryDurationTotal atomic.Uint64
	surveyCount          atomic.Uint64
	intakeCount          atomic.Uint64
	rosterCreated        atomic.Uint64
	rosterUpdated        atomic.Uint64
	rosterFailed         atomic.Uint64
}

// NewMetricsService registers every collector on a private registry.
func NewMetricsService() *MetricsService {
	m := &MetricsService{registry: prometheus.NewRegistry()}

	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by API surface and route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "surface", "route", "status"})

	m.requestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by API surface, route and status",
	}, []string{"method", "surface", "route", "status"})

	m.cacheLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "catalog_cache_latency_seconds",
		Help:      "Latency of catalog cache lookups",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
	})

	m.cacheWrite = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "catalog_cache_write_seconds",
		Help:      "Latency of catalog cache writes",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
	})

	m.cacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "catalog_cache_hit_ratio",
		Help:      "Ratio of catalog cache hits to lookups",
	})

	m.cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "catalog_cache_lookups_total",
		Help:      "Catalog cache lookups by result",
	}, []string{"result"})

	m.dbQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "db_query_duration_seconds",
		Help:      "Duration of database queries issued by reports and imports",
		Buckets:   prometheus.DefBuckets,
	}, []string{"query"})

	m.surveySubmits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "survey_submissions_total",
		Help:      "Accepted survey submissions by campaign",
	}, []string{"campaign"})

	m.intakeSubmits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "intake_applications_total",
		Help:      "Stored intake applications by form and status",
	}, []string{"form", "status"})

	m.rosterImported = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "roster_import_rows_total",
		Help:      "Roster import rows by outcome",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "goroutines",
		Help:      "Number of running goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	m.registry.MustRegister(
		m.requestDuration,
		m.requestTotal,
		m.cacheLatency,
		m.cacheWrite,
		m.cacheHitRatio,
		m.cacheLookups,
		m.dbQueryDuration,
		m.surveySubmits,
		m.intakeSubmits,
		m.rosterImported,
		goroutines,
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return m
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one served request. route must be the route template, not the raw URL.
func (m *MetricsService) ObserveHTTPRequest(method, surface, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, surface, route, code).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, surface, route, code).Inc()
	m.requestCount.Add(1)
	m.requestDurationTotal.Add(uint64(duration.Nanoseconds()))
}

// RecordCacheOperation counts a lookup and refreshes the hit ratio gauge.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		m.cacheHitCount.Add(1)
	} else {
		m.cacheLookups.WithLabelValues("miss").Inc()
		m.cacheMissCount.Add(1)
	}
	hits, misses := m.cacheHitCount.Load(), m.cacheMissCount.Load()
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks cache write latency.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
	m.dbQueryCount.Add(1)
	m.dbQueryDurationTotal.Add(uint64(duration.Nanoseconds()))
}

// RecordSurveySubmission counts an accepted submission.
func (m *MetricsService) RecordSurveySubmission(campaign string) {
	if m == nil {
		return
	}
	m.surveySubmits.WithLabelValues(campaign).Inc()
	m.surveyCount.Add(1)
}

// RecordIntakeApplication counts a stored intake application.
func (m *MetricsService) RecordIntakeApplication(kind models.IntakeKind, status models.ApplicationStatus) {
	if m == nil {
		return
	}
	m.intakeSubmits.WithLabelValues(string(kind), string(status)).Inc()
	m.intakeCount.Add(1)
}

// RecordRosterImport counts imported roster rows by outcome.
func (m *MetricsService) RecordRosterImport(created, updated, failed int) {
	if m == nil {
		return
	}
	m.rosterImported.WithLabelValues(ImportOutcomeCreated).Add(float64(created))
	m.rosterImported.WithLabelValues(ImportOutcomeUpdated).Add(float64(updated))
	m.rosterImported.WithLabelValues(ImportOutcomeFailed).Add(float64(failed))
	m.rosterCreated.Add(uint64(created))
	m.rosterUpdated.Add(uint64(updated))
	m.rosterFailed.Add(uint64(failed))
}

// Snapshot returns aggregated metrics for the JSON metrics endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits, misses := m.cacheHitCount.Load(), m.cacheMissCount.Load()
	requests := m.requestCount.Load()
	dbCount := m.dbQueryCount.Load()

	snapshot := models.SystemMetrics{
		CacheHits:          hits,
		CacheMisses:        misses,
		RequestsTotal:      requests,
		DBQueryCount:       dbCount,
		SurveySubmissions:  m.surveyCount.Load(),
		IntakeApplications: m.intakeCount.Load(),
		RosterRowsImported: map[string]uint64{
			ImportOutcomeCreated: m.rosterCreated.Load(),
			ImportOutcomeUpdated: m.rosterUpdated.Load(),
			ImportOutcomeFailed:  m.rosterFailed.Load(),
		},
		Goroutines:  runtime.NumGoroutine(),
		GeneratedAt: time.Now().UTC(),
	}
	if lookups := hits + misses; lookups > 0 {
		snapshot.CacheHitRatio = float64(hits) / float64(lookups)
	}
	if requests > 0 {
		snapshot.AverageRequestDurationMs = float64(m.requestDurationTotal.Load()) / float64(requests) / float64(time.Millisecond)
	}
	if dbCount > 0 {
		snapshot.AverageDBQueryDurationMs = float64(m.dbQueryDurationTotal.Load()) / float64(dbCount) / float64(time.Millisecond)
	}
	return snapshot
}
