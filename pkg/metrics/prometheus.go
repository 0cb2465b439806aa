// Package metrics provides Prometheus metrics for the estimator service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the estimator service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Estimate metrics - the core business activity
	estimatesComputed prometheus.Counter
	estimateFailures  prometheus.Counter
	estimateLatency   prometheus.Histogram
	selectionsPerCall prometheus.Histogram

	// Snapshot metrics - persistence activity
	snapshotLoads       prometheus.Counter
	snapshotSaves       prometheus.Counter
	snapshotLoadLatency prometheus.Histogram
	snapshotSaveLatency prometheus.Histogram

	// Catalog metrics - repository state and mutation activity
	catalogMutations      *prometheus.CounterVec
	catalogMutationErrors *prometheus.CounterVec
	catalogRoles          prometheus.Gauge
	catalogEntries        prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "estimator",
		subsystem:        "catalog",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.estimatesComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "estimates_computed_total",
		Help:      "Total number of estimate calculations that produced a breakdown",
	})

	m.estimateFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "estimate_validation_failures_total",
		Help:      "Total number of estimate calculations rejected by validation",
	})

	m.estimateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "estimate_latency_milliseconds",
		Help:      "Histogram of estimate calculation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.selectionsPerCall = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "estimate_selections_per_call",
		Help:      "Histogram of the number of feature selections per estimate call",
		Buckets:   []float64{1, 2, 5, 10, 20, 50},
	})

	m.snapshotLoads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_loads_total",
		Help:      "Total number of catalog snapshot loads from disk",
	})

	m.snapshotSaves = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_saves_total",
		Help:      "Total number of catalog snapshot files written",
	})

	m.snapshotLoadLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_load_latency_milliseconds",
		Help:      "Catalog snapshot load latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.snapshotSaveLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_save_latency_milliseconds",
		Help:      "Catalog snapshot save latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.catalogMutations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "mutations_total",
			Help:      "Total number of catalog mutations by operation",
		},
		[]string{"op"},
	)

	m.catalogMutationErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "mutation_errors_total",
			Help:      "Total number of catalog mutations that failed to persist",
		},
		[]string{"op"},
	)

	m.catalogRoles = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "roles",
		Help:      "Number of roles in the loaded catalog snapshot",
	})

	m.catalogEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "entries",
		Help:      "Number of entries in the loaded catalog snapshot",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_errors_total",
			Help:      "Total number of HTTP error responses by endpoint and type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Histogram of GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// RecordEstimateComputed increments the successful-estimate counter.
func RecordEstimateComputed() {
	globalManager.estimatesComputed.Inc()
}

// RecordEstimateValidationFailure increments the rejected-estimate counter.
func RecordEstimateValidationFailure() {
	globalManager.estimateFailures.Inc()
}

// RecordEstimateLatency records one estimate calculation latency.
func RecordEstimateLatency(latencyMs float64) {
	globalManager.estimateLatency.Observe(latencyMs)
}

// RecordEstimateSelections records the selection count of one estimate call.
func RecordEstimateSelections(count int) {
	globalManager.selectionsPerCall.Observe(float64(count))
}

// RecordSnapshotLoad records one snapshot load and its latency.
func RecordSnapshotLoad(latencyMs float64) {
	globalManager.snapshotLoads.Inc()
	globalManager.snapshotLoadLatency.Observe(latencyMs)
}

// RecordSnapshotSave records one snapshot save and its latency.
func RecordSnapshotSave(latencyMs float64) {
	globalManager.snapshotSaves.Inc()
	globalManager.snapshotSaveLatency.Observe(latencyMs)
}

// RecordCatalogMutation records one persisted catalog mutation.
func RecordCatalogMutation(op string) {
	globalManager.catalogMutations.WithLabelValues(op).Inc()
}

// RecordCatalogMutationError records a mutation whose persist failed.
func RecordCatalogMutationError(op string) {
	globalManager.catalogMutationErrors.WithLabelValues(op).Inc()
}

// UpdateCatalogRoles sets the loaded role-count gauge.
func UpdateCatalogRoles(count int) {
	globalManager.catalogRoles.Set(float64(count))
}

// UpdateCatalogEntries sets the loaded entry-count gauge.
func UpdateCatalogEntries(count int) {
	globalManager.catalogEntries.Set(float64(count))
}

// RecordHTTPRequest records one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records one HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the allocated-memory gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine-count gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records an average GC pause observation.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
