// Package metrics provides Prometheus metrics for the ABC talent service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Data snapshot
	employeesLoaded     prometheus.Gauge
	employeesByCategory *prometheus.GaugeVec
	recordsRejected     *prometheus.CounterVec
	reloads             *prometheus.CounterVec
	reloadDuration      prometheus.Histogram

	// Scoring
	classifications prometheus.Counter
	configErrors    prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Process
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge
	gcPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "abc",
		subsystem:        "talent",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		enabled:          true,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.employeesLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "employees_loaded",
		Help: "Number of employees in the current classified snapshot",
	})
	m.employeesByCategory = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "employees_by_category",
		Help: "Number of employees per talent category in the current snapshot",
	}, []string{"category"})
	m.recordsRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "records_rejected_total",
		Help: "Ingested records rejected at the boundary, by reason",
	}, []string{"reason"})
	m.reloads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "reloads_total",
		Help: "Snapshot reloads by result",
	}, []string{"result"})
	m.reloadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "reload_duration_milliseconds",
		Help:    "Time to ingest, classify and publish a snapshot",
		Buckets: m.histogramBuckets,
	})
	m.classifications = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "adhoc_classifications_total",
		Help: "Ad-hoc score classifications served",
	})
	m.configErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "configuration_errors_total",
		Help: "Classifications aborted by a configuration error",
	})
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "http_requests_total",
		Help: "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.memoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: labels,
		Name: "memory_usage_bytes",
		Help: "Heap bytes allocated",
	})
	m.goroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: labels,
		Name: "goroutine_count",
		Help: "Number of goroutines",
	})
	m.gcPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: labels,
		Name:    "gc_pause_time_milliseconds",
		Help:    "Average GC pause time in milliseconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	})
}

// UpdateEmployeesLoaded sets the snapshot size.
func (m *Manager) UpdateEmployeesLoaded(n int) {
	if m.enabled {
		m.employeesLoaded.Set(float64(n))
	}
}

// UpdateCategoryDistribution replaces the per-category gauges.
func (m *Manager) UpdateCategoryDistribution(dist map[string]int) {
	if !m.enabled {
		return
	}
	m.employeesByCategory.Reset()
	for k, n := range dist {
		m.employeesByCategory.WithLabelValues(k).Set(float64(n))
	}
}

// RecordRejected counts a rejected record.
func (m *Manager) RecordRejected(reason string) {
	if m.enabled {
		m.recordsRejected.WithLabelValues(reason).Inc()
	}
}

// RecordReload counts a reload and its duration.
func (m *Manager) RecordReload(ok bool, durationMs float64) {
	if !m.enabled {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.reloads.WithLabelValues(result).Inc()
	m.reloadDuration.Observe(durationMs)
}

// RecordClassification counts an ad-hoc classification.
func (m *Manager) RecordClassification() {
	if m.enabled {
		m.classifications.Inc()
	}
}

// RecordConfigurationError counts a classification aborted by configuration.
func (m *Manager) RecordConfigurationError() {
	if m.enabled {
		m.configErrors.Inc()
	}
}

// RecordHTTPRequest records one request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateSystemMemoryUsage sets the heap gauge.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if m.enabled {
		m.memoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func (m *Manager) UpdateSystemGoroutineCount(n int) {
	if m.enabled {
		m.goroutineCount.Set(float64(n))
	}
}

// RecordSystemGCPauseTime observes an average GC pause.
func (m *Manager) RecordSystemGCPauseTime(ms float64) {
	if m.enabled {
		m.gcPauseTime.Observe(ms)
	}
}

// Package-level helpers delegate to the global manager.

// UpdateEmployeesLoaded sets the snapshot size.
func UpdateEmployeesLoaded(n int) { globalManager.UpdateEmployeesLoaded(n) }

// UpdateCategoryDistribution replaces the per-category gauges.
func UpdateCategoryDistribution(dist map[string]int) { globalManager.UpdateCategoryDistribution(dist) }

// RecordRejected counts a rejected record.
func RecordRejected(reason string) { globalManager.RecordRejected(reason) }

// RecordReload counts a reload and its duration.
func RecordReload(ok bool, durationMs float64) { globalManager.RecordReload(ok, durationMs) }

// RecordClassification counts an ad-hoc classification.
func RecordClassification() { globalManager.RecordClassification() }

// RecordConfigurationError counts a classification aborted by configuration.
func RecordConfigurationError() { globalManager.RecordConfigurationError() }

// RecordHTTPRequest records one request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// UpdateSystemMemoryUsage sets the heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) { globalManager.UpdateSystemGoroutineCount(n) }

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(ms float64) { globalManager.RecordSystemGCPauseTime(ms) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
