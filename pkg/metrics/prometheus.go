// Package metrics provides Prometheus metrics for the nutriplan service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recommendation request statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Plan outcomes.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// Manager manages all Prometheus metrics for the nutriplan service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	calorieBuckets   []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Estimator metrics
	estimates      prometheus.Counter
	bmiCategories  *prometheus.CounterVec
	targetCalories prometheus.Histogram
	mealFallbacks  prometheus.Counter

	// Planner metrics
	plans                  *prometheus.CounterVec
	recommendationRequests *prometheus.CounterVec
	recommendationLatency  prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "nutriplan",
		subsystem:        "planner",
		histogramBuckets: prometheus.DefBuckets,
		calorieBuckets:   prometheus.LinearBuckets(1000, 250, 12),
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     buckets,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.estimates = auto.NewCounter(m.counterOpts(
		"estimates_total", "Total number of calorie estimates computed"))

	m.bmiCategories = auto.NewCounterVec(m.counterOpts(
		"bmi_category_total", "Estimates by BMI category"),
		[]string{"category"})

	m.targetCalories = auto.NewHistogram(m.histogramOpts(
		"target_calories", "Distribution of goal-adjusted daily calorie targets", m.calorieBuckets))

	m.mealFallbacks = auto.NewCounter(m.counterOpts(
		"meal_schedule_fallback_total", "Estimates whose meals per day fell back to the five meal table"))

	m.plans = auto.NewCounterVec(m.counterOpts(
		"plans_total", "Meal plans by outcome"),
		[]string{"outcome"})

	m.recommendationRequests = auto.NewCounterVec(m.counterOpts(
		"recommendation_requests_total", "Requests sent to the recommendation service by status"),
		[]string{"status"})

	m.recommendationLatency = auto.NewHistogram(m.histogramOpts(
		"recommendation_latency_milliseconds", "Recommendation request latency in milliseconds", m.histogramBuckets))

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts(
		"errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"})

	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes", "System memory usage in bytes"))

	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count", "Number of goroutines"))

	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordEstimate records a computed estimate with its BMI category and target calories.
func RecordEstimate(category string, targetCalories float64) {
	globalManager.estimates.Inc()
	globalManager.bmiCategories.WithLabelValues(category).Inc()
	globalManager.targetCalories.Observe(targetCalories)
}

// RecordMealFallback counts a meals-per-day value served by the default table.
func RecordMealFallback() {
	globalManager.mealFallbacks.Inc()
}

// RecordPlan records a plan outcome.
func RecordPlan(outcome string) {
	globalManager.plans.WithLabelValues(outcome).Inc()
}

// RecordRecommendationRequest records one call to the recommendation service.
func RecordRecommendationRequest(status string, latencyMs float64) {
	globalManager.recommendationRequests.WithLabelValues(status).Inc()
	globalManager.recommendationLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
