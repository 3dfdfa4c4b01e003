package monitor

import (
	"context"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for backend calls
const (
	OutcomeSuccess    = "success"
	OutcomeNetwork    = "network"
	OutcomeHTTPStatus = "http_status"
	OutcomeAuth       = "auth"
	OutcomeValidation = "validation"
	OutcomeError      = "error"
)

// MetricsCollector holds the console's Prometheus metrics
type MetricsCollector struct {
	registry *prometheus.Registry

	// backend calls
	apiRequestTotal    *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec
	breakerState       *prometheus.GaugeVec

	// console server
	httpRequestTotal    *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// session
	sessionOperationTotal *prometheus.CounterVec

	// runtime
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge
	gcDuration     prometheus.Gauge
}

// NewMetricsCollector registers the metrics on registry. A nil registry
// gets a fresh one, so collectors never collide across tests.
func NewMetricsCollector(namespace string, registry *prometheus.Registry) *MetricsCollector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "shopadmin"
	}

	mc := &MetricsCollector{registry: registry}
	mc.initMetrics(namespace, promauto.With(registry))
	return mc
}

func (mc *MetricsCollector) initMetrics(ns string, factory promauto.Factory) {
	mc.apiRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "api_request_total",
			Help:      "Total number of shop backend requests",
		},
		[]string{"method", "path", "outcome"},
	)

	mc.apiRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "api_request_duration_seconds",
			Help:      "Duration of shop backend requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	mc.breakerState = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "api_breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)

	mc.httpRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "console_http_request_total",
			Help:      "Total number of console HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	mc.httpRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "console_http_request_duration_seconds",
			Help:      "Duration of console HTTP requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	mc.sessionOperationTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "session_operation_total",
			Help:      "Total number of session store operations",
		},
		[]string{"operation", "status"},
	)

	mc.memoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: ns,
		Name:      "memory_usage_bytes",
		Help:      "Heap bytes allocated",
	})

	mc.goroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: ns,
		Name:      "goroutine_count",
		Help:      "Number of goroutines",
	})

	mc.gcDuration = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: ns,
		Name:      "gc_duration_seconds",
		Help:      "Total GC pause time",
	})
}

// RecordAPIRequest records one backend call. path is the route template,
// not the expanded URL, to keep label cardinality bounded.
func (mc *MetricsCollector) RecordAPIRequest(method, path, outcome string, duration time.Duration) {
	mc.apiRequestTotal.WithLabelValues(method, path, outcome).Inc()
	mc.apiRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetBreakerState exports the numeric breaker state
func (mc *MetricsCollector) SetBreakerState(name string, state int) {
	mc.breakerState.WithLabelValues(name).Set(float64(state))
}

// RecordHTTPRequest records one console request
func (mc *MetricsCollector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	mc.httpRequestTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	mc.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSessionOperation records login/logout/token reads
func (mc *MetricsCollector) RecordSessionOperation(operation string, err error) {
	status := OutcomeSuccess
	if err != nil {
		status = OutcomeError
	}
	mc.sessionOperationTotal.WithLabelValues(operation, status).Inc()
}

// UpdateSystemMetrics samples runtime stats
func (mc *MetricsCollector) UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mc.memoryUsage.Set(float64(m.Alloc))
	mc.goroutineCount.Set(float64(runtime.NumGoroutine()))
	mc.gcDuration.Set(float64(m.PauseTotalNs) / 1e9)
}

// StartSystemMetricsCollection samples runtime stats until ctx is done
func (mc *MetricsCollector) StartSystemMetricsCollection(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	mc.UpdateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mc.UpdateSystemMetrics()
		}
	}
}

// GetRegistry returns the registry the metrics live on
func (mc *MetricsCollector) GetRegistry() *prometheus.Registry {
	return mc.registry
}

// Handler serves the registry in the Prometheus exposition format
func (mc *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{Registry: mc.registry})
}
