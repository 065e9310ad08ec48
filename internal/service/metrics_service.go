package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the rubric API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	saveDuration    prometheus.Histogram
	saveFailures    prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors. counts provides
// live roster/record sizes for the gauge metrics.
func NewMetricsService(counts func() (students int, records int)) *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	saveDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "snapshot_save_duration_seconds",
		Help:    "Duration of snapshot persistence",
		Buckets: prometheus.DefBuckets,
	})

	saveFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_save_failures_total",
		Help: "Total failed snapshot writes",
	})

	students := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "roster_students_total",
		Help: "Students currently on the roster",
	}, func() float64 {
		s, _ := counts()
		return float64(s)
	})

	records := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "rubric_records_total",
		Help: "Materialized (date, student) records",
	}, func() float64 {
		_, r := counts()
		return float64(r)
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, saveDuration, saveFailures, students, records, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		saveDuration:    saveDuration,
		saveFailures:    saveFailures,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveSnapshotSave records snapshot persistence timing and failures.
func (m *MetricsService) ObserveSnapshotSave(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.saveDuration.Observe(duration.Seconds())
	if err != nil {
		m.saveFailures.Inc()
	}
}
