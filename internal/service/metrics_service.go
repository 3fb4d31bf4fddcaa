package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API process.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	roleCacheHits   prometheus.Counter
	roleCacheMisses prometheus.Counter
	roleCacheRatio  prometheus.Gauge
	sessionsPurged  prometheus.Counter

	roleHitCount  uint64
	roleMissCount uint64
}

// NewMetricsService registers the core collectors.
func NewMetricsService() *MetricsService {
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

	roleCacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "role_cache_hits_total",
		Help: "Total role cache hits",
	})

	roleCacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "role_cache_misses_total",
		Help: "Total role cache misses",
	})

	roleCacheRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "role_cache_hit_ratio",
		Help: "Ratio of role cache hits to total lookups",
	})

	sessionsPurged := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sessions_purged_total",
		Help: "Total expired or revoked refresh tokens removed",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, roleCacheHits, roleCacheMisses, roleCacheRatio, sessionsPurged, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		roleCacheHits:   roleCacheHits,
		roleCacheMisses: roleCacheMisses,
		roleCacheRatio:  roleCacheRatio,
		sessionsPurged:  sessionsPurged,
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

// ObserveHTTPRequest records per-request timing and counts.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordRoleLookup tracks role cache effectiveness.
func (m *MetricsService) RecordRoleLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.roleCacheHits.Inc()
		atomic.AddUint64(&m.roleHitCount, 1)
	} else {
		m.roleCacheMisses.Inc()
		atomic.AddUint64(&m.roleMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.roleHitCount)
	misses := atomic.LoadUint64(&m.roleMissCount)
	if total := hits + misses; total > 0 {
		m.roleCacheRatio.Set(float64(hits) / float64(total))
	}
}

// RecordSessionsPurged adds to the purged session counter.
func (m *MetricsService) RecordSessionsPurged(count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.sessionsPurged.Add(float64(count))
}
