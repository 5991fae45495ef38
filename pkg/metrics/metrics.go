package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MirrorMetrics records the outcome of read-mirror write attempts. Mirror
// failures never fail the request, so the counters are the only place the
// damage shows up.
type MirrorMetrics struct {
	syncSuccess *prometheus.CounterVec
	syncFailure *prometheus.CounterVec
	readFailure *prometheus.CounterVec
}

// NewMirrorMetrics registers the mirror counters on the provided registerer.
func NewMirrorMetrics(reg prometheus.Registerer) *MirrorMetrics {
	if reg == nil {
		return &MirrorMetrics{}
	}
	syncSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mirror_sync_success_total",
		Help: "Successful mirror document writes.",
	}, []string{"entity"})
	syncFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mirror_sync_failure_total",
		Help: "Swallowed mirror document write failures.",
	}, []string{"entity"})
	readFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mirror_read_failure_total",
		Help: "Mirror reads that fell back to an empty result.",
	}, []string{"entity"})
	reg.MustRegister(syncSuccess, syncFailure, readFailure)
	return &MirrorMetrics{
		syncSuccess: syncSuccess,
		syncFailure: syncFailure,
		readFailure: readFailure,
	}
}

// IncSyncSuccess increments the success counter for the named entity.
func (m *MirrorMetrics) IncSyncSuccess(entity string) {
	if m == nil || m.syncSuccess == nil {
		return
	}
	m.syncSuccess.WithLabelValues(normalizeLabel(entity)).Inc()
}

// IncSyncFailure increments the failure counter for the named entity.
func (m *MirrorMetrics) IncSyncFailure(entity string) {
	if m == nil || m.syncFailure == nil {
		return
	}
	m.syncFailure.WithLabelValues(normalizeLabel(entity)).Inc()
}

// IncReadFailure increments the read-fallback counter for the named entity.
func (m *MirrorMetrics) IncReadFailure(entity string) {
	if m == nil || m.readFailure == nil {
		return
	}
	m.readFailure.WithLabelValues(normalizeLabel(entity)).Inc()
}

// HTTPMetrics records request durations and counts per route.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by status class.",
	}, []string{"method", "route", "status"})
	reg.MustRegister(duration, requests)
	return &HTTPMetrics{duration: duration, requests: requests}
}

// Observe records one completed request.
func (m *HTTPMetrics) Observe(method, route, status string, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(method, normalizeLabel(route)).Observe(elapsed.Seconds())
	m.requests.WithLabelValues(method, normalizeLabel(route), status).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
