package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics records calls made by the platform API client.
type UpstreamMetrics struct {
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewUpstreamMetrics registers the upstream metrics on the provided registerer.
func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	if reg == nil {
		return &UpstreamMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of backend API requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "resource"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_request_failures",
		Help: "Backend API requests that returned an error.",
	}, []string{"method", "resource", "status"})
	reg.MustRegister(duration, failures)
	return &UpstreamMetrics{
		duration: duration,
		failures: failures,
	}
}

// ObserveDuration records the duration of one upstream request.
func (u *UpstreamMetrics) ObserveDuration(method, resource string, duration time.Duration) {
	if u == nil || u.duration == nil {
		return
	}
	u.duration.WithLabelValues(normalizeLabel(method), normalizeLabel(resource)).Observe(duration.Seconds())
}

// IncFailure records one failed upstream request.
func (u *UpstreamMetrics) IncFailure(method, resource, status string) {
	if u == nil || u.failures == nil {
		return
	}
	u.failures.WithLabelValues(normalizeLabel(method), normalizeLabel(resource), normalizeLabel(status)).Inc()
}
