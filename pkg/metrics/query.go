package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// QueryCacheMetrics records cache behavior per resource domain.
type QueryCacheMetrics struct {
	hits       *prometheus.CounterVec
	misses     *prometheus.CounterVec
	refetches  *prometheus.CounterVec
	errors     *prometheus.CounterVec
	invalidate *prometheus.CounterVec
}

// NewQueryCacheMetrics registers the cache metrics on the provided registerer.
func NewQueryCacheMetrics(reg prometheus.Registerer) *QueryCacheMetrics {
	if reg == nil {
		return &QueryCacheMetrics{}
	}
	hits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "query_cache_hits",
		Help: "Queries served from fresh cache entries.",
	}, []string{"domain"})
	misses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "query_cache_misses",
		Help: "Queries that required an upstream fetch.",
	}, []string{"domain"})
	refetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "query_cache_refetches",
		Help: "Background refreshes triggered by stale entries.",
	}, []string{"domain"})
	errors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "query_cache_errors",
		Help: "Query fetches that ended in error.",
	}, []string{"domain"})
	invalidate := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "query_cache_invalidations",
		Help: "Prefix invalidations applied to the cache.",
	}, []string{"domain"})
	reg.MustRegister(hits, misses, refetches, errors, invalidate)
	return &QueryCacheMetrics{
		hits:       hits,
		misses:     misses,
		refetches:  refetches,
		errors:     errors,
		invalidate: invalidate,
	}
}

// IncHit increments the fresh-cache counter for the domain.
func (q *QueryCacheMetrics) IncHit(domain string) {
	if q == nil || q.hits == nil {
		return
	}
	q.hits.WithLabelValues(normalizeLabel(domain)).Inc()
}

// IncMiss increments the fetch counter for the domain.
func (q *QueryCacheMetrics) IncMiss(domain string) {
	if q == nil || q.misses == nil {
		return
	}
	q.misses.WithLabelValues(normalizeLabel(domain)).Inc()
}

// IncRefetch increments the stale-refresh counter for the domain.
func (q *QueryCacheMetrics) IncRefetch(domain string) {
	if q == nil || q.refetches == nil {
		return
	}
	q.refetches.WithLabelValues(normalizeLabel(domain)).Inc()
}

// IncError increments the fetch-error counter for the domain.
func (q *QueryCacheMetrics) IncError(domain string) {
	if q == nil || q.errors == nil {
		return
	}
	q.errors.WithLabelValues(normalizeLabel(domain)).Inc()
}

// IncInvalidation increments the invalidation counter for the domain.
func (q *QueryCacheMetrics) IncInvalidation(domain string) {
	if q == nil || q.invalidate == nil {
		return
	}
	q.invalidate.WithLabelValues(normalizeLabel(domain)).Inc()
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
