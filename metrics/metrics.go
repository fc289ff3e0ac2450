package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcome label values.
const (
	OutcomeSuccess     = "success"
	OutcomeRateLimited = "rate_limited"
	OutcomeNoData      = "no_data"
	OutcomeError       = "error"
)

var (
	// LookupsTotal counts finished domain lookups by outcome.
	LookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "domain_lookups_total",
		Help: "Finished domain lookups by outcome.",
	}, []string{"outcome"})

	// LookupDuration observes end-to-end lookup latency in seconds.
	LookupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "domain_lookup_duration_seconds",
		Help:    "End-to-end domain lookup latency.",
		Buckets: prometheus.DefBuckets,
	})

	// CacheRequestsTotal counts lookup cache reads by result.
	CacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lookup_cache_requests_total",
		Help: "Lookup cache reads by result (hit or miss).",
	}, []string{"result"})
)

// ObserveLookup records one finished lookup.
func ObserveLookup(outcome string, seconds float64) {
	LookupsTotal.WithLabelValues(outcome).Inc()
	LookupDuration.Observe(seconds)
}

// ObserveCacheRead records a cache hit or miss.
func ObserveCacheRead(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheRequestsTotal.WithLabelValues(result).Inc()
}
