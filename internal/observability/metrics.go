// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// HTTP surface metrics
	HTTPRequests *prometheus.CounterVec

	// Upstream provider metrics
	UpstreamCallLatency *prometheus.HistogramVec
	UpstreamCallErrors  *prometheus.CounterVec

	// Retrieval engine metrics
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	ActivityResponses *prometheus.CounterVec
	CooldownsEntered  prometheus.Counter

	// Resolver metrics
	MetadataProbes *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "solana_proxy"
	}

	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status",
		}, []string{"route", "status"}),

		UpstreamCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "call_latency_seconds",
			Help:      "Provider call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		UpstreamCallErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "call_errors_total",
			Help:      "Total number of failed provider calls",
		}, []string{"provider"}),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of wallet activity cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of wallet activity cache misses",
		}),
		ActivityResponses: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "activity",
			Name:      "responses_total",
			Help:      "Total number of wallet activity responses by source path",
		}, []string{"source"}),
		CooldownsEntered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "activity",
			Name:      "cooldowns_entered_total",
			Help:      "Total number of per-wallet rate-limit cooldowns entered",
		}),

		MetadataProbes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "metadata",
			Name:      "probes_total",
			Help:      "Total number of metadata provider probes by outcome",
		}, []string{"provider", "outcome"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(route, status string) {
	DefaultMetrics.HTTPRequests.WithLabelValues(route, status).Inc()
}

// RecordUpstreamCall records a provider call's latency and outcome.
func RecordUpstreamCall(provider string, seconds float64, err error) {
	DefaultMetrics.UpstreamCallLatency.WithLabelValues(provider).Observe(seconds)
	if err != nil {
		DefaultMetrics.UpstreamCallErrors.WithLabelValues(provider).Inc()
	}
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	DefaultMetrics.CacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	DefaultMetrics.CacheMisses.Inc()
}

// RecordActivityResponse increments the per-source response counter.
func RecordActivityResponse(source string) {
	DefaultMetrics.ActivityResponses.WithLabelValues(source).Inc()
}

// RecordCooldown increments the cooldowns entered counter.
func RecordCooldown() {
	DefaultMetrics.CooldownsEntered.Inc()
}

// RecordMetadataProbe records a metadata probe outcome ("hit" or "miss").
func RecordMetadataProbe(provider, outcome string) {
	DefaultMetrics.MetadataProbes.WithLabelValues(provider, outcome).Inc()
}
