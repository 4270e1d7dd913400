// Package metrics exposes Prometheus counters for analyses, trust-store
// writes and the HTTP API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Analysis metrics
var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guard_analyses_total",
			Help: "Analyses committed to history, by network and verdict",
		},
		[]string{"network", "verdict"},
	)

	LookalikesDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guard_lookalikes_detected_total",
		Help: "Analyses whose address imitates at least one trusted address",
	})

	StaleAnalyses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guard_stale_analyses_total",
		Help: "Analyses discarded because a newer request was issued",
	})

	HashingBlocked = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "guard_hashing_blocked",
		Help: "1 while the SHA-256 primitive failed its integrity checks",
	})
)

// Store metrics
var (
	StoreWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guard_store_write_failures_total",
			Help: "Trust or history writes the backend rejected",
		},
		[]string{"backend"},
	)

	TrustedAddresses = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "guard_trusted_addresses",
		Help: "Number of entries in the trust list",
	})
)

// HTTP metrics
var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guard_http_requests_total",
			Help: "HTTP requests by route template, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guard_http_request_duration_seconds",
			Help:    "Time taken to serve an HTTP request",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

// Verdict labels an analysis for AnalysesTotal
func Verdict(valid, trusted bool) string {
	switch {
	case trusted:
		return "trusted"
	case valid:
		return "valid"
	default:
		return "suspicious"
	}
}
