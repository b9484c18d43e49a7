package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes recorded by ObserveRun.
const (
	OutcomeSuccess             = "success"
	OutcomeUpstreamUnavailable = "upstream_unavailable"
)

// Prometheus collectors for scoring runs and the HTTP API.
var (
	ScoringRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustscore_runs_total",
			Help: "Total number of scoring runs by outcome",
		},
		[]string{"outcome"},
	)

	ScoringRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trustscore_run_duration_seconds",
			Help:    "Duration of a full load, detect and score run",
			Buckets: prometheus.DefBuckets,
		},
	)

	SuspiciousReviews = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trustscore_suspicious_reviews",
			Help: "Reviews flagged as suspicious in the latest run",
		},
	)

	SellersByRisk = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trustscore_sellers",
			Help: "Sellers per risk level in the latest run",
		},
		[]string{"risk_level"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)
)

// Register registers all collectors with reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		ScoringRunsTotal,
		ScoringRunDuration,
		SuspiciousReviews,
		SellersByRisk,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}

// ObserveRun records the outcome and duration of a scoring run.
func ObserveRun(outcome string, d time.Duration) {
	ScoringRunsTotal.WithLabelValues(outcome).Inc()
	ScoringRunDuration.Observe(d.Seconds())
}

// SetRunResult publishes the latest run's distribution.
func SetRunResult(suspicious int, byRisk map[string]int) {
	SuspiciousReviews.Set(float64(suspicious))
	for level, n := range byRisk {
		SellersByRisk.WithLabelValues(level).Set(float64(n))
	}
}
