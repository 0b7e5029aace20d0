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
	// Discovery metrics
	TokensDiscovered *prometheus.CounterVec
	PoolsSeen        prometheus.Counter

	// Profiling metrics
	TokensAnalyzed     prometheus.Counter
	TokensSkipped      prometheus.Counter
	CandidatesSeen     prometheus.Counter
	WalletsAdmitted    prometheus.Counter
	WalletsRejected    *prometheus.CounterVec
	WalletsBlacklisted prometheus.Counter

	// Run metrics
	RunDuration       prometheus.Histogram
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "evm_sniper_lab"
	}

	return &Metrics{
		TokensDiscovered: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "tokens_discovered_total",
			Help:      "Total number of tokens discovered by source",
		}, []string{"source"}),
		PoolsSeen: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "pools_seen_total",
			Help:      "Total number of pool creation events observed",
		}),

		TokensAnalyzed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profile",
			Name:      "tokens_analyzed_total",
			Help:      "Total number of tokens fully analyzed",
		}),
		TokensSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profile",
			Name:      "tokens_skipped_total",
			Help:      "Total number of tokens skipped (dead or failed)",
		}),
		CandidatesSeen: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profile",
			Name:      "candidate_buyers_total",
			Help:      "Total number of candidate buyers extracted",
		}),
		WalletsAdmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profile",
			Name:      "wallets_admitted_total",
			Help:      "Total number of wallets admitted to the ranking",
		}),
		WalletsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profile",
			Name:      "wallets_rejected_total",
			Help:      "Total number of wallets rejected by reason",
		}, []string{"reason"}),
		WalletsBlacklisted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profile",
			Name:      "wallets_blacklisted_total",
			Help:      "Total number of wallets newly blacklisted",
		}),

		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "Duration of full pipeline runs",
			Buckets:   prometheus.ExponentialBuckets(10, 2, 10),
		}),
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of the last successful run",
		}),
	}
}

// Handler returns the HTTP handler exposing the metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve starts an HTTP server exposing /metrics on addr. Blocks.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return http.ListenAndServe(addr, mux)
}
