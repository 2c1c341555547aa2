package metrics

import "github.com/prometheus/client_golang/prometheus"

// Label values for engine metrics.
const (
	RunScan    = "scan"    // fresh evaluation pass over catalog candidates
	RunHistory = "history" // inactive alert, recorded matches only

	DispatchPublished = "published"
	DispatchFailed    = "failed"
)

// Alert engine Prometheus metrics.
var (
	MatchRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "estalerts",
			Name:      "match_runs_total",
			Help:      "Total number of matching runs",
		},
		[]string{"mode"},
	)

	NewMatchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "estalerts",
			Name:      "new_matches_total",
			Help:      "Total newly recorded property matches",
		},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "estalerts",
			Name:      "notifications_total",
			Help:      "Notification dispatch attempts by outcome",
		},
		[]string{"status"},
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(MatchRunsTotal)
	prometheus.MustRegister(NewMatchesTotal)
	prometheus.MustRegister(NotificationsTotal)
	engineMetricsRegistered = true
}
