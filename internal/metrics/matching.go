package metrics

import "github.com/prometheus/client_golang/prometheus"

// Matching and notification Prometheus metrics.
var (
	RankDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jobmatch",
			Name:      "rank_duration_seconds",
			Help:      "Time to embed and rank a candidate set",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	RankCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "jobmatch",
			Name:      "rank_candidates",
			Help:      "Number of candidates per ranking",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 7),
		},
	)

	NotificationDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobmatch",
			Name:      "notification_deliveries_total",
			Help:      "Notification deliveries per observer and outcome",
		},
		[]string{"observer", "status"}, // "ok" / "error" / "panic"
	)

	PushConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jobmatch",
			Name:      "push_connections",
			Help:      "Open notification WebSocket connections",
		},
	)
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers matching and notification metrics. Must be called once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(RankDuration, RankCandidates, NotificationDeliveriesTotal, PushConnections)
	domainMetricsRegistered = true
}
