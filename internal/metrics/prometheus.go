package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the schedule ingestion worker

var (
	// Feed metrics
	FeedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlb_feed_requests_total",
			Help: "Total number of MLB Stats API requests",
		},
		[]string{"endpoint", "status"},
	)

	FeedRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mlb_feed_request_duration_seconds",
			Help:    "Duration of MLB Stats API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Reconciliation metrics
	ReconciliationPassesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlb_reconciliation_passes_total",
			Help: "Total number of schedule reconciliation passes by result",
		},
		[]string{"result"},
	)

	ReconciliationPassDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mlb_reconciliation_pass_duration_seconds",
			Help:    "Duration of full reconciliation passes in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	SkippedTriggersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mlb_skipped_triggers_total",
			Help: "Scheduled triggers skipped because a pass was still running",
		},
	)

	GamesSavedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mlb_games_saved_total",
			Help: "Games inserted into the schedule",
		},
	)

	GamesReplacedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mlb_games_replaced_total",
			Help: "Stored games deleted and reinserted at a corrected position",
		},
	)

	SuspendedGamesSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mlb_suspended_games_skipped_total",
			Help: "Feed entries skipped as duplicates of suspended games",
		},
	)

	PromotionReplacementsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mlb_promotion_replacements_total",
			Help: "Promotion sets replaced after a mismatch",
		},
	)

	TeamRecordUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mlb_team_record_updates_total",
			Help: "Team win-loss records overwritten from standings",
		},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlb_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mlb_cache_hits_total",
			Help: "Total number of schedule cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mlb_cache_misses_total",
			Help: "Total number of schedule cache misses",
		},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mlb_system_uptime_seconds",
			Help: "Worker uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
}
