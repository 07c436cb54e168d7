package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "augur_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "augur_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"worker"},
	)

	WorkerLastRun = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "augur_worker_last_run_timestamp",
			Help: "Unix timestamp of last worker execution",
		},
		[]string{"worker"},
	)

	// Feed metrics
	FeedRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "augur_feed_requests_total",
			Help: "Total number of calendar feed requests",
		},
		[]string{"status"}, // status: success|error
	)

	FeedAnnouncements = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "augur_feed_announcements_total",
			Help: "Total announcements returned by the calendar feed",
		},
	)

	// Ingestion metrics
	AnnouncementsIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "augur_announcements_ingested_total",
			Help: "Total announcements persisted",
		},
		[]string{"status"}, // status: stored|error
	)

	// Scoring metrics
	Assessments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "augur_assessments_total",
			Help: "Total impact assessments computed",
		},
		[]string{"indicator", "direction"},
	)

	ScoringDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "augur_scoring_duration_seconds",
			Help:    "Impact scoring duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"operation"}, // operation: score|combine
	)

	SkippedEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "augur_skipped_events_total",
			Help: "Total events skipped during batch assessment",
		},
		[]string{"reason"},
	)

	// Database metrics
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "augur_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"database", "operation", "status"}, // database: postgres|redis
	)

	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "augur_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"database", "operation"},
	)

	// Alert metrics
	AlertsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "augur_alerts_sent_total",
			Help: "Total alert messages sent",
		},
		[]string{"channel", "status"}, // channel: telegram
	)
)

// Init registers all metrics with Prometheus
func Init() {
	prometheus.MustRegister(WorkerExecutions)
	prometheus.MustRegister(WorkerDuration)
	prometheus.MustRegister(WorkerLastRun)

	prometheus.MustRegister(FeedRequests)
	prometheus.MustRegister(FeedAnnouncements)

	prometheus.MustRegister(AnnouncementsIngested)

	prometheus.MustRegister(Assessments)
	prometheus.MustRegister(ScoringDuration)
	prometheus.MustRegister(SkippedEvents)

	prometheus.MustRegister(DBQueries)
	prometheus.MustRegister(DBQueryDuration)

	prometheus.MustRegister(AlertsSent)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordWorkerExecution records a worker execution
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	WorkerExecutions.WithLabelValues(worker, status).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
	WorkerLastRun.WithLabelValues(worker).SetToCurrentTime()
}

// RecordFeedRequest records a calendar feed fetch
func RecordFeedRequest(count int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	FeedRequests.WithLabelValues(status).Inc()
	if count > 0 {
		FeedAnnouncements.Add(float64(count))
	}
}

// RecordAssessment records a computed impact assessment
func RecordAssessment(indicator, direction string, duration time.Duration) {
	Assessments.WithLabelValues(indicator, direction).Inc()
	ScoringDuration.WithLabelValues("score").Observe(duration.Seconds())
}

// RecordDBQuery records a database query
func RecordDBQuery(database, operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	DBQueries.WithLabelValues(database, operation, status).Inc()
	DBQueryDuration.WithLabelValues(database, operation).Observe(duration.Seconds())
}
