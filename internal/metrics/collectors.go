package metrics

import (
	"context"
	"time"

	"augur/pkg/logger"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
)

// CustomCollector collects gauge metrics straight from the database
type CustomCollector struct {
	log      *logger.Logger
	postgres *sqlx.DB

	totalAnnouncements    *prometheus.Desc
	totalOutcomes         *prometheus.Desc
	upcomingAnnouncements *prometheus.Desc
}

// NewCustomCollector creates a new custom metrics collector
func NewCustomCollector(log *logger.Logger, postgres *sqlx.DB) *CustomCollector {
	return &CustomCollector{
		log:      log,
		postgres: postgres,

		totalAnnouncements: prometheus.NewDesc(
			"augur_total_announcements",
			"Total number of stored announcements by importance",
			[]string{"importance"}, nil,
		),
		totalOutcomes: prometheus.NewDesc(
			"augur_total_outcomes",
			"Total number of recorded market outcomes",
			nil, nil,
		),
		upcomingAnnouncements: prometheus.NewDesc(
			"augur_upcoming_announcements_24h",
			"Announcements scheduled within the next 24 hours",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *CustomCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalAnnouncements
	ch <- c.totalOutcomes
	ch <- c.upcomingAnnouncements
}

// Collect implements prometheus.Collector
func (c *CustomCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.collectAnnouncements(ctx, ch)
	c.collectOutcomes(ctx, ch)
	c.collectUpcoming(ctx, ch)
}

func (c *CustomCollector) collectAnnouncements(ctx context.Context, ch chan<- prometheus.Metric) {
	rows := []struct {
		Importance string `db:"importance"`
		Count      int64  `db:"count"`
	}{}

	err := c.postgres.SelectContext(ctx, &rows,
		`SELECT importance, COUNT(*) AS count FROM announcements GROUP BY importance`)
	if err != nil {
		c.log.Warnw("Failed to collect announcement counts", "error", err)
		return
	}

	for _, row := range rows {
		ch <- prometheus.MustNewConstMetric(
			c.totalAnnouncements, prometheus.GaugeValue, float64(row.Count), row.Importance)
	}
}

func (c *CustomCollector) collectOutcomes(ctx context.Context, ch chan<- prometheus.Metric) {
	var count int64
	err := c.postgres.GetContext(ctx, &count, `SELECT COUNT(*) FROM outcomes`)
	if err != nil {
		c.log.Warnw("Failed to collect outcome count", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.totalOutcomes, prometheus.GaugeValue, float64(count))
}

func (c *CustomCollector) collectUpcoming(ctx context.Context, ch chan<- prometheus.Metric) {
	var count int64
	err := c.postgres.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM announcements WHERE event_time BETWEEN NOW() AND NOW() + INTERVAL '24 hours'`)
	if err != nil {
		c.log.Warnw("Failed to collect upcoming announcement count", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.upcomingAnnouncements, prometheus.GaugeValue, float64(count))
}
