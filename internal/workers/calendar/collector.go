package calendar

import (
	"context"
	"time"

	"augur/internal/domain/calendar"
	calendarsvc "augur/internal/services/calendar"
	"augur/internal/workers"
	"augur/pkg/errors"
)

// Collector periodically pulls the economic calendar and persists
// announcements. Tracks CPI, NFP, rate decisions, GDP releases, etc.
type Collector struct {
	*workers.BaseWorker
	service       *calendarsvc.Service
	lookbackDays  int
	lookaheadDays int
	minTier       calendar.ImportanceTier
}

// NewCollector creates a new calendar collector worker
func NewCollector(
	service *calendarsvc.Service,
	lookbackDays int,
	lookaheadDays int,
	minTier calendar.ImportanceTier,
	interval time.Duration,
	enabled bool,
) *Collector {
	return &Collector{
		BaseWorker:    workers.NewBaseWorker("calendar_collector", interval, enabled),
		service:       service,
		lookbackDays:  lookbackDays,
		lookaheadDays: lookaheadDays,
		minTier:       minTier,
	}
}

// Run executes one iteration of calendar collection. The window
// reaches back to pick up freshly released actuals for announcements
// already collected as scheduled.
func (c *Collector) Run(ctx context.Context) error {
	c.Log().Debug("Calendar collector: starting iteration")

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -c.lookbackDays)
	to := now.AddDate(0, 0, c.lookaheadDays)

	stored, err := c.service.Ingest(ctx, from, to, c.minTier)
	if err != nil {
		c.Log().Error("Calendar collection failed", "error", err)
		return errors.Wrap(err, "ingest calendar window")
	}

	if stored > 0 {
		c.Log().Info("Calendar collection completed", "stored", stored)
	}

	return nil
}
