package calendar

import (
	"context"
	"time"

	"augur/internal/domain/calendar"
	"augur/internal/metrics"
	calendarsvc "augur/internal/services/calendar"
	"augur/internal/workers"
	"augur/pkg/errors"
)

// Notifier delivers alert digests to a chat channel
type Notifier interface {
	SendUpcomingAlert(ctx context.Context, announcements []calendar.Announcement) error
}

// AlertWorker periodically sends a digest of high-impact announcements
// scheduled within the alert window.
type AlertWorker struct {
	*workers.BaseWorker
	service  *calendarsvc.Service
	notifier Notifier
	window   time.Duration

	// Suppress repeat alerts for announcements already announced
	seen map[string]time.Time
}

// NewAlertWorker creates a new upcoming-announcement alert worker
func NewAlertWorker(
	service *calendarsvc.Service,
	notifier Notifier,
	window time.Duration,
	interval time.Duration,
	enabled bool,
) *AlertWorker {
	return &AlertWorker{
		BaseWorker: workers.NewBaseWorker("upcoming_alerts", interval, enabled),
		service:    service,
		notifier:   notifier,
		window:     window,
		seen:       make(map[string]time.Time),
	}
}

// Run executes one iteration of alert delivery
func (w *AlertWorker) Run(ctx context.Context) error {
	w.Log().Debug("Alert worker: starting iteration")

	upcoming, err := w.service.Upcoming(ctx, w.window, calendar.TierHigh)
	if err != nil {
		return errors.Wrap(err, "load upcoming announcements")
	}

	fresh := w.filterSeen(upcoming)
	if len(fresh) == 0 {
		w.Log().Debug("No new high-impact announcements in window")
		return nil
	}

	if err := w.notifier.SendUpcomingAlert(ctx, fresh); err != nil {
		metrics.AlertsSent.WithLabelValues("telegram", "error").Inc()
		return errors.Wrap(err, "send upcoming alert")
	}
	metrics.AlertsSent.WithLabelValues("telegram", "success").Inc()

	w.Log().Info("Upcoming alert sent", "announcements", len(fresh))
	return nil
}

// filterSeen drops announcements already alerted on and prunes stale
// entries from the seen set.
func (w *AlertWorker) filterSeen(announcements []calendar.Announcement) []calendar.Announcement {
	now := time.Now().UTC()

	for key, eventTime := range w.seen {
		if eventTime.Before(now.Add(-w.window)) {
			delete(w.seen, key)
		}
	}

	fresh := make([]calendar.Announcement, 0, len(announcements))
	for _, ann := range announcements {
		key := ann.Title + "|" + ann.Country + "|" + ann.EventTime.Format(time.RFC3339)
		if _, ok := w.seen[key]; ok {
			continue
		}
		w.seen[key] = ann.EventTime
		fresh = append(fresh, ann)
	}

	return fresh
}
