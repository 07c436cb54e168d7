package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"augur/internal/domain/calendar"
	"augur/internal/metrics"
	"augur/pkg/errors"
)

// Compile-time check
var _ calendar.Repository = (*CalendarRepository)(nil)

// foreignKeyViolation is the Postgres error code for FK failures
const foreignKeyViolation = "23503"

// CalendarRepository implements calendar.Repository using sqlx
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository creates a new calendar repository
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// InsertAnnouncement persists an announcement. The natural key
// (title, country, event_time, actual) deduplicates re-fetches of the
// same record, while a corrected actual lands as a fresh row so the
// reporting history stays intact.
func (r *CalendarRepository) InsertAnnouncement(ctx context.Context, ann *calendar.Announcement) error {
	query := `
		INSERT INTO announcements (
			id, title, country, currency, event_time,
			actual, forecast, previous, importance, collected_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		ON CONFLICT (title, country, event_time, actual) DO NOTHING`

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		ann.ID, ann.Title, ann.Country, ann.Currency, ann.EventTime,
		ann.Actual, ann.Forecast, ann.Previous, ann.Importance, ann.CollectedAt,
	)
	metrics.RecordDBQuery("postgres", "insert_announcement", time.Since(start), err)
	if err != nil {
		return errors.Wrapf(errors.ErrPersistence, "insert announcement %q: %v", ann.Title, err)
	}

	return nil
}

// InsertOutcome persists a realized outcome for an existing announcement
func (r *CalendarRepository) InsertOutcome(ctx context.Context, out *calendar.Outcome) error {
	query := `
		INSERT INTO outcomes (
			id, announcement_id, symbol,
			price_impact, volatility_impact, duration_hours
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)`

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		out.ID, out.AnnouncementID, out.Symbol,
		out.PriceImpact, out.VolatilityImpact, out.DurationHours,
	)
	metrics.RecordDBQuery("postgres", "insert_outcome", time.Since(start), err)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == foreignKeyViolation {
			return errors.Wrapf(errors.ErrNotFound,
				"announcement %s does not exist", out.AnnouncementID)
		}
		return errors.Wrapf(errors.ErrPersistence, "insert outcome for %s: %v", out.Symbol, err)
	}

	return nil
}

// RecentOutcomes returns the most recent outcomes for announcements with
// the given title and country measured against symbol, newest
// announcement first
func (r *CalendarRepository) RecentOutcomes(ctx context.Context, title, country, symbol string, limit int) ([]calendar.Outcome, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT o.id, o.announcement_id, o.symbol,
		       o.price_impact, o.volatility_impact, o.duration_hours
		FROM outcomes o
		JOIN announcements a ON a.id = o.announcement_id
		WHERE a.title = $1
		  AND a.country = $2
		  AND o.symbol = $3
		ORDER BY a.event_time DESC
		LIMIT $4`

	var outcomes []calendar.Outcome
	start := time.Now()
	err := r.db.SelectContext(ctx, &outcomes, query, title, country, symbol, limit)
	metrics.RecordDBQuery("postgres", "recent_outcomes", time.Since(start), err)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrPersistence, "query recent outcomes: %v", err)
	}

	return outcomes, nil
}

// UpcomingAnnouncements returns announcements scheduled in [from, to] at
// or above the given importance tier, ordered by event time
func (r *CalendarRepository) UpcomingAnnouncements(ctx context.Context, from, to time.Time, minTier calendar.ImportanceTier) ([]calendar.Announcement, error) {
	query := `
		SELECT id, title, country, currency, event_time,
		       actual, forecast, previous, importance, collected_at
		FROM announcements
		WHERE event_time >= $1
		  AND event_time <= $2
		  AND importance = ANY($3)
		ORDER BY event_time ASC`

	var anns []calendar.Announcement
	start := time.Now()
	err := r.db.SelectContext(ctx, &anns, query, from, to, pq.Array(tiersAtLeast(minTier)))
	metrics.RecordDBQuery("postgres", "upcoming_announcements", time.Since(start), err)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrPersistence, "query upcoming announcements: %v", err)
	}

	return anns, nil
}

func tiersAtLeast(min calendar.ImportanceTier) []string {
	all := []calendar.ImportanceTier{calendar.TierLow, calendar.TierMedium, calendar.TierHigh}

	tiers := make([]string, 0, len(all))
	for _, t := range all {
		if t.Rank() >= min.Rank() {
			tiers = append(tiers, t.String())
		}
	}
	return tiers
}
