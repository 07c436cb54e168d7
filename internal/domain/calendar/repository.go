package calendar

import (
	"context"
	"time"
)

// Repository defines the interface for calendar data access
type Repository interface {
	// InsertAnnouncement persists an announcement. Re-submission of an
	// identical record (same title, country, event time and actual) is a
	// no-op; a record with a corrected actual is stored as a new row.
	InsertAnnouncement(ctx context.Context, ann *Announcement) error

	// InsertOutcome persists a realized outcome. The referenced
	// announcement must exist.
	InsertOutcome(ctx context.Context, out *Outcome) error

	// RecentOutcomes returns up to limit outcomes for announcements with
	// the given title and country measured against symbol, most recent
	// announcement first. An empty result is not an error.
	RecentOutcomes(ctx context.Context, title, country, symbol string, limit int) ([]Outcome, error)

	// UpcomingAnnouncements returns announcements scheduled in [from, to]
	// at or above the given importance tier, ordered by event time.
	UpcomingAnnouncements(ctx context.Context, from, to time.Time, minTier ImportanceTier) ([]Announcement, error)
}
