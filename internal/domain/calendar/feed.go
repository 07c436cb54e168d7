package calendar

import (
	"context"
	"time"
)

// Feed is the boundary toward the external calendar provider. Retrieval
// mechanics (auth, pagination, rate limiting) live behind this interface;
// the engine only consumes the resulting announcement records.
type Feed interface {
	// Fetch returns announcements scheduled in [from, to] at or above
	// minTier. An empty result is valid. Provider failures are wrapped
	// with errors.ErrFeed; retry policy belongs to the implementation.
	Fetch(ctx context.Context, from, to time.Time, minTier ImportanceTier) ([]Announcement, error)
}
