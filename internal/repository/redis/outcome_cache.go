package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"augur/internal/domain/calendar"
	"augur/pkg/logger"
)

// Compile-time check
var _ calendar.Repository = (*CachedCalendarRepository)(nil)

// CachedCalendarRepository decorates a calendar.Repository with a Redis
// read-through cache for the recent-outcomes lookup, the only query on
// the scoring hot path. History changes slowly, so serving a stale entry
// within the TTL is acceptable. Cache failures fall through to the
// underlying repository.
type CachedCalendarRepository struct {
	inner  calendar.Repository
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewCachedCalendarRepository creates the caching decorator
func NewCachedCalendarRepository(inner calendar.Repository, client *redis.Client, ttl time.Duration, log *logger.Logger) *CachedCalendarRepository {
	return &CachedCalendarRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// InsertAnnouncement passes through to the underlying repository
func (r *CachedCalendarRepository) InsertAnnouncement(ctx context.Context, ann *calendar.Announcement) error {
	return r.inner.InsertAnnouncement(ctx, ann)
}

// InsertOutcome passes through and drops any cached lookups for the
// affected symbol so the next read picks the new outcome up
func (r *CachedCalendarRepository) InsertOutcome(ctx context.Context, out *calendar.Outcome) error {
	if err := r.inner.InsertOutcome(ctx, out); err != nil {
		return err
	}

	pattern := fmt.Sprintf("outcomes:*:%s:*", out.Symbol)
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			r.log.Warnw("Failed to invalidate outcome cache entry", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		r.log.Warnw("Outcome cache invalidation scan failed", "symbol", out.Symbol, "error", err)
	}

	return nil
}

// RecentOutcomes serves from cache when possible
func (r *CachedCalendarRepository) RecentOutcomes(ctx context.Context, title, country, symbol string, limit int) ([]calendar.Outcome, error) {
	key := r.outcomeKey(title, country, symbol, limit)

	data, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var outcomes []calendar.Outcome
		if err := json.Unmarshal(data, &outcomes); err == nil {
			return outcomes, nil
		}
		// Corrupt entry, fall through and rewrite it
		r.client.Del(ctx, key)
	} else if err != redis.Nil {
		r.log.Warnw("Outcome cache read failed, querying store", "key", key, "error", err)
	}

	outcomes, err := r.inner.RecentOutcomes(ctx, title, country, symbol, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(outcomes); err == nil {
		if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
			r.log.Warnw("Outcome cache write failed", "key", key, "error", err)
		}
	}

	return outcomes, nil
}

// UpcomingAnnouncements passes through; the schedule is not on the
// scoring hot path
func (r *CachedCalendarRepository) UpcomingAnnouncements(ctx context.Context, from, to time.Time, minTier calendar.ImportanceTier) ([]calendar.Announcement, error) {
	return r.inner.UpcomingAnnouncements(ctx, from, to, minTier)
}

func (r *CachedCalendarRepository) outcomeKey(title, country, symbol string, limit int) string {
	return fmt.Sprintf("outcomes:%s|%s:%s:%d", title, country, symbol, limit)
}
