package calendar

import (
	"context"
	"time"

	"augur/internal/domain/calendar"
	"augur/internal/metrics"
	"augur/pkg/errors"
	"augur/pkg/logger"
)

// Service handles calendar ingestion (application layer).
// It pulls announcements from the feed and persists them, and records
// observed market outcomes against stored announcements.
type Service struct {
	feed calendar.Feed
	repo calendar.Repository
	log  *logger.Logger
}

// NewService creates a new calendar application service
func NewService(feed calendar.Feed, repo calendar.Repository) *Service {
	return &Service{
		feed: feed,
		repo: repo,
		log:  logger.Get().With("component", "calendar_service"),
	}
}

// Ingest fetches announcements in [from, to] at or above minTier and
// persists them. Returns the number of newly stored announcements.
// Individual store failures are logged and skipped so one bad row does
// not abort the batch.
func (s *Service) Ingest(ctx context.Context, from, to time.Time, minTier calendar.ImportanceTier) (int, error) {
	announcements, err := s.feed.Fetch(ctx, from, to, minTier)
	metrics.RecordFeedRequest(len(announcements), err)
	if err != nil {
		return 0, errors.Wrap(err, "fetch announcements")
	}

	if len(announcements) == 0 {
		s.log.Debug("No announcements returned by feed")
		return 0, nil
	}

	stored := 0
	for i := range announcements {
		if err := s.repo.InsertAnnouncement(ctx, &announcements[i]); err != nil {
			metrics.AnnouncementsIngested.WithLabelValues("error").Inc()
			s.log.Errorw("Failed to store announcement",
				"title", announcements[i].Title,
				"country", announcements[i].Country,
				"error", err,
			)
			continue
		}
		metrics.AnnouncementsIngested.WithLabelValues("stored").Inc()
		stored++
	}

	s.log.Infow("Announcements ingested",
		"fetched", len(announcements),
		"stored", stored,
	)

	return stored, nil
}

// RecordOutcome persists an observed market outcome for an announcement.
// The announcement must already exist; a dangling reference surfaces as
// ErrNotFound from the repository.
func (s *Service) RecordOutcome(ctx context.Context, outcome *calendar.Outcome) error {
	if outcome.Symbol == "" {
		return errors.Wrapf(errors.ErrInvalidInput, "outcome symbol is required")
	}
	if outcome.DurationHours <= 0 {
		return errors.Wrapf(errors.ErrInvalidInput, "outcome duration must be positive, got %d", outcome.DurationHours)
	}

	if err := s.repo.InsertOutcome(ctx, outcome); err != nil {
		return errors.Wrap(err, "insert outcome")
	}

	s.log.Debugw("Outcome recorded",
		"announcement_id", outcome.AnnouncementID,
		"symbol", outcome.Symbol,
	)
	return nil
}

// Upcoming returns stored announcements scheduled within the window
// starting now, at or above minTier.
func (s *Service) Upcoming(ctx context.Context, window time.Duration, minTier calendar.ImportanceTier) ([]calendar.Announcement, error) {
	now := time.Now().UTC()
	announcements, err := s.repo.UpcomingAnnouncements(ctx, now, now.Add(window), minTier)
	if err != nil {
		return nil, errors.Wrap(err, "load upcoming announcements")
	}
	return announcements, nil
}
