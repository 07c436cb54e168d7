package impact

import (
	"context"
	"fmt"
	"math"
	"time"

	"augur/internal/domain/calendar"
	"augur/internal/metrics"
)

// Combine scores every announcement against the instrument and folds the
// non-neutral results into one net signal. A single malformed event does
// not abort the batch: it is excluded and recorded in Skipped. The signed
// contributions are combined by plain addition, so the result does not
// depend on announcement order.
func (s *Service) Combine(ctx context.Context, announcements []calendar.Announcement, symbol string) (CombinedAssessment, error) {
	start := time.Now()
	defer func() {
		metrics.ScoringDuration.WithLabelValues("combine").Observe(time.Since(start).Seconds())
	}()

	var (
		total         float64
		maxVolatility float64
		relevant      []Contribution
		skipped       []SkippedEvent
	)

	for i := range announcements {
		ann := &announcements[i]

		assessment, err := s.Score(ctx, ann, symbol)
		if err != nil {
			s.log.Warnw("Excluding event from combined assessment",
				"title", ann.Title,
				"symbol", symbol,
				"error", err,
			)
			metrics.SkippedEvents.WithLabelValues("score_error").Inc()
			skipped = append(skipped, SkippedEvent{Title: ann.Title, Reason: err.Error()})
			continue
		}
		if assessment.Neutral() {
			continue
		}

		total += assessment.Direction.Sign() * assessment.Strength
		if assessment.ExpectedVolatility > maxVolatility {
			maxVolatility = assessment.ExpectedVolatility
		}
		relevant = append(relevant, Contribution{Title: ann.Title, Assessment: assessment})
	}

	if len(relevant) == 0 {
		return CombinedAssessment{
			Direction: DirectionNeutral,
			Skipped:   skipped,
			Notes:     "No significant events found",
		}, nil
	}

	// Squash the unbounded signed sum into (-1, 1)
	normalized := math.Tanh(total)

	direction := DirectionBearish
	if normalized > 0 {
		direction = DirectionBullish
	}

	return CombinedAssessment{
		Direction:          direction,
		Strength:           math.Abs(normalized),
		ExpectedVolatility: maxVolatility,
		RelevantEvents:     relevant,
		Skipped:            skipped,
		Notes:              fmt.Sprintf("Combined impact based on %d events", len(relevant)),
	}, nil
}
