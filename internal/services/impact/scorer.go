package impact

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"augur/internal/domain/calendar"
	"augur/internal/metrics"
	"augur/pkg/errors"
	"augur/pkg/logger"
)

const (
	// activityMidpoint is the neutral level of diffusion indices; actual
	// readings above it signal expansion, below it contraction
	activityMidpoint = 50.0

	// activityScale divides the raw point surprise when scaling activity
	// strength. Unlike the threshold rules, no tier weight is applied.
	activityScale = 2.0

	// defaultDurationHours is assumed when no realized outcomes exist
	defaultDurationHours = 24

	// historyLimit caps how many past outcomes calibrate an assessment
	historyLimit = 10
)

// Service scores announcements against instruments using the static
// catalog and the realized-outcome history.
type Service struct {
	catalog *Catalog
	repo    calendar.Repository
	log     *logger.Logger
}

// NewService creates a new impact service
func NewService(catalog *Catalog, repo calendar.Repository, log *logger.Logger) *Service {
	return &Service{
		catalog: catalog,
		repo:    repo,
		log:     log,
	}
}

// Score produces the impact assessment of one announcement for one
// instrument. An unknown indicator type yields a neutral assessment, not
// an error; ErrData is returned for a zero forecast denominator on a
// relative-basis indicator.
func (s *Service) Score(ctx context.Context, ann *calendar.Announcement, symbol string) (Assessment, error) {
	start := time.Now()
	key := Classify(ann.Title)

	def, ok := s.catalog.Lookup(key)
	if !ok {
		metrics.RecordAssessment(string(key), string(DirectionNeutral), time.Since(start))
		return Assessment{
			Indicator:             key,
			Direction:             DirectionNeutral,
			ExpectedDurationHours: defaultDurationHours,
			Notes:                 "Unknown event type",
		}, nil
	}

	var (
		assessment Assessment
		err        error
	)
	if def.Rule == RuleActivity {
		assessment = scoreActivity(def, ann)
	} else {
		assessment, err = scoreThreshold(def, ann)
		if err != nil {
			return Assessment{}, err
		}
	}

	hist := s.history(ctx, ann, symbol)
	assessment.HistoricalImpact = hist.priceImpact
	assessment.ExpectedVolatility = hist.volatility
	assessment.ExpectedDurationHours = hist.durationHours
	assessment.Notes = fmt.Sprintf("Historical average impact: %.2f%%", hist.priceImpact)
	if def.Rule == RuleInflation {
		if trend, ok := ann.Trend(); ok && trend != 0 {
			word := "rising"
			if trend < 0 {
				word = "falling"
			}
			assessment.Notes += fmt.Sprintf(". Inflation %s trend", word)
		}
	}

	metrics.RecordAssessment(string(key), string(assessment.Direction), time.Since(start))
	return assessment, nil
}

// scoreThreshold applies the generic surprise-vs-threshold rule shared by
// the generic, rate-policy and inflation interpretations. Only the
// direction vocabulary differs between them.
func scoreThreshold(def IndicatorDefinition, ann *calendar.Announcement) (Assessment, error) {
	assessment := Assessment{
		Indicator: def.Key,
		Rule:      def.Rule,
		Direction: DirectionNeutral,
	}

	var deviation float64
	if ann.Actual != nil && ann.Forecast != nil {
		switch def.Basis {
		case BasisRelative:
			if *ann.Forecast == 0 {
				return Assessment{}, errors.Wrapf(errors.ErrData,
					"zero forecast denominator for %q", ann.Title)
			}
			deviation = (*ann.Actual - *ann.Forecast) / *ann.Forecast
		case BasisAbsolute:
			deviation = *ann.Actual - *ann.Forecast
		}
	}
	assessment.Deviation = deviation

	// Strictly greater than: a deviation exactly at the threshold stays
	// neutral.
	if math.Abs(deviation) > def.Threshold {
		if deviation > 0 {
			assessment.Direction = higherDirection(def.Rule)
		} else {
			assessment.Direction = lowerDirection(def.Rule)
		}
		assessment.Strength = math.Min(math.Abs(deviation/def.Threshold), 1.0) * def.Tier.Weight()
	}

	return assessment, nil
}

// scoreActivity applies the diffusion-index rule: direction comes from the
// actual level relative to the 50 midpoint instead of the surprise sign,
// and strength scales the raw point surprise without a tier weight.
func scoreActivity(def IndicatorDefinition, ann *calendar.Announcement) Assessment {
	assessment := Assessment{
		Indicator: def.Key,
		Rule:      def.Rule,
		Direction: DirectionNeutral,
	}

	if ann.Actual == nil {
		return assessment
	}

	if surprise, ok := ann.Surprise(); ok {
		assessment.Deviation = surprise
	}

	switch {
	case *ann.Actual > activityMidpoint:
		assessment.Direction = DirectionExpansion
	case *ann.Actual < activityMidpoint:
		assessment.Direction = DirectionContraction
	default:
		return assessment
	}

	assessment.Strength = math.Min(math.Abs(assessment.Deviation)/activityScale, 1.0)
	return assessment
}

func higherDirection(rule Rule) Direction {
	switch rule {
	case RulePolicy:
		return DirectionHawkish
	case RuleInflation:
		return DirectionHigher
	}
	return DirectionBullish
}

func lowerDirection(rule Rule) Direction {
	switch rule {
	case RulePolicy:
		return DirectionDovish
	case RuleInflation:
		return DirectionLower
	}
	return DirectionBearish
}

type historicalStats struct {
	priceImpact   float64
	volatility    float64
	durationHours int
}

// history averages the most recent realized outcomes for announcements
// with the same reported title and country against the instrument.
// History is calibration, not a correctness requirement: a repository
// failure degrades to the no-history defaults instead of failing the
// request.
func (s *Service) history(ctx context.Context, ann *calendar.Announcement, symbol string) historicalStats {
	stats := historicalStats{durationHours: defaultDurationHours}

	outcomes, err := s.repo.RecentOutcomes(ctx, ann.Title, ann.Country, symbol, historyLimit)
	if err != nil {
		s.log.Warnw("Historical outcomes unavailable, scoring without calibration",
			"title", ann.Title,
			"country", ann.Country,
			"symbol", symbol,
			"error", err,
		)
		return stats
	}
	if len(outcomes) == 0 {
		return stats
	}

	prices := make([]decimal.Decimal, 0, len(outcomes))
	vols := make([]decimal.Decimal, 0, len(outcomes))
	totalHours := 0
	for _, out := range outcomes {
		prices = append(prices, out.PriceImpact)
		vols = append(vols, out.VolatilityImpact)
		totalHours += out.DurationHours
	}

	stats.priceImpact, _ = decimal.Avg(prices[0], prices[1:]...).Float64()
	stats.volatility, _ = decimal.Avg(vols[0], vols[1:]...).Float64()
	stats.durationHours = totalHours / len(outcomes)

	return stats
}
