package impact

// Direction is the classified market direction of an assessment. The
// vocabulary depends on the indicator's interpretation rule: generic
// releases are bullish/bearish, rate decisions hawkish/dovish, inflation
// prints higher/lower, diffusion indices expansion/contraction. All share
// a sign so that assessments of different kinds can be summed.
type Direction string

const (
	DirectionNeutral Direction = "neutral"

	// RuleGeneric
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"

	// RulePolicy
	DirectionHawkish Direction = "hawkish"
	DirectionDovish  Direction = "dovish"

	// RuleInflation
	DirectionHigher Direction = "higher"
	DirectionLower  Direction = "lower"

	// RuleActivity
	DirectionExpansion   Direction = "expansion"
	DirectionContraction Direction = "contraction"
)

// Sign returns +1 for currency-positive directions, -1 for
// currency-negative ones and 0 for neutral.
func (d Direction) Sign() float64 {
	switch d {
	case DirectionBullish, DirectionHawkish, DirectionHigher, DirectionExpansion:
		return 1
	case DirectionBearish, DirectionDovish, DirectionLower, DirectionContraction:
		return -1
	}
	return 0
}

// String returns string representation
func (d Direction) String() string {
	return string(d)
}

// Assessment is the computed impact of one announcement on one instrument.
type Assessment struct {
	Indicator IndicatorKey
	Rule      Rule
	Direction Direction

	// Strength is normalized to [0, 1]
	Strength float64

	// Deviation is the raw surprise measure the rule operated on:
	// relative deviation from forecast for threshold rules, the absolute
	// point difference for activity indices
	Deviation float64

	// Historical calibration, zero-valued when no outcomes are on record
	HistoricalImpact      float64
	ExpectedVolatility    float64
	ExpectedDurationHours int

	Notes string
}

// Neutral reports whether the assessment carries no directional signal.
func (a Assessment) Neutral() bool {
	return a.Direction == DirectionNeutral
}

// Contribution ties an assessment back to the announcement it was
// derived from.
type Contribution struct {
	Title      string
	Assessment Assessment
}

// SkippedEvent records an announcement excluded from a combined
// assessment because its own scoring failed.
type SkippedEvent struct {
	Title  string
	Reason string
}

// CombinedAssessment is the net signal for one instrument across multiple
// concurrent announcements.
type CombinedAssessment struct {
	Direction Direction

	// Strength is the tanh-squashed signed sum of contributions, in [0, 1)
	Strength float64

	// ExpectedVolatility is the maximum across contributing events
	ExpectedVolatility float64

	RelevantEvents []Contribution
	Skipped        []SkippedEvent

	Notes string
}
