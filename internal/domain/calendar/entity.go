package calendar

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Announcement represents one scheduled economic release as received from
// the calendar feed. Records are immutable once persisted; a corrected
// actual reported by the feed becomes a new record, never an update.
type Announcement struct {
	ID       uuid.UUID `db:"id"`
	Title    string    `db:"title"`
	Country  string    `db:"country"`
	Currency string    `db:"currency"`

	// Timing
	EventTime time.Time `db:"event_time"`

	// Values. nil means "not reported", which is distinct from zero.
	Actual   *float64 `db:"actual"`
	Forecast *float64 `db:"forecast"`
	Previous *float64 `db:"previous"`

	// Importance tier as provided by the feed
	Importance ImportanceTier `db:"importance"`

	CollectedAt time.Time `db:"collected_at"`
}

// Released reports whether the actual value has been published.
func (a *Announcement) Released() bool {
	return a.Actual != nil
}

// Surprise returns actual - forecast, or false when either is missing.
func (a *Announcement) Surprise() (float64, bool) {
	if a.Actual == nil || a.Forecast == nil {
		return 0, false
	}
	return *a.Actual - *a.Forecast, true
}

// Trend returns actual - previous, or false when either is missing.
func (a *Announcement) Trend() (float64, bool) {
	if a.Actual == nil || a.Previous == nil {
		return 0, false
	}
	return *a.Actual - *a.Previous, true
}

// Outcome is the realized market reaction to one Announcement for one
// instrument, measured after the fact by an external process. The engine
// stores and averages outcomes, it never computes them.
type Outcome struct {
	ID             uuid.UUID `db:"id"`
	AnnouncementID uuid.UUID `db:"announcement_id"`
	Symbol         string    `db:"symbol"`

	// Signed price move in percent over the impact window
	PriceImpact decimal.Decimal `db:"price_impact"`

	// Volatility magnitude over the impact window
	VolatilityImpact decimal.Decimal `db:"volatility_impact"`

	DurationHours int `db:"duration_hours"`
}

// ImportanceTier defines announcement importance as reported by the feed
type ImportanceTier string

const (
	TierLow    ImportanceTier = "low"
	TierMedium ImportanceTier = "medium"
	TierHigh   ImportanceTier = "high"
)

// Valid checks if the tier is valid
func (t ImportanceTier) Valid() bool {
	switch t {
	case TierLow, TierMedium, TierHigh:
		return true
	}
	return false
}

// Weight returns the fixed impact multiplier for the tier.
// HIGH=1.0, MEDIUM=0.6, LOW=0.3.
func (t ImportanceTier) Weight() float64 {
	switch t {
	case TierHigh:
		return 1.0
	case TierMedium:
		return 0.6
	case TierLow:
		return 0.3
	}
	return 0
}

// Rank orders tiers for minimum-importance filtering: low < medium < high.
func (t ImportanceTier) Rank() int {
	switch t {
	case TierHigh:
		return 3
	case TierMedium:
		return 2
	case TierLow:
		return 1
	}
	return 0
}

// String returns string representation
func (t ImportanceTier) String() string {
	return string(t)
}
