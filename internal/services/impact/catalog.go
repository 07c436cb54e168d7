package impact

import (
	"augur/internal/domain/calendar"
)

// IndicatorKey identifies a canonical indicator type in the catalog
type IndicatorKey string

const (
	IndicatorGDP          IndicatorKey = "GDP"
	IndicatorInterestRate IndicatorKey = "Interest Rate"
	IndicatorNFP          IndicatorKey = "NFP"
	IndicatorCPI          IndicatorKey = "CPI"
	IndicatorRetailSales  IndicatorKey = "Retail Sales"
	IndicatorPMI          IndicatorKey = "PMI"
	IndicatorUnknown      IndicatorKey = "Unknown"
)

// String returns string representation
func (k IndicatorKey) String() string {
	return string(k)
}

// Rule selects the interpretation of a surprise and with it the direction
// vocabulary of the resulting assessment.
type Rule string

const (
	// RuleGeneric reads a positive surprise as bullish for the currency
	RuleGeneric Rule = "generic"

	// RulePolicy covers rate decisions; a positive surprise is hawkish
	RulePolicy Rule = "rate_policy"

	// RuleInflation covers price indices; direction is higher/lower
	RuleInflation Rule = "inflation"

	// RuleActivity covers diffusion indices centered on 50; direction is
	// taken from the absolute level, not the surprise
	RuleActivity Rule = "activity_index"
)

// SurpriseBasis selects how the deviation from forecast is measured.
type SurpriseBasis string

const (
	// BasisRelative measures (actual - forecast) / forecast. Undefined
	// for a zero forecast, which surfaces as ErrData.
	BasisRelative SurpriseBasis = "relative"

	// BasisAbsolute measures actual - forecast in the indicator's own
	// unit, e.g. a job count for NFP or index points for PMI.
	BasisAbsolute SurpriseBasis = "absolute"
)

// IndicatorDefinition is the static catalog entry for one indicator type.
type IndicatorDefinition struct {
	Key        IndicatorKey
	Tier       calendar.ImportanceTier
	Currencies []string
	Rule       Rule
	Basis      SurpriseBasis

	// Threshold is in the same unit as the deviation the basis produces.
	// Deviations at or below the threshold are neutral; strict greater-
	// than is required to classify directionally.
	Threshold float64
}

// Catalog maps canonical indicator keys to their definitions. It is
// immutable after construction and safe for concurrent lookups.
type Catalog struct {
	defs map[IndicatorKey]IndicatorDefinition
}

// NewCatalog builds a catalog from the given definitions
func NewCatalog(defs ...IndicatorDefinition) *Catalog {
	m := make(map[IndicatorKey]IndicatorDefinition, len(defs))
	for _, d := range defs {
		m[d.Key] = d
	}
	return &Catalog{defs: m}
}

// Lookup returns the definition for a key. A missing key is not an error;
// callers handle the unknown case explicitly.
func (c *Catalog) Lookup(key IndicatorKey) (IndicatorDefinition, bool) {
	d, ok := c.defs[key]
	return d, ok
}

// DefaultCatalog returns the built-in indicator table.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		IndicatorDefinition{
			Key:        IndicatorGDP,
			Tier:       calendar.TierHigh,
			Currencies: []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD"},
			Rule:       RuleGeneric,
			Basis:      BasisRelative,
			Threshold:  0.2,
		},
		IndicatorDefinition{
			Key:        IndicatorInterestRate,
			Tier:       calendar.TierHigh,
			Currencies: []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD"},
			Rule:       RulePolicy,
			Basis:      BasisRelative,
			Threshold:  0.25,
		},
		IndicatorDefinition{
			Key:        IndicatorNFP,
			Tier:       calendar.TierHigh,
			Currencies: []string{"USD"},
			Rule:       RuleGeneric,
			Basis:      BasisAbsolute,
			Threshold:  50000, // jobs difference
		},
		IndicatorDefinition{
			Key:        IndicatorCPI,
			Tier:       calendar.TierHigh,
			Currencies: []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD"},
			Rule:       RuleInflation,
			Basis:      BasisRelative,
			Threshold:  0.2,
		},
		IndicatorDefinition{
			Key:        IndicatorRetailSales,
			Tier:       calendar.TierMedium,
			Currencies: []string{"USD", "EUR", "GBP", "AUD"},
			Rule:       RuleGeneric,
			Basis:      BasisRelative,
			Threshold:  0.3,
		},
		IndicatorDefinition{
			Key:        IndicatorPMI,
			Tier:       calendar.TierMedium,
			Currencies: []string{"USD", "EUR", "GBP", "CNH"},
			Rule:       RuleActivity,
			Basis:      BasisAbsolute,
			Threshold:  1.0, // points difference; the activity rule scales by its own divisor
		},
	)
}
