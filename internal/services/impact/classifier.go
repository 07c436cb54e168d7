package impact

import "strings"

// classifierRule maps name fragments to a canonical indicator key
type classifierRule struct {
	patterns []string
	key      IndicatorKey
}

// classifierRules is evaluated top to bottom, first match wins. The order
// is part of the contract: a title containing both "cpi" and "pmi"
// classifies as CPI because the CPI rule is listed first. Do not reorder.
var classifierRules = []classifierRule{
	{patterns: []string{"gdp"}, key: IndicatorGDP},
	{patterns: []string{"interest rate"}, key: IndicatorInterestRate},
	{patterns: []string{"nonfarm payrolls", "nfp"}, key: IndicatorNFP},
	{patterns: []string{"cpi", "consumer price"}, key: IndicatorCPI},
	{patterns: []string{"retail sales"}, key: IndicatorRetailSales},
	{patterns: []string{"pmi", "purchasing manager"}, key: IndicatorPMI},
}

// Classify maps a free-text announcement title to a canonical indicator
// key, or IndicatorUnknown. Matching is case-insensitive substring search
// over a fixed ordered rule list, so the result is a total deterministic
// function of the title.
func Classify(title string) IndicatorKey {
	lower := strings.ToLower(title)

	for _, rule := range classifierRules {
		for _, pattern := range rule.patterns {
			if strings.Contains(lower, pattern) {
				return rule.key
			}
		}
	}

	return IndicatorUnknown
}
