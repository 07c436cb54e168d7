package impact

import (
	"strings"

	"augur/pkg/errors"
)

// singleCurrencyInstruments maps non-pair instruments to the one currency
// whose announcements move them. Gold trades against the dollar.
var singleCurrencyInstruments = map[string]string{
	"XAUUSD": "USD",
}

// ResolveCurrencies maps an instrument symbol to the currencies whose
// announcements are relevant when filtering the calendar. Designated
// non-pair instruments map to a single fixed currency; everything else is
// treated as a 6-letter pair and split into base and quote.
func ResolveCurrencies(symbol string) ([]string, error) {
	upper := strings.ToUpper(strings.TrimSpace(symbol))

	if currency, ok := singleCurrencyInstruments[upper]; ok {
		return []string{currency}, nil
	}

	if len(upper) != 6 || !isAlpha(upper) {
		return nil, errors.Wrapf(errors.ErrData, "malformed instrument symbol %q", symbol)
	}

	return []string{upper[:3], upper[3:]}, nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
