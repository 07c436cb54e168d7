package impact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"augur/internal/domain/calendar"
)

func TestDefaultCatalogLookup(t *testing.T) {
	catalog := DefaultCatalog()

	nfp, ok := catalog.Lookup(IndicatorNFP)
	require.True(t, ok)
	assert.Equal(t, calendar.TierHigh, nfp.Tier)
	assert.Equal(t, BasisAbsolute, nfp.Basis)
	assert.Equal(t, 50000.0, nfp.Threshold)
	assert.Equal(t, []string{"USD"}, nfp.Currencies)

	pmi, ok := catalog.Lookup(IndicatorPMI)
	require.True(t, ok)
	assert.Equal(t, RuleActivity, pmi.Rule)
	assert.Equal(t, calendar.TierMedium, pmi.Tier)

	rate, ok := catalog.Lookup(IndicatorInterestRate)
	require.True(t, ok)
	assert.Equal(t, RulePolicy, rate.Rule)
	assert.Equal(t, BasisRelative, rate.Basis)

	_, ok = catalog.Lookup(IndicatorUnknown)
	assert.False(t, ok)

	_, ok = catalog.Lookup(IndicatorKey("PPI"))
	assert.False(t, ok)
}

func TestTierWeights(t *testing.T) {
	assert.Equal(t, 1.0, calendar.TierHigh.Weight())
	assert.Equal(t, 0.6, calendar.TierMedium.Weight())
	assert.Equal(t, 0.3, calendar.TierLow.Weight())
	assert.Equal(t, 0.0, calendar.ImportanceTier("bogus").Weight())
}
