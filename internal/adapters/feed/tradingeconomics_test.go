package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{name: "plain", raw: "3.4", want: 3.4},
		{name: "percent", raw: "3.4%", want: 3.4},
		{name: "negative", raw: "-0.2%", want: -0.2},
		{name: "thousands suffix", raw: "250K", want: 250000},
		{name: "millions suffix", raw: "1.5M", want: 1500000},
		{name: "billions suffix", raw: "2B", want: 2e9},
		{name: "comma separated", raw: "1,250", want: 1250},
		{name: "whitespace", raw: " 50.1 ", want: 50.1},
		{name: "zero", raw: "0", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseValue(tt.raw)
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-9)
		})
	}
}

func TestParseValueMissing(t *testing.T) {
	assert.Nil(t, parseValue(""))
	assert.Nil(t, parseValue("   "))
	assert.Nil(t, parseValue("n/a"))
}

func TestCountryMapping(t *testing.T) {
	assert.Equal(t, "US", countryCode("United States"))
	assert.Equal(t, "EA", countryCode("Euro Area"))
	assert.Equal(t, "GB", countryCode("united kingdom"))

	assert.Equal(t, "USD", countryCurrency("US"))
	assert.Equal(t, "EUR", countryCurrency("EA"))
	assert.Equal(t, "", countryCurrency("XX"))
}
