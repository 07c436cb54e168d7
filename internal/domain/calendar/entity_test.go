package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func TestAnnouncementReleased(t *testing.T) {
	ann := Announcement{}
	assert.False(t, ann.Released())

	ann.Actual = fptr(0)
	assert.True(t, ann.Released(), "a reported zero is still a release")
}

func TestAnnouncementSurprise(t *testing.T) {
	ann := Announcement{Actual: fptr(3.4), Forecast: fptr(3.1)}
	surprise, ok := ann.Surprise()
	assert.True(t, ok)
	assert.InDelta(t, 0.3, surprise, 1e-9)

	_, ok = (&Announcement{Actual: fptr(3.4)}).Surprise()
	assert.False(t, ok)

	_, ok = (&Announcement{Forecast: fptr(3.1)}).Surprise()
	assert.False(t, ok)
}

func TestAnnouncementTrend(t *testing.T) {
	ann := Announcement{Actual: fptr(50.1), Previous: fptr(49.5)}
	trend, ok := ann.Trend()
	assert.True(t, ok)
	assert.InDelta(t, 0.6, trend, 1e-9)

	_, ok = (&Announcement{Previous: fptr(49.5)}).Trend()
	assert.False(t, ok)
}

func TestImportanceTierOrdering(t *testing.T) {
	assert.Greater(t, TierHigh.Rank(), TierMedium.Rank())
	assert.Greater(t, TierMedium.Rank(), TierLow.Rank())
	assert.Equal(t, 0, ImportanceTier("bogus").Rank())

	assert.True(t, TierHigh.Valid())
	assert.False(t, ImportanceTier("critical").Valid())
}
