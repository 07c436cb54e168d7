package impact

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"augur/internal/domain/calendar"
)

func TestCombineEmptyBatch(t *testing.T) {
	repo := new(MockCalendarRepository)
	svc := newTestService(repo)

	got, err := svc.Combine(context.Background(), nil, "EURUSD")
	require.NoError(t, err)

	assert.Equal(t, DirectionNeutral, got.Direction)
	assert.Equal(t, 0.0, got.Strength)
	assert.Empty(t, got.RelevantEvents)
	assert.Equal(t, "No significant events found", got.Notes)
}

func TestCombineSingleBullishEventIsSquashed(t *testing.T) {
	repo := new(MockCalendarRepository)
	expectNoHistory(repo)

	svc := newTestService(repo)
	anns := []calendar.Announcement{
		*announcement("US Nonfarm Payrolls", "US", fptr(250000), fptr(180000), nil),
	}

	got, err := svc.Combine(context.Background(), anns, "EURUSD")
	require.NoError(t, err)

	assert.Equal(t, DirectionBullish, got.Direction)
	// Net strength is tanh of the signed sum, not the raw strength
	assert.InDelta(t, math.Tanh(1.0), got.Strength, 1e-9)
	assert.Len(t, got.RelevantEvents, 1)
	assert.Equal(t, "Combined impact based on 1 events", got.Notes)
}

func TestCombineBearishEventNegatesContribution(t *testing.T) {
	repo := new(MockCalendarRepository)
	expectNoHistory(repo)

	svc := newTestService(repo)
	anns := []calendar.Announcement{
		*announcement("US Nonfarm Payrolls", "US", fptr(100000), fptr(180000), nil),
	}

	got, err := svc.Combine(context.Background(), anns, "EURUSD")
	require.NoError(t, err)

	assert.Equal(t, DirectionBearish, got.Direction)
	assert.InDelta(t, math.Tanh(1.0), got.Strength, 1e-9)
}

func TestCombineNeutralEventsProduceNoSignal(t *testing.T) {
	repo := new(MockCalendarRepository)
	expectNoHistory(repo)

	svc := newTestService(repo)
	anns := []calendar.Announcement{
		*announcement("US CPI YoY", "US", fptr(3.0), fptr(3.0), nil),
		*announcement("Quarterly Hog Inventory", "US", fptr(1.0), fptr(1.0), nil),
	}

	got, err := svc.Combine(context.Background(), anns, "EURUSD")
	require.NoError(t, err)

	assert.Equal(t, DirectionNeutral, got.Direction)
	assert.Equal(t, 0.0, got.Strength)
	assert.Empty(t, got.RelevantEvents)
}

func TestCombineIsolatesMalformedEvents(t *testing.T) {
	repo := new(MockCalendarRepository)
	expectNoHistory(repo)

	svc := newTestService(repo)
	anns := []calendar.Announcement{
		// Zero forecast on a relative-basis indicator fails per-event
		*announcement("US CPI MoM", "US", fptr(0.3), fptr(0.0), nil),
		*announcement("US Nonfarm Payrolls", "US", fptr(250000), fptr(180000), nil),
	}

	got, err := svc.Combine(context.Background(), anns, "EURUSD")
	require.NoError(t, err)

	// The malformed event is excluded, the batch still produces a signal
	assert.Equal(t, DirectionBullish, got.Direction)
	assert.Len(t, got.RelevantEvents, 1)
	require.Len(t, got.Skipped, 1)
	assert.Equal(t, "US CPI MoM", got.Skipped[0].Title)
	assert.Contains(t, got.Skipped[0].Reason, "zero forecast")
}

func TestCombineTracksMaxVolatility(t *testing.T) {
	repo := new(MockCalendarRepository)
	repo.On("RecentOutcomes", mock.Anything, "US Nonfarm Payrolls", "US", "EURUSD", 10).
		Return([]calendar.Outcome{
			{PriceImpact: decimal.NewFromFloat(0.4), VolatilityImpact: decimal.NewFromFloat(1.5), DurationHours: 12},
		}, nil)
	repo.On("RecentOutcomes", mock.Anything, "US CPI YoY", "US", "EURUSD", 10).
		Return([]calendar.Outcome{
			{PriceImpact: decimal.NewFromFloat(-0.2), VolatilityImpact: decimal.NewFromFloat(3.5), DurationHours: 6},
		}, nil)

	svc := newTestService(repo)
	anns := []calendar.Announcement{
		*announcement("US Nonfarm Payrolls", "US", fptr(250000), fptr(180000), nil),
		*announcement("US CPI YoY", "US", fptr(4.0), fptr(3.0), nil),
	}

	got, err := svc.Combine(context.Background(), anns, "EURUSD")
	require.NoError(t, err)

	assert.Len(t, got.RelevantEvents, 2)
	assert.InDelta(t, 3.5, got.ExpectedVolatility, 1e-9)
}

func TestCombineSumIsOrderInsensitive(t *testing.T) {
	repo := new(MockCalendarRepository)
	expectNoHistory(repo)

	svc := newTestService(repo)
	forward := []calendar.Announcement{
		*announcement("US Nonfarm Payrolls", "US", fptr(250000), fptr(180000), nil),
		*announcement("US CPI YoY", "US", fptr(4.0), fptr(3.0), nil),
		*announcement("Eurozone PMI", "EA", fptr(48.0), fptr(50.5), nil),
	}
	reversed := []calendar.Announcement{forward[2], forward[1], forward[0]}

	a, err := svc.Combine(context.Background(), forward, "EURUSD")
	require.NoError(t, err)
	b, err := svc.Combine(context.Background(), reversed, "EURUSD")
	require.NoError(t, err)

	assert.Equal(t, a.Direction, b.Direction)
	assert.InDelta(t, a.Strength, b.Strength, 1e-12)
}
