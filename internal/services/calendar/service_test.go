package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"augur/internal/domain/calendar"
	"augur/pkg/errors"
)

// MockFeed is a mock implementation of calendar.Feed
type MockFeed struct {
	mock.Mock
}

func (m *MockFeed) Fetch(ctx context.Context, from, to time.Time, minTier calendar.ImportanceTier) ([]calendar.Announcement, error) {
	args := m.Called(ctx, from, to, minTier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]calendar.Announcement), args.Error(1)
}

// MockRepository is a mock implementation of calendar.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) InsertAnnouncement(ctx context.Context, ann *calendar.Announcement) error {
	args := m.Called(ctx, ann)
	return args.Error(0)
}

func (m *MockRepository) InsertOutcome(ctx context.Context, outcome *calendar.Outcome) error {
	args := m.Called(ctx, outcome)
	return args.Error(0)
}

func (m *MockRepository) RecentOutcomes(ctx context.Context, title, country, symbol string, limit int) ([]calendar.Outcome, error) {
	args := m.Called(ctx, title, country, symbol, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]calendar.Outcome), args.Error(1)
}

func (m *MockRepository) UpcomingAnnouncements(ctx context.Context, from, to time.Time, minTier calendar.ImportanceTier) ([]calendar.Announcement, error) {
	args := m.Called(ctx, from, to, minTier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]calendar.Announcement), args.Error(1)
}

func testAnnouncement(title string) calendar.Announcement {
	return calendar.Announcement{
		ID:         uuid.New(),
		Title:      title,
		Country:    "US",
		Currency:   "USD",
		EventTime:  time.Now().Add(2 * time.Hour),
		Importance: calendar.TierHigh,
	}
}

func TestIngestStoresFetchedAnnouncements(t *testing.T) {
	feed := new(MockFeed)
	repo := new(MockRepository)
	svc := NewService(feed, repo)

	announcements := []calendar.Announcement{
		testAnnouncement("Non-Farm Payrolls"),
		testAnnouncement("CPI YoY"),
	}

	from := time.Now()
	to := from.Add(24 * time.Hour)

	feed.On("Fetch", mock.Anything, from, to, calendar.TierMedium).Return(announcements, nil)
	repo.On("InsertAnnouncement", mock.Anything, mock.Anything).Return(nil).Twice()

	stored, err := svc.Ingest(context.Background(), from, to, calendar.TierMedium)
	require.NoError(t, err)
	assert.Equal(t, 2, stored)

	repo.AssertExpectations(t)
}

func TestIngestSkipsFailedRows(t *testing.T) {
	feed := new(MockFeed)
	repo := new(MockRepository)
	svc := NewService(feed, repo)

	good := testAnnouncement("GDP Growth Rate")
	bad := testAnnouncement("Retail Sales MoM")

	from := time.Now()
	to := from.Add(24 * time.Hour)

	feed.On("Fetch", mock.Anything, from, to, calendar.TierLow).
		Return([]calendar.Announcement{bad, good}, nil)
	repo.On("InsertAnnouncement", mock.Anything, &bad).
		Return(errors.Wrapf(errors.ErrPersistence, "connection reset"))
	repo.On("InsertAnnouncement", mock.Anything, &good).Return(nil)

	stored, err := svc.Ingest(context.Background(), from, to, calendar.TierLow)
	require.NoError(t, err)
	assert.Equal(t, 1, stored)
}

func TestIngestFeedFailure(t *testing.T) {
	feed := new(MockFeed)
	repo := new(MockRepository)
	svc := NewService(feed, repo)

	from := time.Now()
	to := from.Add(24 * time.Hour)

	feed.On("Fetch", mock.Anything, from, to, calendar.TierHigh).
		Return(nil, errors.Wrapf(errors.ErrFeed, "status 503"))

	stored, err := svc.Ingest(context.Background(), from, to, calendar.TierHigh)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrFeed))
	assert.Equal(t, 0, stored)

	repo.AssertNotCalled(t, "InsertAnnouncement", mock.Anything, mock.Anything)
}

func TestIngestEmptyFeed(t *testing.T) {
	feed := new(MockFeed)
	repo := new(MockRepository)
	svc := NewService(feed, repo)

	from := time.Now()
	to := from.Add(24 * time.Hour)

	feed.On("Fetch", mock.Anything, from, to, calendar.TierLow).
		Return([]calendar.Announcement{}, nil)

	stored, err := svc.Ingest(context.Background(), from, to, calendar.TierLow)
	require.NoError(t, err)
	assert.Equal(t, 0, stored)
}

func TestRecordOutcome(t *testing.T) {
	feed := new(MockFeed)
	repo := new(MockRepository)
	svc := NewService(feed, repo)

	outcome := &calendar.Outcome{
		ID:               uuid.New(),
		AnnouncementID:   uuid.New(),
		Symbol:           "EURUSD",
		PriceImpact:      decimal.NewFromFloat(0.45),
		VolatilityImpact: decimal.NewFromFloat(1.2),
		DurationHours:    6,
	}

	repo.On("InsertOutcome", mock.Anything, outcome).Return(nil)

	err := svc.RecordOutcome(context.Background(), outcome)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRecordOutcomeValidation(t *testing.T) {
	feed := new(MockFeed)
	repo := new(MockRepository)
	svc := NewService(feed, repo)

	err := svc.RecordOutcome(context.Background(), &calendar.Outcome{
		AnnouncementID: uuid.New(),
		DurationHours:  6,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	err = svc.RecordOutcome(context.Background(), &calendar.Outcome{
		AnnouncementID: uuid.New(),
		Symbol:         "EURUSD",
		DurationHours:  0,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	repo.AssertNotCalled(t, "InsertOutcome", mock.Anything, mock.Anything)
}

func TestRecordOutcomeDanglingReference(t *testing.T) {
	feed := new(MockFeed)
	repo := new(MockRepository)
	svc := NewService(feed, repo)

	outcome := &calendar.Outcome{
		AnnouncementID: uuid.New(),
		Symbol:         "EURUSD",
		DurationHours:  6,
	}

	repo.On("InsertOutcome", mock.Anything, outcome).
		Return(errors.Wrapf(errors.ErrNotFound, "announcement %s", outcome.AnnouncementID))

	err := svc.RecordOutcome(context.Background(), outcome)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestUpcoming(t *testing.T) {
	feed := new(MockFeed)
	repo := new(MockRepository)
	svc := NewService(feed, repo)

	expected := []calendar.Announcement{testAnnouncement("FOMC Interest Rate Decision")}

	repo.On("UpcomingAnnouncements", mock.Anything, mock.Anything, mock.Anything, calendar.TierHigh).
		Return(expected, nil)

	got, err := svc.Upcoming(context.Background(), 24*time.Hour, calendar.TierHigh)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "FOMC Interest Rate Decision", got[0].Title)
}
