package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"augur/internal/domain/calendar"
	"augur/internal/metrics"
	"augur/pkg/errors"
)

func newMockRepo(t *testing.T) (*CalendarRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return NewCalendarRepository(sqlx.NewDb(mockDB, "sqlmock")), mock
}

func sampleAnnouncement() *calendar.Announcement {
	actual := 250000.0
	forecast := 180000.0

	return &calendar.Announcement{
		ID:          uuid.New(),
		Title:       "US Nonfarm Payrolls",
		Country:     "US",
		Currency:    "USD",
		EventTime:   time.Date(2026, 8, 7, 12, 30, 0, 0, time.UTC),
		Actual:      &actual,
		Forecast:    &forecast,
		Importance:  calendar.TierHigh,
		CollectedAt: time.Date(2026, 8, 7, 13, 0, 0, 0, time.UTC),
	}
}

func TestInsertAnnouncement(t *testing.T) {
	repo, mock := newMockRepo(t)
	ann := sampleAnnouncement()

	mock.ExpectExec(`INSERT INTO announcements`).
		WithArgs(
			ann.ID, ann.Title, ann.Country, ann.Currency, ann.EventTime,
			ann.Actual, ann.Forecast, ann.Previous, ann.Importance, ann.CollectedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.InsertAnnouncement(context.Background(), ann))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertAnnouncementDuplicateIsNoop(t *testing.T) {
	repo, mock := newMockRepo(t)
	ann := sampleAnnouncement()

	// ON CONFLICT DO NOTHING: zero rows affected, no error
	mock.ExpectExec(`INSERT INTO announcements`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.InsertAnnouncement(context.Background(), ann))
}

func TestInsertAnnouncementStoreFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO announcements`).
		WillReturnError(errors.New("connection refused"))

	err := repo.InsertAnnouncement(context.Background(), sampleAnnouncement())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPersistence))
}

func TestInsertOutcome(t *testing.T) {
	repo, mock := newMockRepo(t)

	out := &calendar.Outcome{
		ID:               uuid.New(),
		AnnouncementID:   uuid.New(),
		Symbol:           "EURUSD",
		PriceImpact:      decimal.NewFromFloat(0.42),
		VolatilityImpact: decimal.NewFromFloat(1.8),
		DurationHours:    6,
	}

	mock.ExpectExec(`INSERT INTO outcomes`).
		WithArgs(
			out.ID, out.AnnouncementID, out.Symbol,
			out.PriceImpact, out.VolatilityImpact, out.DurationHours,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.InsertOutcome(context.Background(), out))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertOutcomeMissingAnnouncement(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO outcomes`).
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.InsertOutcome(context.Background(), &calendar.Outcome{
		ID:             uuid.New(),
		AnnouncementID: uuid.New(),
		Symbol:         "EURUSD",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.False(t, errors.Is(err, errors.ErrPersistence))
}

func TestRecentOutcomes(t *testing.T) {
	repo, mock := newMockRepo(t)

	annID := uuid.New()
	rows := sqlmock.NewRows([]string{
		"id", "announcement_id", "symbol", "price_impact", "volatility_impact", "duration_hours",
	}).
		AddRow(uuid.New(), annID, "EURUSD", "0.5", "2.0", 12).
		AddRow(uuid.New(), annID, "EURUSD", "1.5", "4.0", 36)

	mock.ExpectQuery(`SELECT o\.id, o\.announcement_id`).
		WithArgs("US Nonfarm Payrolls", "US", "EURUSD", 10).
		WillReturnRows(rows)

	outcomes, err := repo.RecentOutcomes(context.Background(), "US Nonfarm Payrolls", "US", "EURUSD", 10)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, "EURUSD", outcomes[0].Symbol)
	assert.True(t, outcomes[0].PriceImpact.Equal(decimal.NewFromFloat(0.5)))
	assert.Equal(t, 36, outcomes[1].DurationHours)
}

func TestRecentOutcomesDefaultsLimit(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT o\.id, o\.announcement_id`).
		WithArgs("CPI", "US", "EURUSD", 10).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "announcement_id", "symbol", "price_impact", "volatility_impact", "duration_hours",
		}))

	outcomes, err := repo.RecentOutcomes(context.Background(), "CPI", "US", "EURUSD", 0)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpcomingAnnouncementsTierFilter(t *testing.T) {
	repo, mock := newMockRepo(t)

	from := time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	mock.ExpectQuery(`SELECT id, title, country`).
		WithArgs(from, to, pq.Array([]string{"medium", "high"})).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "country", "currency", "event_time",
			"actual", "forecast", "previous", "importance", "collected_at",
		}).AddRow(
			uuid.New(), "US CPI YoY", "US", "USD", from.Add(36*time.Hour),
			nil, 3.1, 3.0, "high", from,
		))

	anns, err := repo.UpcomingAnnouncements(context.Background(), from, to, calendar.TierMedium)
	require.NoError(t, err)
	require.Len(t, anns, 1)
	assert.Equal(t, "US CPI YoY", anns[0].Title)
	assert.Nil(t, anns[0].Actual)
	require.NotNil(t, anns[0].Forecast)
	assert.Equal(t, 3.1, *anns[0].Forecast)
}

func TestQueriesRecordDBMetrics(t *testing.T) {
	repo, mock := newMockRepo(t)

	inserted := metrics.DBQueries.WithLabelValues("postgres", "insert_announcement", "success")
	failed := metrics.DBQueries.WithLabelValues("postgres", "insert_announcement", "error")
	upcoming := metrics.DBQueries.WithLabelValues("postgres", "upcoming_announcements", "success")
	insertedBefore := testutil.ToFloat64(inserted)
	failedBefore := testutil.ToFloat64(failed)
	upcomingBefore := testutil.ToFloat64(upcoming)

	mock.ExpectExec(`INSERT INTO announcements`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.InsertAnnouncement(context.Background(), sampleAnnouncement()))

	mock.ExpectExec(`INSERT INTO announcements`).
		WillReturnError(errors.New("connection refused"))
	require.Error(t, repo.InsertAnnouncement(context.Background(), sampleAnnouncement()))

	from := time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, title, country`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "country", "currency", "event_time",
			"actual", "forecast", "previous", "importance", "collected_at",
		}))

	_, err := repo.UpcomingAnnouncements(context.Background(), from, from.AddDate(0, 0, 1), calendar.TierLow)
	require.NoError(t, err)

	assert.Equal(t, insertedBefore+1, testutil.ToFloat64(inserted))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
	assert.Equal(t, upcomingBefore+1, testutil.ToFloat64(upcoming))
}

func TestTiersAtLeast(t *testing.T) {
	assert.Equal(t, []string{"low", "medium", "high"}, tiersAtLeast(calendar.TierLow))
	assert.Equal(t, []string{"medium", "high"}, tiersAtLeast(calendar.TierMedium))
	assert.Equal(t, []string{"high"}, tiersAtLeast(calendar.TierHigh))
}
