package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"augur/internal/adapters/config"
	"augur/internal/domain/calendar"
	"augur/pkg/errors"
	"augur/pkg/logger"
)

// Compile-time check
var _ calendar.Feed = (*TradingEconomicsFeed)(nil)

// TradingEconomicsFeed implements calendar.Feed against the Trading
// Economics calendar API. Rate limiting and auth live here; the engine
// only sees announcement records.
type TradingEconomicsFeed struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	log        *logger.Logger
}

// NewTradingEconomicsFeed creates a new feed adapter
func NewTradingEconomicsFeed(cfg config.FeedConfig, log *logger.Logger) *TradingEconomicsFeed {
	return &TradingEconomicsFeed{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		log:        log,
	}
}

// calendarEvent is the provider's wire format
type calendarEvent struct {
	CalendarID string `json:"CalendarId"`
	Date       string `json:"Date"`
	Country    string `json:"Country"`
	Event      string `json:"Event"`
	Actual     string `json:"Actual"`
	Previous   string `json:"Previous"`
	Forecast   string `json:"Forecast"`
	Importance int    `json:"Importance"` // 1=low, 2=medium, 3=high
}

// Fetch returns announcements scheduled in [from, to] at or above minTier
func (f *TradingEconomicsFeed) Fetch(ctx context.Context, from, to time.Time, minTier calendar.ImportanceTier) ([]calendar.Announcement, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrapf(errors.ErrFeed, "rate limiter: %v", err)
	}

	url := fmt.Sprintf("%s/calendar?d1=%s&d2=%s&key=%s",
		f.baseURL,
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
		f.apiKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrFeed, "create calendar request: %v", err)
	}
	req.Header.Set("User-Agent", "augur/1.0")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrFeed, "calendar request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		f.log.Warn("Calendar feed rate limit reached")
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.Wrapf(errors.ErrFeed, "calendar feed returned status %d: %s", resp.StatusCode, string(body))
	}

	var events []calendarEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, errors.Wrapf(errors.ErrFeed, "decode calendar response: %v", err)
	}

	announcements := make([]calendar.Announcement, 0, len(events))
	for _, ev := range events {
		ann := f.convert(ev)
		if ann == nil {
			continue
		}
		if ann.Importance.Rank() < minTier.Rank() {
			continue
		}
		announcements = append(announcements, *ann)
	}

	f.log.Debugw("Fetched calendar announcements", "total", len(events), "kept", len(announcements))
	return announcements, nil
}

// convert maps one wire event to an announcement record
func (f *TradingEconomicsFeed) convert(ev calendarEvent) *calendar.Announcement {
	eventTime, err := time.Parse("2006-01-02T15:04:05", ev.Date)
	if err != nil {
		eventTime, err = time.Parse("2006-01-02", ev.Date)
		if err != nil {
			f.log.Warnw("Skipping event with unparseable date", "date", ev.Date, "event", ev.Event)
			return nil
		}
	}

	importance := calendar.TierLow
	switch ev.Importance {
	case 3:
		importance = calendar.TierHigh
	case 2:
		importance = calendar.TierMedium
	}

	country := countryCode(ev.Country)

	return &calendar.Announcement{
		ID:          uuid.New(),
		Title:       ev.Event,
		Country:     country,
		Currency:    countryCurrency(country),
		EventTime:   eventTime,
		Actual:      parseValue(ev.Actual),
		Forecast:    parseValue(ev.Forecast),
		Previous:    parseValue(ev.Previous),
		Importance:  importance,
		CollectedAt: time.Now().UTC(),
	}
}

// parseValue turns the provider's display strings ("3.4%", "250K",
// "-0.2") into numbers. An empty or unparseable value is nil, which is
// distinct from zero: the release has not happened or was not reported.
func parseValue(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "K"):
		multiplier = 1e3
		s = strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		multiplier = 1e6
		s = strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "B"):
		multiplier = 1e9
		s = strings.TrimSuffix(s, "B")
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}

	v *= multiplier
	return &v
}

// countryCode normalizes provider country names to short codes
func countryCode(country string) string {
	switch strings.ToLower(strings.TrimSpace(country)) {
	case "united states", "us":
		return "US"
	case "euro area", "eurozone", "ea":
		return "EA"
	case "united kingdom", "uk", "gb":
		return "GB"
	case "japan", "jp":
		return "JP"
	case "australia", "au":
		return "AU"
	case "canada", "ca":
		return "CA"
	case "china", "cn":
		return "CN"
	}
	return strings.ToUpper(strings.TrimSpace(country))
}

// countryCurrency maps a country code to its currency
func countryCurrency(code string) string {
	switch code {
	case "US":
		return "USD"
	case "EA":
		return "EUR"
	case "GB":
		return "GBP"
	case "JP":
		return "JPY"
	case "AU":
		return "AUD"
	case "CA":
		return "CAD"
	case "CN":
		return "CNH"
	}
	return ""
}
