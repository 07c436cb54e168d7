package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"augur/internal/adapters/config"
	"augur/internal/domain/calendar"
	"augur/pkg/errors"
	"augur/pkg/logger"
)

// Notifier delivers calendar alerts to a Telegram chat. It is
// send-only: no polling, no command handling.
type Notifier struct {
	api         *tgbotapi.BotAPI
	chatID      int64
	log         *logger.Logger
	rateLimiter *rate.Limiter
}

// NewNotifier creates a Telegram notifier
func NewNotifier(cfg config.TelegramConfig, log *logger.Logger) (*Notifier, error) {
	if cfg.BotToken == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "telegram bot token is required")
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	api, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telegram bot")
	}

	log.Infof("Authorized on account %s", api.Self.UserName)

	return &Notifier{
		api:    api,
		chatID: cfg.ChatID,
		log:    log.With("component", "telegram_notifier"),
		// Conservative: 20 msg/sec (Telegram limit is 30)
		rateLimiter: rate.NewLimiter(rate.Limit(20), 30),
	}, nil
}

// SendMessage sends a text message to the configured chat
func (n *Notifier) SendMessage(ctx context.Context, text string) error {
	if err := n.rateLimiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limiter wait failed")
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = "Markdown"

	if _, err := n.api.Send(msg); err != nil {
		n.log.Errorw("Failed to send message",
			"chat_id", n.chatID,
			"error", err,
		)
		return errors.Wrap(err, "failed to send message")
	}

	return nil
}

// SendUpcomingAlert formats and sends an alert for upcoming announcements
func (n *Notifier) SendUpcomingAlert(ctx context.Context, announcements []calendar.Announcement) error {
	if len(announcements) == 0 {
		return nil
	}
	return n.SendMessage(ctx, FormatUpcomingAlert(announcements, time.Now().UTC()))
}

// FormatUpcomingAlert renders a digest of upcoming announcements
func FormatUpcomingAlert(announcements []calendar.Announcement, now time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📅 *Upcoming Economic Events* (%d)\n\n", len(announcements)))

	for _, ann := range announcements {
		b.WriteString(fmt.Sprintf("%s *%s* — %s\n", tierEmoji(ann.Importance), ann.Title, ann.Country))
		b.WriteString(fmt.Sprintf("   %s (%s)\n",
			ann.EventTime.Format("Mon 02 Jan 15:04 MST"),
			humanize.RelTime(now, ann.EventTime, "ago", "from now"),
		))
		if ann.Forecast != nil {
			b.WriteString(fmt.Sprintf("   Forecast: %s\n", humanize.Commaf(*ann.Forecast)))
		}
		if ann.Previous != nil {
			b.WriteString(fmt.Sprintf("   Previous: %s\n", humanize.Commaf(*ann.Previous)))
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func tierEmoji(tier calendar.ImportanceTier) string {
	switch tier {
	case calendar.TierHigh:
		return "🔴"
	case calendar.TierMedium:
		return "🟡"
	default:
		return "⚪"
	}
}
