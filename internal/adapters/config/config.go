package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"augur/pkg/errors"
)

type Config struct {
	App           AppConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	Feed          FeedConfig
	Telegram      TelegramConfig
	ErrorTracking ErrorTrackingConfig
	Workers       WorkerConfig
}

type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"augur"`
	Env         string `envconfig:"APP_ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	MetricsPort int    `envconfig:"METRICS_PORT" default:"9090"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" required:"true"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`

	// TTL for cached recent-outcome lookups; stale reads are acceptable
	OutcomeCacheTTL time.Duration `envconfig:"REDIS_OUTCOME_CACHE_TTL" default:"5m"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type FeedConfig struct {
	// Trading Economics style calendar API
	BaseURL string        `envconfig:"FEED_BASE_URL" default:"https://api.tradingeconomics.com"`
	APIKey  string        `envconfig:"FEED_API_KEY"`
	Timeout time.Duration `envconfig:"FEED_TIMEOUT" default:"30s"`

	// Requests per second allowed against the provider
	RateLimit float64 `envconfig:"FEED_RATE_LIMIT" default:"1"`

	// How far back and ahead the collector looks on each run
	LookbackDays  int `envconfig:"FEED_LOOKBACK_DAYS" default:"7"`
	LookaheadDays int `envconfig:"FEED_LOOKAHEAD_DAYS" default:"7"`
}

type TelegramConfig struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID   int64  `envconfig:"TELEGRAM_CHAT_ID"`
}

// Enabled reports whether alerting is configured
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != 0
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// WorkerConfig contains intervals for the background workers
type WorkerConfig struct {
	CollectorInterval time.Duration `envconfig:"WORKER_COLLECTOR_INTERVAL" default:"15m"`
	CollectorEnabled  bool          `envconfig:"WORKER_COLLECTOR_ENABLED" default:"true"`

	// Lowest importance tier the collector bothers storing
	CollectorMinImportance string `envconfig:"WORKER_COLLECTOR_MIN_IMPORTANCE" default:"medium"`

	AlertInterval time.Duration `envconfig:"WORKER_ALERT_INTERVAL" default:"1h"`
	AlertEnabled  bool          `envconfig:"WORKER_ALERT_ENABLED" default:"true"`

	// How far ahead the alert worker looks for high-impact releases
	AlertWindow time.Duration `envconfig:"WORKER_ALERT_WINDOW" default:"24h"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
