package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"augur/internal/adapters/config"
)

// Client wraps sqlx.DB for PostgreSQL operations
type Client struct {
	db *sqlx.DB
}

// NewClient creates a new PostgreSQL client with connection pooling
func NewClient(cfg config.PostgresConfig) (*Client, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns / 2)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &Client{db: db}, nil
}

// DB returns the underlying sqlx.DB instance
func (c *Client) DB() *sqlx.DB {
	return c.db
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// Health checks database connectivity
func (c *Client) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// EnsureSchema creates the calendar tables when they do not exist yet.
// The unique index is the announcement natural key: identical re-fetches
// dedupe, a corrected actual becomes a new row.
func (c *Client) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS announcements (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			country TEXT NOT NULL,
			currency TEXT NOT NULL DEFAULT '',
			event_time TIMESTAMPTZ NOT NULL,
			actual DOUBLE PRECISION,
			forecast DOUBLE PRECISION,
			previous DOUBLE PRECISION,
			importance TEXT NOT NULL,
			collected_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS announcements_natural_key
			ON announcements (title, country, event_time, actual) NULLS NOT DISTINCT`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			id UUID PRIMARY KEY,
			announcement_id UUID NOT NULL REFERENCES announcements(id),
			symbol TEXT NOT NULL,
			price_impact NUMERIC(14, 6) NOT NULL,
			volatility_impact NUMERIC(14, 6) NOT NULL,
			duration_hours INT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS outcomes_by_symbol
			ON outcomes (symbol, announcement_id)`,
	}

	for _, stmt := range statements {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	return nil
}
