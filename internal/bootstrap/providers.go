package bootstrap

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"augur/internal/adapters/config"
	errnoop "augur/internal/adapters/errors/noop"
	"augur/internal/adapters/errors/sentry"
	"augur/internal/adapters/feed"
	pgclient "augur/internal/adapters/postgres"
	redisclient "augur/internal/adapters/redis"
	"augur/internal/adapters/telegram"
	"augur/internal/domain/calendar"
	"augur/internal/metrics"
	pgrepo "augur/internal/repository/postgres"
	redisrepo "augur/internal/repository/redis"
	calendarsvc "augur/internal/services/calendar"
	"augur/internal/services/impact"
	"augur/internal/workers"
	calendarworkers "augur/internal/workers/calendar"
	"augur/pkg/errors"
	"augur/pkg/logger"
)

// ========================================
// Phase 1: Configuration & Logging
// ========================================

// MustInitConfig loads configuration and initializes logger
func (c *Container) MustInitConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	c.Config = cfg

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}

	c.Log = logger.Get()
	c.Log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	c.ErrorTracker = provideErrorTracker(cfg, c.Log)
	logger.SetErrorTracker(c.ErrorTracker)
}

// provideErrorTracker initializes error tracking (Sentry or no-op)
func provideErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return errnoop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return errnoop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// ========================================
// Phase 2: Infrastructure Layer
// ========================================

// MustInitInfrastructure initializes data stores (Postgres, Redis)
func (c *Container) MustInitInfrastructure() {
	var err error

	c.Log.Info("Connecting to PostgreSQL...")
	c.PG, err = pgclient.NewClient(c.Config.Postgres)
	if err != nil {
		c.Log.Fatalf("failed to connect postgres: %v", err)
	}
	if err := c.PG.EnsureSchema(c.Context); err != nil {
		c.Log.Fatalf("failed to ensure postgres schema: %v", err)
	}
	c.Log.Info("✓ PostgreSQL connected")

	c.Log.Info("Connecting to Redis...")
	c.Redis, err = redisclient.NewClient(c.Config.Redis)
	if err != nil {
		c.Log.Fatalf("failed to connect redis: %v", err)
	}
	c.Log.Info("✓ Redis connected")
}

// ========================================
// Phase 3: Domain Layer
// ========================================

// MustInitRepositories wires the Postgres repository behind the Redis
// read-through cache for recent-outcome lookups.
func (c *Container) MustInitRepositories() {
	base := pgrepo.NewCalendarRepository(c.PG.DB())
	c.Repo = redisrepo.NewCachedCalendarRepository(
		base,
		c.Redis.Client(),
		c.Config.Redis.OutcomeCacheTTL,
		c.Log,
	)

	c.Feed = feed.NewTradingEconomicsFeed(c.Config.Feed, c.Log)
}

// ========================================
// Phase 4: Application Layer
// ========================================

// MustInitServices initializes application services
func (c *Container) MustInitServices() {
	c.CalendarService = calendarsvc.NewService(c.Feed, c.Repo)
	c.ImpactService = impact.NewService(impact.DefaultCatalog(), c.Repo, c.Log)

	if c.Config.Telegram.Enabled() {
		notifier, err := telegram.NewNotifier(c.Config.Telegram, c.Log)
		if err != nil {
			c.Log.Fatalf("failed to init telegram notifier: %v", err)
		}
		c.Notifier = notifier
		c.Log.Info("✓ Telegram notifier initialized")
	} else {
		c.Log.Info("Telegram notifier disabled (no bot token or chat)")
	}
}

// ========================================
// Phase 5: Background Processing
// ========================================

// MustInitBackground initializes workers and the metrics endpoint
func (c *Container) MustInitBackground() {
	metrics.Init()
	prometheus.MustRegister(metrics.NewCustomCollector(c.Log, c.PG.DB()))

	c.WorkerScheduler = workers.NewScheduler()

	minTier := calendar.ImportanceTier(c.Config.Workers.CollectorMinImportance)
	if !minTier.Valid() {
		c.Log.Warnf("Invalid collector importance %q, using medium", c.Config.Workers.CollectorMinImportance)
		minTier = calendar.TierMedium
	}

	c.WorkerScheduler.RegisterWorker(calendarworkers.NewCollector(
		c.CalendarService,
		c.Config.Feed.LookbackDays,
		c.Config.Feed.LookaheadDays,
		minTier,
		c.Config.Workers.CollectorInterval,
		c.Config.Workers.CollectorEnabled,
	))

	if c.Notifier != nil {
		c.WorkerScheduler.RegisterWorker(calendarworkers.NewAlertWorker(
			c.CalendarService,
			c.Notifier,
			c.Config.Workers.AlertWindow,
			c.Config.Workers.AlertInterval,
			c.Config.Workers.AlertEnabled,
		))
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/health", c.healthHandler)
	mux.HandleFunc("/health/workers", c.workerHealthHandler)

	c.MetricsServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", c.Config.App.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// workerHealthHandler reports per-worker run counters
func (c *Container) workerHealthHandler(w http.ResponseWriter, r *http.Request) {
	type workerStatus struct {
		Name          string    `json:"name"`
		Enabled       bool      `json:"enabled"`
		LastRun       time.Time `json:"last_run"`
		RunCount      int64     `json:"run_count"`
		ErrorCount    int64     `json:"error_count"`
		AvgDurationMS int64     `json:"avg_duration_ms"`
		LastError     string    `json:"last_error,omitempty"`
	}

	statuses := make([]workerStatus, 0)
	for _, worker := range c.WorkerScheduler.GetWorkers() {
		hw, ok := worker.(workers.WorkerWithHealth)
		if !ok {
			continue
		}
		health := hw.Health()

		status := workerStatus{
			Name:          worker.Name(),
			Enabled:       health.Enabled,
			LastRun:       health.LastRun,
			RunCount:      health.RunCount,
			ErrorCount:    health.ErrorCount,
			AvgDurationMS: health.AvgDuration.Milliseconds(),
		}
		if health.LastError != nil {
			status.LastError = health.LastError.Error()
		}
		statuses = append(statuses, status)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(statuses)
}

// healthHandler reports liveness of the data stores
func (c *Container) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := c.PG.Health(ctx); err != nil {
		http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := c.Redis.Health(ctx); err != nil {
		http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
