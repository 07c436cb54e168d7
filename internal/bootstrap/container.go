package bootstrap

import (
	"context"
	"net/http"
	"sync"

	"augur/internal/adapters/config"
	pgclient "augur/internal/adapters/postgres"
	redisclient "augur/internal/adapters/redis"
	"augur/internal/adapters/telegram"
	"augur/internal/domain/calendar"
	calendarsvc "augur/internal/services/calendar"
	"augur/internal/services/impact"
	"augur/internal/workers"
	"augur/pkg/errors"
	"augur/pkg/logger"
)

// Container holds all application dependencies and their lifecycle.
// Components are organized in initialization order.
type Container struct {
	// Core configuration & logging
	Config       *config.Config
	Log          *logger.Logger
	ErrorTracker errors.Tracker

	// Infrastructure layer
	PG    *pgclient.Client
	Redis *redisclient.Client

	// Domain layer
	Repo calendar.Repository
	Feed calendar.Feed

	// Application layer
	CalendarService *calendarsvc.Service
	ImpactService   *impact.Service
	Notifier        *telegram.Notifier

	// Background processing
	WorkerScheduler *workers.Scheduler
	MetricsServer   *http.Server

	// Lifecycle management
	Lifecycle *Lifecycle
	WG        *sync.WaitGroup
	Context   context.Context
	Cancel    context.CancelFunc
}

// NewContainer creates a new dependency container
func NewContainer() *Container {
	ctx, cancel := context.WithCancel(context.Background())

	return &Container{
		Lifecycle: NewLifecycle(),
		WG:        &sync.WaitGroup{},
		Context:   ctx,
		Cancel:    cancel,
	}
}

// MustInit initializes all components in the correct order.
// Panics on any initialization error (fail-fast at startup).
func (c *Container) MustInit() {
	c.MustInitConfig()
	c.MustInitInfrastructure()
	c.MustInitRepositories()
	c.MustInitServices()
	c.MustInitBackground()
}

// Start starts all background components
func (c *Container) Start() error {
	c.Log.Info("Starting all systems...")

	if err := c.WorkerScheduler.Start(c.Context); err != nil {
		return errors.Wrap(err, "failed to start workers")
	}

	// Metrics endpoint
	c.WG.Add(1)
	go func() {
		defer c.WG.Done()
		if err := c.MetricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.Log.Errorf("Metrics server failed: %v", err)
			c.Cancel()
		}
	}()

	c.Log.Info("✓ All systems operational")
	return nil
}

// Shutdown performs graceful shutdown in the correct order
func (c *Container) Shutdown() {
	c.Log.Info("Initiating graceful shutdown...")

	c.Cancel()

	c.Lifecycle.Shutdown(
		c.WG,
		c.MetricsServer,
		c.WorkerScheduler,
		c.PG,
		c.Redis,
		c.ErrorTracker,
		c.Log,
	)
}
