package bootstrap

import (
	"context"
	"net/http"
	"sync"
	"time"

	pgclient "augur/internal/adapters/postgres"
	redisclient "augur/internal/adapters/redis"
	"augur/internal/workers"
	"augur/pkg/errors"
	"augur/pkg/logger"
)

// Lifecycle manages graceful startup and shutdown of components
type Lifecycle struct {
	shutdownTimeout time.Duration
}

// NewLifecycle creates a new lifecycle manager
func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		shutdownTimeout: 90 * time.Second,
	}
}

// Shutdown performs coordinated cleanup in the correct order:
// 1. Metrics server stops accepting requests
// 2. Workers finish their current iteration
// 3. Remaining goroutines drain
// 4. Error tracker and logs flush
// 5. Database connections close last
func (l *Lifecycle) Shutdown(
	wg *sync.WaitGroup,
	metricsServer *http.Server,
	workerScheduler *workers.Scheduler,
	pgClient *pgclient.Client,
	redisClient *redisclient.Client,
	errorTracker errors.Tracker,
	log *logger.Logger,
) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), l.shutdownTimeout)
	defer shutdownCancel()

	log.Info("[1/5] Stopping metrics server...")
	if metricsServer != nil {
		httpCtx, httpCancel := context.WithTimeout(shutdownCtx, 5*time.Second)
		if err := metricsServer.Shutdown(httpCtx); err != nil {
			log.Error("Metrics server shutdown failed", "error", err)
		} else {
			log.Info("✓ Metrics server stopped")
		}
		httpCancel()
	}

	log.Info("[2/5] Stopping background workers...")
	if err := workerScheduler.Stop(); err != nil {
		log.Error("Workers shutdown failed", "error", err)
	} else {
		log.Info("✓ Workers stopped")
	}

	log.Info("[3/5] Waiting for remaining goroutines...")
	l.waitForGoroutines(wg, 5*time.Second, log)

	log.Info("[4/5] Flushing error tracker and logs...")
	l.flushErrorTracker(errorTracker, shutdownCtx, log)
	if err := logger.Sync(); err != nil {
		log.Warn("Log sync completed with warnings")
	}

	// Databases close last so earlier steps can still reach them
	log.Info("[5/5] Closing database connections...")
	l.closeDatabases(pgClient, redisClient, log)

	log.Info("✅ Graceful shutdown complete")
}

// waitForGoroutines waits for all goroutines with a timeout
func (l *Lifecycle) waitForGoroutines(wg *sync.WaitGroup, timeout time.Duration, log *logger.Logger) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("✓ All goroutines finished")
	case <-time.After(timeout):
		log.Warn("⚠ Some goroutines did not finish within timeout", "timeout", timeout)
	}
}

// flushErrorTracker flushes the error tracker (Sentry, etc.)
func (l *Lifecycle) flushErrorTracker(tracker errors.Tracker, ctx context.Context, log *logger.Logger) {
	if tracker == nil {
		return
	}

	flushCtx, flushCancel := context.WithTimeout(ctx, 3*time.Second)
	defer flushCancel()

	if err := tracker.Flush(flushCtx); err != nil {
		log.Error("Error tracker flush failed", "error", err)
	} else {
		log.Info("✓ Error tracker flushed")
	}
}

// closeDatabases closes all database connections
func (l *Lifecycle) closeDatabases(
	pgClient *pgclient.Client,
	redisClient *redisclient.Client,
	log *logger.Logger,
) {
	var dbErrors []error

	if pgClient != nil {
		if err := pgClient.Close(); err != nil {
			dbErrors = append(dbErrors, errors.Wrap(err, "postgres"))
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			dbErrors = append(dbErrors, errors.Wrap(err, "redis"))
		}
	}

	if len(dbErrors) > 0 {
		log.Error("Database close errors", "errors", dbErrors)
	} else {
		log.Info("✓ Database connections closed")
	}
}
