package main

import (
	"os"
	"os/signal"
	"syscall"

	"augur/internal/bootstrap"
	"augur/pkg/logger"
)

func main() {
	container := bootstrap.NewContainer()
	container.MustInit()
	defer logger.Sync()

	log := container.Log

	if err := container.Start(); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	waitForShutdown(container)
}

// waitForShutdown blocks until a termination signal or fatal component
// failure, then performs graceful shutdown.
func waitForShutdown(container *bootstrap.Container) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		container.Log.Infof("Received signal: %v", sig)
	case <-container.Context.Done():
		container.Log.Warn("Application context cancelled")
	}

	container.Shutdown()
}
