// Package main provides the entry point for the lunch logging server.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/di"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/logger"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		reportBootstrapFailure(os.Stderr, injector, err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// The container shuts down in reverse dependency order: the HTTP server
	// drains first, then the services, the denylist and the store.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	log.Info("Server stopped")
}

// reportBootstrapFailure prints err, then shuts down whatever the container
// already started and prints that failure too.
func reportBootstrapFailure(w io.Writer, injector *do.RootScope, err error) {
	fmt.Fprintf(w, "Failed to bootstrap server: %v\n", err)
	if shutdownErr := injector.Shutdown(); shutdownErr != nil {
		fmt.Fprintf(w, "Shutdown after failed bootstrap: %v\n", shutdownErr)
	}
}
