// File: cmd/secops/main.go
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/djvirus9/secops-dashboard/cmd"
	"github.com/djvirus9/secops-dashboard/internal/observability"
)

// main is the entry point of the application.
func main() {
	// Set up a context that listens for interrupt signals (SIGINT, SIGTERM) for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defer observability.Sync()

	cmd.Execute(ctx)
}
