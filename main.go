// ./main.go
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/djvirus9/secops-dashboard/cmd"
)

// main is the entry point for the SecOps Dashboard application.
func main() {
	// Execute the root command defined in the cmd package.
	// This handles all command-line parsing, configuration, and execution.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Execute(ctx)
}
