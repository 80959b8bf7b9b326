package cmd

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/djvirus9/secops-dashboard/internal/ingest"
	"github.com/djvirus9/secops-dashboard/internal/notify"
	"github.com/djvirus9/secops-dashboard/internal/observability"
	"github.com/djvirus9/secops-dashboard/internal/server"
	"github.com/djvirus9/secops-dashboard/internal/store"
)

// newServeCmd creates the `serve` command hosting the HTTP API.
func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the dashboard API server",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()
			defer observability.Sync()

			st, err := openStore(ctx, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			dispatcher := notify.NewDispatcher(appCfg.Notify(), logger)
			if dispatcher.Enabled() {
				logger.Info("Notification channels configured")
			}

			engine := ingest.NewEngine(st, dispatcher, appCfg.Ingest(), logger)
			srv := server.New(appCfg.Server(), st, engine, logger)
			return srv.Run(ctx)
		},
	}

	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	return serveCmd
}

// openStore connects to Postgres when a database URL is configured and falls
// back to the in-memory store otherwise.
func openStore(ctx context.Context, logger *zap.Logger) (store.Store, error) {
	url := appCfg.Database().URL
	if url == "" {
		logger.Info("No database configured, using in-memory store")
		return store.NewMemory(), nil
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	pg, err := store.NewPostgres(ctx, pool, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	logger.Info("Connected to database")
	return pg, nil
}
