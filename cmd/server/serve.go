package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phrazzld/constitution-api/internal/platform/logger"
	"github.com/phrazzld/constitution-api/internal/platform/migrations"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().Bool("migrate", true, "Apply pending migrations before serving")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("constitution api starting",
		slog.String("version", version),
		slog.Int("port", cfg.Server.Port),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("session_backend", cfg.Session.Backend))

	ctx := logger.WithLogger(cmd.Context(), log)

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		return err
	}
	defer app.cleanup()

	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := migrations.Up(ctx, app.db, cfg.Database.Driver, log); err != nil {
			return err
		}
	}

	if _, err := app.catalog.Get(ctx); err != nil {
		// The catalog loads lazily, so an unseeded store is not fatal.
		log.Warn("catalog not available yet, run the seed command",
			slog.String("error", err.Error()))
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}
