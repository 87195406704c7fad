package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phrazzld/constitution-api/internal/platform/migrations"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|reset|status|version]",
		Short: "Manage the database schema",
		Long:  "Runs a schema migration command against the configured database. The default command is up.",
		ValidArgs: []string{
			migrations.CommandUp,
			migrations.CommandDown,
			migrations.CommandReset,
			migrations.CommandStatus,
			migrations.CommandVersion,
		},
		Args: cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	command := migrations.CommandUp
	if len(args) == 1 {
		command = args[0]
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := commandLogger(cmd, cfg)
	ctx := cmd.Context()

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := migrations.Run(ctx, db, cfg.Database.Driver, command, log); err != nil {
		return err
	}

	if command == migrations.CommandVersion {
		current, err := migrations.Version(ctx, db, cfg.Database.Driver)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", current)
	}
	return nil
}
