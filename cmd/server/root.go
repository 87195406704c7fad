package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phrazzld/constitution-api/internal/config"
	"github.com/phrazzld/constitution-api/internal/platform/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "(devel)"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "constitution-api",
		Short:        "Constitution questionnaire scoring service",
		Long:         "Serves the constitution questionnaire, scores answer sets and classifies the result.",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("db-driver", "", "Database driver, postgres or sqlite (overrides CONSTITUTION_DATABASE_DRIVER)")
	root.PersistentFlags().String("db-url", "", "Database URL or SQLite path (overrides CONSTITUTION_DATABASE_URL)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSeedCmd(),
		newScoreCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads the configuration and applies the database flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if driver, _ := cmd.Flags().GetString("db-driver"); driver != "" {
		cfg.Database.Driver = driver
	}
	if url, _ := cmd.Flags().GetString("db-url"); url != "" {
		cfg.Database.URL = url
	}
	return cfg, nil
}

// commandLogger returns a JSON logger on the command's stderr so that stdout
// stays free for command output.
func commandLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logger.New(cmd.ErrOrStderr(), cfg.Server.LogLevel)
}
