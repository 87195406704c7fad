package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phrazzld/constitution-api/internal/platform/logger"
	"github.com/phrazzld/constitution-api/internal/platform/migrations"
	"github.com/phrazzld/constitution-api/internal/seed"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the questionnaire catalog into the database",
		Long: "Replaces the stored catalog with the built-in reference catalog or with " +
			"a JSON catalog file. The whole file is rejected if any entry is invalid.",
		Args: cobra.NoArgs,
		RunE: runSeed,
	}
	cmd.Flags().StringP("file", "f", "", "Catalog JSON file (default: built-in catalog)")
	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := commandLogger(cmd, cfg)
	ctx := logger.WithLogger(cmd.Context(), log)

	params := scoringParams(cfg.Scoring)
	path, _ := cmd.Flags().GetString("file")
	c, err := loadSeedCatalog(path, params.MinOptionScore, params.MaxOptionScore)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := migrations.Up(ctx, db, cfg.Database.Driver, log); err != nil {
		return err
	}

	catalogStore, err := newCatalogStore(cfg.Database.Driver, db, log)
	if err != nil {
		return err
	}
	if err := seed.Apply(ctx, db, catalogStore, c, log); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d constitution types and %d questions\n",
		len(c.Categories), len(c.Questions))
	return nil
}

func loadSeedCatalog(path string, minScore, maxScore int) (*seed.Catalog, error) {
	if path == "" {
		return seed.Default(minScore, maxScore)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return seed.Parse(f, minScore, maxScore)
}
