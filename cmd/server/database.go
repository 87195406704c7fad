package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"github.com/phrazzld/constitution-api/internal/config"
	"github.com/phrazzld/constitution-api/internal/platform/postgres"
	"github.com/phrazzld/constitution-api/internal/platform/sqlite"
	"github.com/phrazzld/constitution-api/internal/store"
)

const dbConnectTimeout = 5 * time.Second

// setupAppDatabase opens the configured database and verifies the connection.
func setupAppDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, dbConnectTimeout)
	defer cancel()

	var (
		db  *sql.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err = openPostgres(ctx, cfg.URL)
	case config.DriverSQLite:
		db, err = sqlite.Open(ctx, cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("database connection established", slog.String("driver", cfg.Driver))
	return db, nil
}

func openPostgres(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// newCatalogStore returns the catalog store matching the database driver.
func newCatalogStore(driver string, db *sql.DB, logger *slog.Logger) (store.CatalogStore, error) {
	switch driver {
	case config.DriverPostgres:
		return postgres.NewPostgresCatalogStore(db, logger), nil
	case config.DriverSQLite:
		return sqlite.NewSQLiteCatalogStore(db, logger), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
