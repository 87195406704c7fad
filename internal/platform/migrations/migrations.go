// Package migrations applies the embedded SQL schema migrations with goose.
// Each supported database driver has its own migration directory since the
// catalog uses JSONB on PostgreSQL and JSON text on SQLite.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
)

// TableName is the goose version table.
const TableName = "schema_migrations"

// Supported migration commands.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandReset   = "reset"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// ErrUnsupportedDriver is returned for a driver without embedded migrations.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// ErrUnknownCommand is returned by Run for commands it does not implement.
var ErrUnknownCommand = errors.New("unknown migration command")

//go:embed sql/postgres/*.sql sql/sqlite/*.sql
var embedded embed.FS

type dialect struct {
	goose string
	dir   string
}

var dialects = map[string]dialect{
	"postgres": {goose: "postgres", dir: "sql/postgres"},
	"sqlite":   {goose: "sqlite3", dir: "sql/sqlite"},
}

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// Up applies every pending migration for driver.
func Up(ctx context.Context, db *sql.DB, driver string, logger *slog.Logger) error {
	return Run(ctx, db, driver, CommandUp, logger)
}

// Version returns the current schema version for driver.
func Version(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	d, ok := dialects[driver]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := configure(d, slog.Default()); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db)
}

// Run executes a goose command against db. All log output from goose is
// forwarded to logger with a per-run correlation id.
func Run(ctx context.Context, db *sql.DB, driver, command string, logger *slog.Logger) error {
	d, ok := dialects[driver]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
	if logger == nil {
		logger = slog.Default()
	}

	migrationLogger := logger.With(
		slog.String("component", "migrations"),
		slog.String("correlation_id", uuid.New().String()),
		slog.String("command", command),
		slog.String("driver", driver),
	)

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := configure(d, migrationLogger); err != nil {
		return err
	}

	startTime := time.Now()
	migrationLogger.Info("starting migration operation")

	var err error
	switch command {
	case CommandUp:
		err = goose.UpContext(ctx, db, d.dir)
	case CommandDown:
		err = goose.DownContext(ctx, db, d.dir)
	case CommandReset:
		err = goose.ResetContext(ctx, db, d.dir)
	case CommandStatus:
		err = goose.StatusContext(ctx, db, d.dir)
	case CommandVersion:
		err = goose.VersionContext(ctx, db, d.dir)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}

	duration := time.Since(startTime)
	if err != nil {
		migrationLogger.Error("migration operation failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", duration.Milliseconds()))
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	migrationLogger.Info("migration operation completed",
		slog.Int64("duration_ms", duration.Milliseconds()))
	return nil
}

func configure(d dialect, logger *slog.Logger) error {
	goose.SetBaseFS(embedded)
	goose.SetTableName(TableName)
	goose.SetLogger(&slogGooseLogger{logger: logger})
	if err := goose.SetDialect(d.goose); err != nil {
		return fmt.Errorf("failed to set goose dialect %s: %w", d.goose, err)
	}
	return nil
}

// slogGooseLogger adapts the goose logger interface to use slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error messages to slog.Error.
// It does not exit; the error is returned to the caller.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
