package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/constitution-api/internal/catalog"
	"github.com/phrazzld/constitution-api/internal/config"
	"github.com/phrazzld/constitution-api/internal/domain/scoring"
	"github.com/phrazzld/constitution-api/internal/platform/memory"
	"github.com/phrazzld/constitution-api/internal/platform/redis"
	"github.com/phrazzld/constitution-api/internal/service"
	"github.com/phrazzld/constitution-api/internal/store"
)

// application holds the wired dependencies shared by the subcommands.
type application struct {
	config            *config.Config
	logger            *slog.Logger
	db                *sql.DB
	catalogStore      store.CatalogStore
	catalog           *catalog.Provider
	scoring           scoring.Service
	sessions          store.AnswerSessionStore
	redisClient       *goredis.Client
	assessmentService service.AssessmentService
}

// newApplication connects to the database and session backend and builds the
// service graph. Callers must call cleanup when done.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	params := scoringParams(cfg.Scoring)
	scoringService, err := scoring.NewServiceWithParams(params)
	if err != nil {
		return nil, fmt.Errorf("invalid scoring configuration: %w", err)
	}
	app.scoring = scoringService

	db, err := setupAppDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	app.db = db

	catalogStore, err := newCatalogStore(cfg.Database.Driver, db, logger)
	if err != nil {
		app.cleanup()
		return nil, err
	}
	app.catalogStore = catalogStore
	app.catalog = catalog.NewProvider(catalogStore, params.MinOptionScore, params.MaxOptionScore, logger)

	if err := app.setupSessions(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	assessmentService, err := service.NewAssessmentService(app.catalog, app.sessions, scoringService, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create assessment service: %w", err)
	}
	app.assessmentService = assessmentService

	return app, nil
}

func (app *application) setupSessions(ctx context.Context) error {
	ttl := time.Duration(app.config.Session.TTLMinutes) * time.Minute

	switch app.config.Session.Backend {
	case config.SessionBackendRedis:
		client, err := redis.NewClient(ctx, app.config.Session.RedisURL)
		if err != nil {
			return err
		}
		app.redisClient = client
		app.sessions = redis.NewSessionStore(client, ttl, app.logger)
	case config.SessionBackendMemory:
		app.sessions = memory.NewSessionStore(ttl, app.logger)
	default:
		return fmt.Errorf("unsupported session backend %q", app.config.Session.Backend)
	}

	app.logger.Info("session store ready",
		slog.String("backend", app.config.Session.Backend),
		slog.Duration("ttl", ttl))
	return nil
}

// cleanup releases the database and redis connections.
func (app *application) cleanup() {
	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("failed to close redis client", slog.String("error", err.Error()))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
		}
	}
}

// scoringParams maps the loaded overrides onto the engine defaults. Nil
// fields keep the defaults.
func scoringParams(cfg config.ScoringConfig) *scoring.Params {
	return scoring.NewParams(scoring.ParamsConfig{
		ScaleFactor:        cfg.ScaleFactor,
		MinOptionScore:     cfg.MinOptionScore,
		MaxOptionScore:     cfg.MaxOptionScore,
		BaselineCategoryID: cfg.BaselineCategoryID,
		HighThreshold:      cfg.HighThreshold,
		LowThreshold:       cfg.LowThreshold,
		BaselineThreshold:  cfg.BaselineThreshold,
	})
}
