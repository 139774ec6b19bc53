package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"MonetizationEngine/internal/compliance"
	"MonetizationEngine/internal/config"
	"MonetizationEngine/internal/engine"
	"MonetizationEngine/internal/infrastructure/storage"
	"MonetizationEngine/internal/logging"
	"MonetizationEngine/internal/server"
)

// Application wires configuration to the engine, validator, and HTTP server.
type Application struct {
	cfg    config.Config
	db     *sql.DB
	server *server.Server
}

// New opens storage, loads the taxonomy snapshot, and builds the engine
// stack. The snapshot is read once at startup; reference data changes
// require a restart.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	catalog := storage.NewPostgresCatalog(db)

	taxonomy, err := catalog.ListTaxonomy(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}
	levels, err := catalog.ListDegreeLevels(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load degree levels: %w", err)
	}
	baseLogger.Info("reference data loaded", "taxonomy", len(taxonomy), "levels", len(levels))

	eng := engine.New(cfg.Engine, catalog, taxonomy, levels, baseLogger.With("component", "engine"))
	validator := compliance.NewValidator()
	srv := server.New(eng, validator, baseLogger.With("component", "server"))

	return &Application{cfg: cfg, db: db, server: srv}, nil
}

// Run serves HTTP until the listener fails.
func (a *Application) Run(ctx context.Context) error {
	return a.server.Run(a.cfg.Server.Addr)
}

// Close releases the database handle.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
