package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/visualrobotics/mrp/pkg/application/services/bundle"
	"github.com/visualrobotics/mrp/pkg/application/services/catalog"
	"github.com/visualrobotics/mrp/pkg/application/services/mrp"
	"github.com/visualrobotics/mrp/pkg/application/services/stock"
	"github.com/visualrobotics/mrp/pkg/domain/repositories"
	"github.com/visualrobotics/mrp/pkg/infrastructure/config"
	"github.com/visualrobotics/mrp/pkg/infrastructure/events"
	"github.com/visualrobotics/mrp/pkg/infrastructure/repositories/memory"
	"github.com/visualrobotics/mrp/pkg/infrastructure/repositories/sqlite"
)

// App holds the services a single command invocation works with
type App struct {
	Config config.Config
	Logger zerolog.Logger
	Events *events.InMemoryEventStore

	Stock   *stock.StockService
	Bundle  *bundle.BundleService
	Demand  *mrp.DemandService
	Catalog *catalog.CatalogService

	Out io.Writer
	In  io.Reader

	close func() error
}

// OpenApp opens the database named by cfg and wires the services over it.
// The caller must Close the App.
func OpenApp(cfg config.Config, logger zerolog.Logger) (*App, error) {
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.DBPath, err)
	}

	partRepo := sqlite.NewPartRepository(db)
	app, err := newApp(cfg, logger, partRepo, partRepo, sqlite.NewBOMRepository(db))
	if err != nil {
		if cerr := sqlite.Close(db); cerr != nil {
			logger.Warn().Err(cerr).Msg("failed to close database")
		}
		return nil, err
	}
	app.close = func() error { return sqlite.Close(db) }

	logger.Debug().Str("db", cfg.DBPath).Msg("database opened")
	return app, nil
}

// NewInMemoryApp wires the services over memory repositories
func NewInMemoryApp(
	cfg config.Config,
	logger zerolog.Logger,
	partRepo *memory.PartRepository,
	bomRepo *memory.BOMRepository,
) (*App, error) {
	return newApp(cfg, logger, partRepo, partRepo, bomRepo)
}

func newApp(
	cfg config.Config,
	logger zerolog.Logger,
	partRepo repositories.PartRepository,
	movementRepo repositories.MovementRepository,
	bomRepo repositories.BOMRepository,
) (*App, error) {
	store := events.NewInMemoryEventStore()
	if err := store.Subscribe(events.StockEventTypes, events.NewLogHandler(logger)); err != nil {
		return nil, fmt.Errorf("failed to subscribe event log: %w", err)
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Events:  store,
		Stock:   stock.NewStockService(partRepo, movementRepo, store, cfg.SubPrefix, logger),
		Bundle:  bundle.NewBundleService(partRepo, bomRepo, store, logger),
		Demand:  mrp.NewDemandService(partRepo, bomRepo, logger),
		Catalog: catalog.NewCatalogService(partRepo, bomRepo, store, logger),
		Out:     os.Stdout,
		In:      os.Stdin,
	}, nil
}

// Close releases the database, if any
func (a *App) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}
