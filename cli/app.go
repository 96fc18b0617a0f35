package cli

import (
	"context"

	"github.com/grovetools/hydrate/config"
	"github.com/grovetools/hydrate/logging"
	"github.com/grovetools/hydrate/pkg/events"
	"github.com/grovetools/hydrate/pkg/intake"
	"github.com/grovetools/hydrate/pkg/kv/backend"
	"github.com/grovetools/hydrate/pkg/profiling"
	"github.com/grovetools/hydrate/pkg/settings"
	"github.com/grovetools/hydrate/pkg/units"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// App is everything a command needs, wired from the configuration.
type App struct {
	Options  CommandOptions
	Config   *config.Config
	Store    *intake.Store
	Bus      *events.Bus
	Settings *settings.Service
	Logger   *logrus.Entry

	kv backend.Store
}

// NewApp loads configuration and opens the configured storage.
func NewApp(ctx context.Context, cmd *cobra.Command) (*App, error) {
	logger := GetLogger(cmd)
	opts := GetOptions(cmd)

	loading := profiling.Start("load config")
	cfg, err := LoadConfig(opts)
	loading.Stop()
	if err != nil {
		return nil, err
	}
	return NewAppWithConfig(ctx, cfg, opts, logger)
}

// NewAppWithConfig opens storage for an already loaded configuration.
func NewAppWithConfig(ctx context.Context, cfg *config.Config, opts CommandOptions, logger *logrus.Entry) (*App, error) {
	opening := profiling.Start("open storage")
	kvStore, err := backend.Open(ctx, cfg.Storage)
	opening.Stop()
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"backend":  cfg.Storage.Backend,
		"location": backend.Location(cfg.Storage),
	}).Debug("Opened storage")

	bus := events.NewBus(logging.NewLogger("events"))
	storeOpts := intake.OptionsFromConfig(cfg)
	storeOpts.Logger = logging.NewLogger("intake")
	store := intake.New(kvStore, storeOpts)

	return &App{
		Options:  opts,
		Config:   cfg,
		Store:    store,
		Bus:      bus,
		Settings: settings.New(store, bus),
		Logger:   logger,
		kv:       kvStore,
	}, nil
}

// DisplayUnits returns --units when given, otherwise the stored preference.
func (a *App) DisplayUnits(ctx context.Context) (units.System, error) {
	if a.Options.Units != "" {
		return a.Options.Units, nil
	}
	return a.Store.Units(ctx)
}

// StoragePath is the file watched for external edits, or empty for
// backends without one.
func (a *App) StoragePath() string {
	switch a.Config.Storage.Backend {
	case backend.File, backend.SQLite:
		return backend.Location(a.Config.Storage)
	default:
		return ""
	}
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.kv.Close()
}
