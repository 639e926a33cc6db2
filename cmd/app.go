package cmd

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/timvw/tmuxedo/internal/catalog"
	"github.com/timvw/tmuxedo/internal/config"
	"github.com/timvw/tmuxedo/internal/inventory"
	"github.com/timvw/tmuxedo/internal/log"
	"github.com/timvw/tmuxedo/internal/mux"
	telem "github.com/timvw/tmuxedo/internal/otel"
	"github.com/timvw/tmuxedo/internal/pluginfile"
	"github.com/timvw/tmuxedo/internal/repo"
)

// app holds what every command needs: configuration, logging, telemetry
// and the git client.
type app struct {
	cfg     *config.Config
	paths   config.Paths
	tel     *telem.Telemetry
	metrics *telem.Metrics
	git     *repo.Git
	store   *pluginfile.Store
}

// setup loads configuration (defaults -> config file -> env vars) and
// initializes logging and OTEL for the named command.
func setup(ctx context.Context, command string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	paths := cfg.Paths()

	if err := log.Init(log.Options{File: paths.LogFile, Debug: cfg.Debug}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
	}
	if cfg.ConfigFile != "" {
		log.L().Debug("config loaded", zap.String("file", cfg.ConfigFile))
	}

	// Wire build version into OTEL service metadata
	telem.Version = Version

	// Initialize OTEL (no-op if no endpoint configured)
	tel, err := telem.Init(ctx, telem.ConfigFrom(cfg, command))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: otel init failed: %v\n", err)
	}

	a := &app{
		cfg:   cfg,
		paths: paths,
		tel:   tel,
		git:   repo.NewGit(paths.PluginsDir, cfg.RemoteBase, cfg.GitTimeoutDuration),
		store: pluginfile.NewStore(paths.PluginsFile),
	}
	if tel != nil {
		a.metrics = tel.Metrics
	}
	return a, nil
}

func (a *app) close(ctx context.Context) {
	if a.tel != nil {
		a.tel.Shutdown(ctx)
	}
	_ = log.Sync()
}

func (a *app) catalog() (*catalog.Catalog, error) {
	if a.cfg.CatalogFile == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(a.cfg.CatalogFile)
}

// inventory builds the in-memory plugin aggregate. Without a multiplexer,
// lifecycle operations skip activation.
func (a *app) inventory() (*inventory.Inventory, error) {
	if err := config.EnsureStructure(a.paths); err != nil {
		return nil, err
	}
	cat, err := a.catalog()
	if err != nil {
		return nil, err
	}

	deps := inventory.Deps{Repo: a.git, Store: a.store, Metrics: a.metrics}
	if m, err := getMultiplexer(); err == nil {
		deps.Activator = mux.NewActivator(m, a.paths.PluginsDir)
	} else {
		log.L().Warn("activation disabled", zap.Error(err))
	}
	return inventory.New(cat, deps)
}
