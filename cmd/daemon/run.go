// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/ManuGH/m3ucat/internal/api"
	"github.com/ManuGH/m3ucat/internal/catalog"
	"github.com/ManuGH/m3ucat/internal/config"
	"github.com/ManuGH/m3ucat/internal/health"
	xglog "github.com/ManuGH/m3ucat/internal/log"
	"github.com/ManuGH/m3ucat/internal/playlist"
	"github.com/ManuGH/m3ucat/internal/source"
	"github.com/ManuGH/m3ucat/internal/telemetry"
	"github.com/ManuGH/m3ucat/internal/version"
)

// run loads the configuration, starts every component and blocks until ctx
// is done.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.NewLoader(configPath, version.Version).Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})
	logger := xglog.WithComponent("daemon")
	logger.Info().
		Str(xglog.FieldEvent, "config.loaded").
		Str("config_path", configPath).
		Int("sources", len(cfg.Sources)).
		Msg("configuration loaded")

	if err := health.PerformStartupChecks(ctx, cfg); err != nil {
		return fmt.Errorf("startup checks: %w", err)
	}

	tp, err := telemetry.NewProvider(ctx, cfg.Tracing, telemetry.Service{
		Name:    cfg.LogService,
		Version: cfg.Version,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn().Err(err).Str(xglog.FieldEvent, "tracing.shutdown_failed").Msg("tracer shutdown failed")
		}
	}()

	store := catalog.NewStore()
	loader := source.NewLoader(source.OptionsFromConfig(cfg.Fetch), store)

	hm := health.NewManager(cfg.Version)
	hm.RegisterChecker(health.NewCatalogChecker(store))
	if cfg.ExportPath != "" {
		hm.RegisterChecker(health.NewFileChecker("export", cfg.ExportPath))
	}

	var wg sync.WaitGroup
	defer wg.Wait()
	// Cancelled before wg.Wait runs, so background loops stop even when
	// the server fails to start.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.ExportPath != "" {
		exporter := playlist.NewExporter(store, cfg.ExportSource, cfg.ExportPath)
		wg.Go(func() { exporter.Run(ctx) })
	}

	// Initial loads: a failing source is logged and the daemon keeps
	// serving the others.
	if err := loader.LoadAll(ctx, cfg.Sources); err != nil {
		logger.Warn().Err(err).Str(xglog.FieldEvent, "daemon.initial_load_partial").Msg("some sources failed to load")
	}

	for _, src := range cfg.Sources {
		if !src.Watch {
			continue
		}
		w, err := source.NewWatcher(loader, src, cfg.WatchDebounce)
		if err != nil {
			return err
		}
		wg.Go(func() {
			if err := w.Run(ctx); err != nil {
				logger.Error().Err(err).
					Str(xglog.FieldEvent, "watcher.exited").
					Str(xglog.FieldSource, src.Name).
					Msg("playlist watcher exited")
			}
		})
	}

	srv := api.New(cfg, store, loader, hm)
	return srv.ListenAndServe(ctx)
}
