// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/ManuGH/m3ucat/internal/config"
	xglog "github.com/ManuGH/m3ucat/internal/log"
	"github.com/ManuGH/m3ucat/internal/metrics"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher reloads a local source whenever its file changes on disk.
type Watcher struct {
	loader   *Loader
	src      config.SourceConfig
	debounce time.Duration
	logger   zerolog.Logger

	// reloaded, when set, receives the error of every reload attempt.
	reloaded func(error)
}

// NewWatcher creates a watcher for a local source. debounce collapses
// bursts of filesystem events into one reload.
func NewWatcher(loader *Loader, src config.SourceConfig, debounce time.Duration) (*Watcher, error) {
	if src.IsRemote() || src.Path == "" {
		return nil, fmt.Errorf("source %s: only local paths can be watched", src.Name)
	}
	if err := ValidateExtension(src.Path); err != nil {
		return nil, fmt.Errorf("source %s: %w", src.Name, err)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{
		loader:   loader,
		src:      src,
		debounce: debounce,
		logger:   xglog.WithComponent("watcher").With().Str(xglog.FieldSource, src.Name).Logger(),
	}, nil
}

// Run watches until ctx is done. The parent directory is watched so
// editors that replace the file by rename are noticed.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	path, err := filepath.Abs(w.src.Path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	w.logger.Info().
		Str(xglog.FieldEvent, "watcher.started").
		Str(xglog.FieldPath, path).
		Msg("watching playlist file for changes")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str(xglog.FieldEvent, "watcher.stopped").Msg("playlist watcher stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return errors.New("watcher events closed")
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug().
				Str(xglog.FieldEvent, "watcher.file_changed").
				Str("op", event.Op.String()).
				Msg("playlist file changed")
			timer.Reset(w.debounce)

		case <-timer.C:
			w.reload(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return errors.New("watcher errors closed")
			}
			w.logger.Error().
				Err(err).
				Str(xglog.FieldEvent, "watcher.error").
				Msg("playlist watcher error")
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	_, err := w.loader.loadSource(ctx, w.src, metrics.KindWatch)
	if err != nil {
		w.logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "watcher.reload_failed").
			Msg("automatic playlist reload failed; keeping previous catalog")
	} else {
		w.logger.Info().
			Str(xglog.FieldEvent, "watcher.reloaded").
			Msg("playlist reloaded")
	}
	if w.reloaded != nil {
		w.reloaded(err)
	}
}
