// SPDX-License-Identifier: MIT

package playlist

import (
	"context"

	"github.com/ManuGH/m3ucat/internal/catalog"
	xglog "github.com/ManuGH/m3ucat/internal/log"
)

// Exporter rewrites an M3U file each time one source's catalog changes.
type Exporter struct {
	store  *catalog.Store
	source string
	path   string
}

// NewExporter creates an exporter of source to path.
func NewExporter(store *catalog.Store, source, path string) *Exporter {
	return &Exporter{store: store, source: source, path: path}
}

// Run subscribes to the store and writes the export until ctx is done, then
// unsubscribes. A catalog already present when Run starts is written
// immediately.
func (e *Exporter) Run(ctx context.Context) {
	updates := make(chan catalog.Update, 8)
	defer e.store.Subscribe(updates)()

	if cat, ok := e.store.Get(e.source); ok {
		e.write(ctx, cat)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case u := <-updates:
			if u.Source != e.source {
				continue
			}
			// Coalesce a burst: only the newest catalog matters.
			cat := u.Catalog
		drain:
			for {
				select {
				case next := <-updates:
					if next.Source == e.source {
						cat = next.Catalog
					}
				default:
					break drain
				}
			}
			e.write(ctx, cat)
		}
	}
}

func (e *Exporter) write(ctx context.Context, cat catalog.Catalog) {
	if err := WriteFile(ctx, e.path, cat); err != nil {
		logger := xglog.WithComponentFromContext(ctx, "export")
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "export.failed").
			Str(xglog.FieldSource, e.source).
			Str(xglog.FieldPath, e.path).
			Msg("playlist export failed")
	}
}
