// SPDX-License-Identifier: MIT

package playlist

import (
	"context"
	"fmt"

	"github.com/google/renameio/v2"

	"github.com/ManuGH/m3ucat/internal/catalog"
	xglog "github.com/ManuGH/m3ucat/internal/log"
	"github.com/ManuGH/m3ucat/internal/metrics"
)

// WriteFile atomically replaces path with the M3U rendering of cat.
// renameio writes a temp file, fsyncs it and renames it into place.
func WriteFile(ctx context.Context, path string, cat catalog.Catalog) (err error) {
	logger := xglog.WithComponentFromContext(ctx, "export")
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		metrics.IncExportWrite(outcome)
	}()

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending M3U file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending M3U file")
		}
	}()

	if err := WriteM3U(pendingFile, cat); err != nil {
		return fmt.Errorf("write M3U data: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace M3U file: %w", err)
	}

	logger.Info().
		Str(xglog.FieldEvent, "export.written").
		Str(xglog.FieldPath, path).
		Int(xglog.FieldChannels, cat.TotalChannels).
		Msg("playlist exported")
	return nil
}
