// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ManuGH/m3ucat/internal/catalog"
)

// CatalogChecker is unhealthy until the store holds a catalog and degraded
// while every loaded catalog is empty.
type CatalogChecker struct {
	store *catalog.Store
}

func NewCatalogChecker(store *catalog.Store) *CatalogChecker {
	return &CatalogChecker{store: store}
}

func (c *CatalogChecker) Name() string { return "catalog" }

func (c *CatalogChecker) Check(context.Context) CheckResult {
	names := c.store.Names()
	if len(names) == 0 {
		return CheckResult{Status: StatusUnhealthy, Message: "no catalog loaded yet"}
	}

	channels := 0
	for _, name := range names {
		if cat, ok := c.store.Get(name); ok {
			channels += cat.TotalChannels
		}
	}
	if channels == 0 {
		return CheckResult{Status: StatusDegraded, Message: "all loaded catalogs are empty"}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: fmt.Sprintf("%d catalog(s) loaded", len(names)),
	}
}

// FileChecker watches an output file such as the exported playlist. A file
// that has not been written yet is degraded, not unhealthy.
type FileChecker struct {
	name string
	path string
}

func NewFileChecker(name, path string) *FileChecker {
	return &FileChecker{name: name, path: path}
}

func (c *FileChecker) Name() string { return c.name }

func (c *FileChecker) Check(context.Context) CheckResult {
	if c.path == "" {
		return CheckResult{Status: StatusHealthy, Message: "not configured"}
	}

	info, err := os.Stat(c.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return CheckResult{Status: StatusDegraded, Message: c.path, Error: "file not found"}
	case err != nil:
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	case info.IsDir():
		return CheckResult{Status: StatusUnhealthy, Error: "expected file, got directory"}
	}
	return CheckResult{Status: StatusHealthy, Message: fmt.Sprintf("%d bytes", info.Size())}
}
