// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ManuGH/m3ucat/internal/config"
	"github.com/ManuGH/m3ucat/internal/log"
	"github.com/rs/zerolog"
)

// PerformStartupChecks validates the environment before the server starts.
// Missing local playlist files are logged, not fatal: they may appear later
// and a watcher picks them up.
func PerformStartupChecks(_ context.Context, cfg config.AppConfig) error {
	logger := log.WithComponent("startup-check")
	logger.Info().Str("event", "startup.checks_begin").Msg("running pre-flight startup checks")

	if err := checkDataDir(logger, cfg.DataDir); err != nil {
		return fmt.Errorf("data directory check failed: %w", err)
	}
	if err := checkListenAddr(cfg.ListenAddr); err != nil {
		return err
	}
	for _, src := range cfg.Sources {
		if src.IsRemote() {
			continue
		}
		if err := checkFileReadable(src.Path); err != nil {
			logger.Warn().
				Err(err).
				Str("event", "startup.source_unreadable").
				Str(log.FieldSource, src.Name).
				Str(log.FieldPath, src.Path).
				Msg("local playlist source is not readable yet")
		}
	}

	logger.Info().Str("event", "startup.checks_passed").Msg("all startup checks passed")
	return nil
}

func checkDataDir(logger zerolog.Logger, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", path)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	testFile := filepath.Join(path, ".write_test")
	if err := os.WriteFile(testFile, []byte("ok"), 0600); err != nil {
		return fmt.Errorf("directory is not writable: %s (error: %v)", path, err)
	}
	_ = os.Remove(testFile)

	logger.Debug().Str(log.FieldPath, path).Msg("data directory is writable")
	return nil
}

func checkListenAddr(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	if port == "" {
		return nil
	}
	portNum, err := strconv.Atoi(port)
	if err != nil || portNum < 0 || portNum > 65535 {
		return fmt.Errorf("invalid listen port %q in %q", port, addr)
	}
	return nil
}

func checkFileReadable(path string) error {
	// #nosec G304 -- paths come from operator configuration
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}
