// SPDX-License-Identifier: MIT

// Command daemon serves playlist catalogs over HTTP.
//
// Usage:
//
//	daemon [-config config.yaml] [-version]
//	daemon parse <file|url>
//	daemon config validate [-f config.yaml]
//	daemon healthcheck [-mode ready|live] [-addr localhost:8080]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	xglog "github.com/ManuGH/m3ucat/internal/log"
	"github.com/ManuGH/m3ucat/internal/version"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "parse":
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			code := runParseCLI(ctx, os.Args[2:], os.Stdout, os.Stderr)
			stop()
			os.Exit(code)
		case "config":
			os.Exit(runConfigCLI(os.Args[2:], os.Stdout, os.Stderr))
		case "healthcheck":
			os.Exit(runHealthcheckCLI(os.Args[2:]))
		}
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	// Safe defaults until config is loaded.
	xglog.Configure(xglog.Config{
		Level:   "info",
		Service: "m3ucat",
		Version: version.Version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		logger := xglog.WithComponent("daemon")
		logger.Error().Err(err).Str(xglog.FieldEvent, "daemon.failed").Msg("daemon exited with error")
		stop()
		os.Exit(1)
	}
}
