// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ManuGH/m3ucat/internal/catalog"
	"github.com/ManuGH/m3ucat/internal/source"
)

// runParseCLI loads one playlist and prints its catalog as JSON.
func runParseCLI(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	compact := fs.Bool("compact", false, "print compact JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Usage: daemon parse [-compact] <file|url>")
		return 2
	}
	target := fs.Arg(0)

	loader := source.NewLoader(source.Options{}, nil)
	var (
		cat catalog.Catalog
		err error
	)
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		cat, err = loader.LoadRemote(ctx, target)
	} else {
		cat, err = loader.LoadLocal(ctx, target)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	if !*compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(cat); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
