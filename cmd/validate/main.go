// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// validate is a CLI tool to validate a book's _config.yml.
//
// The file is merged over the built-in defaults and checked against the
// configuration schema. A _toc.yml next to the file is used for restricted
// builds.
//
// Usage:
//
//	validate -f _config.yml
//	validate --file _config.yml
//
// Exit codes:
//   - 0: Configuration is valid
//   - 1: Configuration is invalid (parse or validation error)
//   - 2: Usage error (missing required flag)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ManuGH/bookcfg/internal/config"
	"github.com/ManuGH/bookcfg/internal/fsutil"
	xglog "github.com/ManuGH/bookcfg/internal/log"
	"github.com/ManuGH/bookcfg/internal/validate"
	"github.com/ManuGH/bookcfg/internal/version"
)

func main() {
	var file string
	var showVersion bool

	flag.StringVar(&file, "file", "", "path to the book's _config.yml")
	flag.StringVar(&file, "f", "", "path to the book's _config.yml (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version.Version)
		os.Exit(0)
	}

	if file == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  validate -f _config.yml")
		fmt.Fprintln(os.Stderr, "  validate --file _config.yml")
		os.Exit(2)
	}

	xglog.Reconfigure(xglog.Config{Level: "error", Service: "bookcfg-validate"})

	// Load configuration (strict single-document YAML)
	user, err := config.LoadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error in %s:\n", file)
		fmt.Fprintf(os.Stderr, "  %v\n", err)
		os.Exit(1)
	}

	dir := filepath.Dir(file)
	opts := config.Options{SourceDir: dir, Validate: true, RaiseOnInvalid: true}
	if toc := filepath.Join(dir, "_toc.yml"); fsutil.IsRegularFile(toc) == nil {
		opts.TOCPath = toc
	}

	// Merge over defaults and validate against the schema
	if _, _, err := config.Resolve(context.Background(), user, nil, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Validation error in %s:\n", file)
		var verr validate.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintln(os.Stderr, verr.Bullets())
		} else {
			fmt.Fprintf(os.Stderr, "  %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("✓ %s is valid\n", file)
}
