// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/maps"

	"github.com/ManuGH/bookcfg/internal/config"
	"github.com/ManuGH/bookcfg/internal/fsutil"
	xglog "github.com/ManuGH/bookcfg/internal/log"
)

const (
	configFile   = "_config.yml"
	tocFile      = "_toc.yml"
	settingsFile = "conf.py"
)

// book is a source directory with its optional configuration and TOC.
type book struct {
	dir        string
	configPath string
	tocPath    string
}

// openBook accepts a book directory or the path of its configuration file.
func openBook(target string) (book, error) {
	info, err := os.Stat(target)
	if err != nil {
		return book{}, fmt.Errorf("open book: %w", err)
	}

	var b book
	if info.IsDir() {
		b.dir = target
		if p := filepath.Join(target, configFile); fsutil.IsRegularFile(p) == nil {
			b.configPath = p
		}
	} else {
		b.dir = filepath.Dir(target)
		b.configPath = target
	}
	if p := filepath.Join(b.dir, tocFile); fsutil.IsRegularFile(p) == nil {
		b.tocPath = p
	}
	return b, nil
}

// label names the book in messages.
func (b book) label() string {
	if b.configPath != "" {
		return b.configPath
	}
	return b.dir
}

func (b book) resolve(ctx context.Context, r *config.Resolver, cli config.Document, raise bool) (config.Document, config.Metadata, error) {
	user := config.Document{}
	if b.configPath != "" {
		var err error
		if user, err = config.LoadFile(b.configPath); err != nil {
			return nil, config.Metadata{}, err
		}
	}
	xglog.WithComponentFromContext(ctx, "cli").Debug().
		Str(xglog.FieldEvent, "book.resolve").
		Str(xglog.FieldConfigPath, b.configPath).
		Str(xglog.FieldTOCPath, b.tocPath).
		Str(xglog.FieldSourceDir, b.dir).
		Msg("resolving book configuration")

	return r.Resolve(ctx, user, cli, config.Options{
		TOCPath:        b.tocPath,
		SourceDir:      b.dir,
		Validate:       true,
		RaiseOnInvalid: raise,
	})
}

// parseOverrides turns "key.path=value" assignments into a CLI layer. Values
// are decoded as YAML so "true", "3" and "[a, b]" keep their types. Later
// assignments win.
func parseOverrides(assignments []string) (config.Document, error) {
	layer := map[string]any{}
	for _, a := range assignments {
		key, raw, ok := strings.Cut(a, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid override %q: want key.path=value", a)
		}
		for _, p := range strings.Split(key, ".") {
			if p == "" {
				return nil, fmt.Errorf("invalid override %q: empty key segment", a)
			}
		}

		value, err := config.ParseValue(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid override %q: %w", a, err)
		}
		maps.Merge(maps.Unflatten(map[string]any{key: value}, "."), layer)
	}
	return config.Document(layer), nil
}
