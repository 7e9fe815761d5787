// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	xglog "github.com/ManuGH/bookcfg/internal/log"
)

// watchDebounce coalesces bursts of editor writes into one render.
var watchDebounce = 500 * time.Millisecond

// watch renders once and again after every change to the book's
// configuration or TOC until ctx is cancelled. Render failures are reported
// and the loop keeps going.
func (r *sphinxRun) watch(ctx context.Context, debounce time.Duration) error {
	logger := xglog.WithComponentFromContext(ctx, "watch")

	dir := r.target
	names := []string{configFile, tocFile}
	if info, err := os.Stat(dir); err != nil {
		return fmt.Errorf("open book: %w", err)
	} else if !info.IsDir() {
		dir = filepath.Dir(dir)
		names = append(names, filepath.Base(r.target))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close() // Ignore close error on shutdown
	}()

	// Watch the directory, not the files: editors often replace a file
	// instead of writing it in place.
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Info().
		Str(xglog.FieldEvent, "watch.started").
		Str(xglog.FieldSourceDir, dir).
		Msg("watching book for changes")

	r.renderReporting(ctx)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Str(xglog.FieldEvent, "watch.stopped").Msg("book watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watchedFile(event.Name, names) {
				continue
			}
			logger.Debug().
				Str(xglog.FieldEvent, "watch.file_changed").
				Str(xglog.FieldPath, event.Name).
				Str("op", event.Op.String()).
				Msg("book input changed")

			// Debounce: restart the timer on each event
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			r.renderReporting(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().
				Err(err).
				Str(xglog.FieldEvent, "watch.error").
				Msg("book watcher error")
		}
	}
}

func (r *sphinxRun) renderReporting(ctx context.Context) {
	if err := r.render(ctx); err != nil {
		fmt.Fprintf(r.errOut, "Error: %v\n", err)
	}
}

// watchedFile reports whether name is one of the book inputs in names.
func watchedFile(name string, names []string) bool {
	return slices.Contains(names, filepath.Base(name))
}
