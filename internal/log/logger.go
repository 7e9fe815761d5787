// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config selects level, destination and service name of the global logger.
// Zero fields fall back to $LOG_LEVEL (else warn), stderr and $LOG_SERVICE
// (else "bookcfg").
type Config struct {
	Level   string
	Output  io.Writer
	Service string
}

const defaultService = "bookcfg"

var (
	mu         sync.Mutex
	configured bool
	base       zerolog.Logger
)

// Configure installs cfg unless a logger is already in place. Package init
// installs the defaults, so entrypoints that parse flags use Reconfigure.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if configured {
		return
	}
	install(cfg)
}

// Reconfigure replaces the global logger unconditionally.
func Reconfigure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	install(cfg)
}

// install must be called with mu held.
func install(cfg Config) {
	zerolog.SetGlobalLevel(levelOf(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	// stdout belongs to command output.
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	base = zerolog.New(out).With().
		Timestamp().
		Str("service", firstNonEmpty(cfg.Service, os.Getenv("LOG_SERVICE"), defaultService)).
		Logger()
	configured = true
}

// levelOf parses level, then $LOG_LEVEL; anything unparsable means warn.
func levelOf(level string) zerolog.Level {
	for _, candidate := range []string{level, os.Getenv("LOG_LEVEL")} {
		if candidate == "" {
			continue
		}
		if parsed, err := zerolog.ParseLevel(candidate); err == nil {
			return parsed
		}
		break
	}
	return zerolog.WarnLevel
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Base returns the current global logger.
func Base() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return base
}

// WithComponent returns a child logger tagged with component.
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str(FieldComponent, component).Logger()
}

func init() {
	Configure(Config{})
}
