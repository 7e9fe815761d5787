// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package sphinx

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"

	xglog "github.com/ManuGH/bookcfg/internal/log"
)

// Header starts every written settings file.
const Header = "# Auto-generated by bookcfg. Edit _config.yml instead."

// Keys returns the setting names in sorted order.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Render writes one "key = value" line per setting, sorted by key. Values are
// Python literals so the output doubles as a conf.py.
func (s Settings) Render(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, k := range s.Keys() {
		lit, err := pyLiteral(s[k])
		if err != nil {
			return fmt.Errorf("render %s: %w", k, err)
		}
		if _, err := fmt.Fprintf(bw, "%s = %s\n", k, lit); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// String renders s, or an error marker when a value cannot be rendered.
func (s Settings) String() string {
	var sb strings.Builder
	if err := s.Render(&sb); err != nil {
		return "<unrenderable settings: " + err.Error() + ">"
	}
	return sb.String()
}

// WriteFile atomically replaces path with the rendered settings.
func WriteFile(ctx context.Context, path string, s Settings) error {
	logger := xglog.WithComponentFromContext(ctx, "sphinx")

	// Temp file in the same dir, fsync, then rename over path.
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending settings file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending settings file")
		}
	}()

	if _, err := fmt.Fprintln(pendingFile, Header); err != nil {
		return fmt.Errorf("write settings header: %w", err)
	}
	if err := s.Render(pendingFile); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace settings file: %w", err)
	}

	logger.Info().
		Str(xglog.FieldEvent, "sphinx.settings_written").
		Str(xglog.FieldPath, path).
		Int("settings", len(s)).
		Msg("builder settings written")
	return nil
}

// pyLiteral renders v as a Python literal. Mapping keys are sorted.
func pyLiteral(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "None", nil
	case bool:
		if x {
			return "True", nil
		}
		return "False", nil
	case string:
		return quote(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return pyFloat(x), nil
	case []string:
		items := make([]any, len(x))
		for i, s := range x {
			items[i] = s
		}
		return pyLiteral(items)
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			lit, err := pyLiteral(item)
			if err != nil {
				return "", err
			}
			parts[i] = lit
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			lit, err := pyLiteral(x[k])
			if err != nil {
				return "", err
			}
			parts[i] = quote(k) + ": " + lit
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	case Settings:
		return pyLiteral(map[string]any(x))
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// quote produces a double-quoted literal valid in both JSON and Python.
func quote(s string) string {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(sb.String(), "\n")
}

// pyFloat renders f so that Python reads it back as a float.
func pyFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return `float("nan")`
	case math.IsInf(f, 1):
		return `float("inf")`
	case math.IsInf(f, -1):
		return `float("-inf")`
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
