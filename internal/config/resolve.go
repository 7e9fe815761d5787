// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/knadh/koanf/maps"

	"github.com/ManuGH/bookcfg/internal/fsutil"
	xglog "github.com/ManuGH/bookcfg/internal/log"
	"github.com/ManuGH/bookcfg/internal/schema"
	"github.com/ManuGH/bookcfg/internal/toc"
	"github.com/ManuGH/bookcfg/internal/validate"
)

// Keys with special handling during resolution.
const (
	KeyOnlyBuildTOCFiles    = "only_build_toc_files"
	KeyExcludePatterns      = "exclude_patterns"
	KeyLatexIndividualPages = "latex_individualpages"
	KeyLatexDocuments       = "latex.latex_documents"
)

// Options control a single resolution.
type Options struct {
	// TOCPath is the table of contents file; empty means no TOC.
	TOCPath string
	// SourceDir is the root that restricted builds enumerate; empty means ".".
	SourceDir string
	// Validate runs the schema validator on the final configuration.
	Validate bool
	// RaiseOnInvalid turns a validation failure into an error instead of a
	// warning recorded in Metadata.
	RaiseOnInvalid bool
}

// Metadata describes facts about a resolution. It is never part of the
// configuration itself.
type Metadata struct {
	LatexIndividualPages bool           `json:"latex_individualpages" yaml:"latex_individualpages"`
	LatexDocOverrides    map[string]any `json:"latex_doc_overrides" yaml:"latex_doc_overrides"`
	OnlyBuildTOCFiles    bool           `json:"only_build_toc_files" yaml:"only_build_toc_files"`
	TOCPath              string         `json:"toc_path,omitempty" yaml:"toc_path,omitempty"`
	Warning              string         `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// Resolver merges configuration layers into a final configuration.
type Resolver struct {
	component string
}

// NewResolver creates a resolver logging through the "config" component.
// The logger is derived on every call, so later Reconfigure calls apply.
func NewResolver() *Resolver {
	return &Resolver{component: "config"}
}

var defaultResolver = NewResolver()

// Resolve uses a shared resolver; see Resolver.Resolve.
func Resolve(ctx context.Context, user, cli Document, opts Options) (Document, Metadata, error) {
	return defaultResolver.Resolve(ctx, user, cli, opts)
}

// Resolve layers defaults < user < cli, derives the exclusion list of a
// restricted build and validates the result. Neither user nor cli is modified.
func (r *Resolver) Resolve(ctx context.Context, user, cli Document, opts Options) (Document, Metadata, error) {
	logger := xglog.WithComponentFromContext(ctx, r.component)
	var meta Metadata

	if opts.SourceDir == "" {
		opts.SourceDir = "."
	}

	cliLayer := cli.Clone()
	if raw, ok := cliLayer[KeyLatexIndividualPages]; ok {
		delete(cliLayer, KeyLatexIndividualPages)
		b, ok := raw.(bool)
		if !ok {
			return nil, meta, fmt.Errorf("%w: %s must be a boolean, got %T", ErrInvalidDocument, KeyLatexIndividualPages, raw)
		}
		meta.LatexIndividualPages = b
	}

	base, err := Defaults()
	if err != nil {
		return nil, meta, err
	}
	final := Merge(Merge(base, user), cliLayer)

	meta.TOCPath = opts.TOCPath
	if final.Bool(KeyOnlyBuildTOCFiles) {
		excluded, referenced, err := r.restrictToTOC(final, opts)
		if err != nil {
			return nil, meta, err
		}
		final[KeyExcludePatterns] = excluded
		meta.OnlyBuildTOCFiles = true
		logger.Debug().
			Str(xglog.FieldEvent, "toc.excluded").
			Str(xglog.FieldTOCPath, opts.TOCPath).
			Str(xglog.FieldSourceDir, opts.SourceDir).
			Int(xglog.FieldReferenced, referenced).
			Int(xglog.FieldExcluded, len(excluded)).
			Msg("derived exclusion list from table of contents")
	}

	if overrides := final.Map(KeyLatexDocuments); overrides != nil {
		meta.LatexDocOverrides = maps.Copy(overrides)
	} else {
		meta.LatexDocOverrides = map[string]any{}
	}

	if opts.Validate {
		warning, err := schema.Validate(final, opts.RaiseOnInvalid)
		if err != nil {
			return nil, meta, fmt.Errorf("config validation failed: %w", err)
		}
		if warning != "" {
			meta.Warning = warning
			logger.Warn().
				Str(xglog.FieldEvent, "config.validation_warning").
				Int(xglog.FieldViolations, strings.Count(warning, "\n- ")).
				Msg(warning)
		}
	}

	logger.Debug().
		Str(xglog.FieldEvent, "config.resolved").
		Bool(KeyOnlyBuildTOCFiles, meta.OnlyBuildTOCFiles).
		Bool(KeyLatexIndividualPages, meta.LatexIndividualPages).
		Msg("configuration resolved")

	return final, meta, nil
}

// restrictToTOC returns the exclusion list of a restricted build (every
// source file the TOC does not reference plus the configured patterns) and
// the number of files the TOC references.
func (r *Resolver) restrictToTOC(final Document, opts Options) ([]any, int, error) {
	if opts.TOCPath == "" {
		return nil, 0, &InputError{
			Field:  KeyOnlyBuildTOCFiles,
			Reason: "you must have a toc to use only_build_toc_files",
		}
	}
	if err := fsutil.IsRegularFile(opts.TOCPath); err != nil {
		return nil, 0, &InputError{Field: "toc", Reason: err.Error()}
	}

	v := validate.New()
	v.Directory("source_dir", opts.SourceDir)
	if !v.IsValid() {
		return nil, 0, &InputError{Field: "source_dir", Reason: v.Err().Error()}
	}

	t, err := toc.Load(opts.TOCPath)
	if err != nil {
		return nil, 0, err
	}
	files := t.Files()
	unreferenced, err := toc.Excluded(opts.SourceDir, files, t.Globs())
	if err != nil {
		return nil, 0, err
	}

	return unionSorted(final.Strings(KeyExcludePatterns), unreferenced), len(files), nil
}

// unionSorted merges string sets into a sorted, duplicate-free list.
func unionSorted(sets ...[]string) []any {
	seen := make(map[string]struct{})
	for _, set := range sets {
		for _, s := range set {
			seen[s] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for s := range seen {
		keys = append(keys, s)
	}
	sort.Strings(keys)

	out := make([]any, len(keys))
	for i, s := range keys {
		out[i] = s
	}
	return out
}
