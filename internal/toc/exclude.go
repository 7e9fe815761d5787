// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package toc

import (
	"fmt"
	"path"
	"strings"

	"github.com/ManuGH/bookcfg/internal/fsutil"
)

// SourceExtensions are the file types treated as book pages.
var SourceExtensions = []string{".md", ".ipynb", ".rst"}

// Excluded lists the source files below sourceDir that none of the referenced
// files names and no glob matches. A reference matches a file either verbatim
// or by its path without extension, so "landing" selects "landing.md". Globs
// use path.Match syntax against the same two forms, so "chapters/*" selects
// "chapters/one.md". The result holds sorted slash-separated paths relative
// to sourceDir.
func Excluded(sourceDir string, referenced, globs []string) ([]string, error) {
	refs := make(map[string]struct{}, len(referenced))
	for _, r := range referenced {
		clean, err := fsutil.CleanRelPath(r)
		if err != nil {
			return nil, fmt.Errorf("%w: reference %q: %v", ErrInvalidTOC, r, err)
		}
		refs[clean] = struct{}{}
	}

	patterns := make([]string, 0, len(globs))
	for _, g := range globs {
		clean, err := fsutil.CleanRelPath(g)
		if err != nil {
			return nil, fmt.Errorf("%w: glob %q: %v", ErrInvalidTOC, g, err)
		}
		if _, err := path.Match(clean, ""); err != nil {
			return nil, fmt.Errorf("%w: glob %q: %v", ErrInvalidTOC, g, err)
		}
		patterns = append(patterns, clean)
	}

	files, err := fsutil.ListFiles(sourceDir, SourceExtensions)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(files))
	for _, f := range files {
		stem := strings.TrimSuffix(f, path.Ext(f))
		if _, ok := refs[f]; ok {
			continue
		}
		if _, ok := refs[stem]; ok {
			continue
		}
		if globbed(patterns, f, stem) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// globbed reports whether any pattern matches one of names. Patterns are
// validated up front, so match errors cannot occur here.
func globbed(patterns []string, names ...string) bool {
	for _, p := range patterns {
		for _, n := range names {
			if ok, _ := path.Match(p, n); ok {
				return true
			}
		}
	}
	return false
}
