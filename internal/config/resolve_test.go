// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xglog "github.com/ManuGH/bookcfg/internal/log"
	"github.com/ManuGH/bookcfg/internal/validate"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func strictOptions(tocPath string) Options {
	return Options{TOCPath: tocPath, Validate: true, RaiseOnInvalid: true}
}

func cliDefaults() Document {
	return Document{KeyLatexIndividualPages: false}
}

func TestResolve_OnlyBuildTOCFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"toc.yml":    "- file: landing\n",
		"landing.md": "",
		"exclude.md": "",
	})
	t.Chdir(dir)

	user := Document{KeyOnlyBuildTOCFiles: true}
	final, meta, err := Resolve(context.Background(), user, cliDefaults(), strictOptions("toc.yml"))
	require.NoError(t, err)

	patterns := final.Strings(KeyExcludePatterns)
	assert.Contains(t, patterns, "exclude.md")
	assert.NotContains(t, patterns, "landing.md")
	// Default patterns survive the union.
	assert.Contains(t, patterns, "_build")

	assert.True(t, meta.OnlyBuildTOCFiles)
	assert.Equal(t, "toc.yml", meta.TOCPath)
	assert.Empty(t, meta.Warning)
}

func TestResolve_OnlyBuildTOCFilesWithExcludePatterns(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"toc.yml":    "- file: landing\n",
		"landing.md": "",
		"exclude.md": "",
	})
	t.Chdir(dir)

	user := Document{
		KeyOnlyBuildTOCFiles: true,
		KeyExcludePatterns:   []any{"my/*", "patterns", "patterns"},
	}
	final, _, err := Resolve(context.Background(), user, cliDefaults(), strictOptions("toc.yml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"exclude.md", "my/*", "patterns"}, final.Strings(KeyExcludePatterns))
}

func TestResolve_OnlyBuildTOCFilesKeepsGlobbedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"toc.yml":         "- file: intro\n- glob: chapters/*\n",
		"intro.md":        "",
		"chapters/one.md": "",
		"chapters/two.md": "",
		"draft.md":        "",
	})
	t.Chdir(dir)

	user := Document{KeyOnlyBuildTOCFiles: true, KeyExcludePatterns: []any{}}
	final, _, err := Resolve(context.Background(), user, cliDefaults(), strictOptions("toc.yml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"draft.md"}, final.Strings(KeyExcludePatterns))
}

func TestResolve_OnlyBuildTOCFilesNonDefaultSourceDir(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"toc.yml":         "- file: landing\n",
		"s/landing.md":    "",
		"s/exclude.md":    "",
		"s/subdir/sub.md": "",
	})
	t.Chdir(dir)

	opts := strictOptions("toc.yml")
	opts.SourceDir = "s"
	final, _, err := Resolve(context.Background(), Document{KeyOnlyBuildTOCFiles: true}, cliDefaults(), opts)
	require.NoError(t, err)

	patterns := final.Strings(KeyExcludePatterns)
	assert.Contains(t, patterns, "exclude.md")
	assert.Contains(t, patterns, "subdir/sub.md")
	assert.NotContains(t, patterns, "landing.md")
	assert.NotContains(t, patterns, "s/exclude.md")
}

func TestResolve_OnlyBuildTOCFilesMissingTOC(t *testing.T) {
	user := Document{KeyOnlyBuildTOCFiles: true}
	_, _, err := Resolve(context.Background(), user, cliDefaults(), strictOptions(""))
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrMissingInput))
	assert.Regexp(t, `.*you must have a toc.*`, err.Error())

	var inputErr *InputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, KeyOnlyBuildTOCFiles, inputErr.Field)
}

func TestResolve_OnlyBuildTOCFilesFromCLI(t *testing.T) {
	cli := Document{KeyLatexIndividualPages: true, KeyOnlyBuildTOCFiles: true}
	_, _, err := Resolve(context.Background(), Document{KeyOnlyBuildTOCFiles: false}, cli, strictOptions(""))
	assert.True(t, errors.Is(err, ErrMissingInput), "cli layer must win over user layer, got %v", err)
}

func TestResolve_UnusableInputs(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"toc.yml": "- file: landing\n"})
	user := Document{KeyOnlyBuildTOCFiles: true}

	t.Run("toc is a directory", func(t *testing.T) {
		_, _, err := Resolve(context.Background(), user, nil, strictOptions(dir))
		assert.True(t, errors.Is(err, ErrMissingInput), "got %v", err)
	})

	t.Run("toc does not exist", func(t *testing.T) {
		_, _, err := Resolve(context.Background(), user, nil, strictOptions(filepath.Join(dir, "nope.yml")))
		assert.True(t, errors.Is(err, ErrMissingInput), "got %v", err)
	})

	t.Run("source dir does not exist", func(t *testing.T) {
		opts := strictOptions(filepath.Join(dir, "toc.yml"))
		opts.SourceDir = filepath.Join(dir, "missing")
		_, _, err := Resolve(context.Background(), user, nil, opts)
		assert.True(t, errors.Is(err, ErrMissingInput), "got %v", err)
	})
}

func TestResolve_TOCWithoutRestriction(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"_toc.yml":   "- file: landing\n",
		"landing.md": "",
		"exclude.md": "",
	})

	opts := strictOptions(filepath.Join(dir, "_toc.yml"))
	opts.SourceDir = dir
	final, meta, err := Resolve(context.Background(), nil, cliDefaults(), opts)
	require.NoError(t, err)

	defaults, err := Defaults()
	require.NoError(t, err)
	assert.Equal(t, defaults.Strings(KeyExcludePatterns), final.Strings(KeyExcludePatterns))
	assert.False(t, meta.OnlyBuildTOCFiles)
	assert.Equal(t, opts.TOCPath, meta.TOCPath)
}

func TestResolve_ValidationRaises(t *testing.T) {
	_, _, err := Resolve(context.Background(), Document{"title": 1}, cliDefaults(), strictOptions(""))
	require.Error(t, err)

	var verr validate.ValidationError
	require.True(t, errors.As(err, &verr), "want validate.ValidationError, got %T", err)
	assert.Equal(t, "title", verr.Errors()[0].Field)
	assert.False(t, errors.Is(err, ErrMissingInput))
}

func TestResolve_ValidationWarns(t *testing.T) {
	opts := Options{Validate: true, RaiseOnInvalid: false}
	final, meta, err := Resolve(context.Background(), Document{"title": 1}, cliDefaults(), opts)
	require.NoError(t, err)

	assert.Contains(t, meta.Warning, "Warning")
	assert.Equal(t, 1, final["title"], "non-conformant value is kept")
}

func TestResolve_LogsThroughReconfiguredLogger(t *testing.T) {
	var buf bytes.Buffer
	xglog.Reconfigure(xglog.Config{Level: "warn", Output: &buf, Service: "book-test"})
	t.Cleanup(func() {
		xglog.Reconfigure(xglog.Config{Level: "error", Output: io.Discard})
	})

	_, meta, err := Resolve(context.Background(), Document{"title": 1}, cliDefaults(), Options{Validate: true})
	require.NoError(t, err)
	require.NotEmpty(t, meta.Warning)

	out := buf.String()
	assert.Contains(t, out, `"service":"book-test"`)
	assert.Contains(t, out, `"component":"config"`)
	assert.Contains(t, out, `"event":"config.validation_warning"`)
}

func TestResolve_ValidationDisabled(t *testing.T) {
	final, meta, err := Resolve(context.Background(), Document{"title": 1}, nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, meta.Warning)
	assert.Equal(t, 1, final["title"])
}

func TestResolve_Precedence(t *testing.T) {
	user := Document{
		"title": "from user",
		"html":  map[string]any{"extra_footer": "user footer", "favicon": "user.ico"},
		"parse": map[string]any{"myst_enable_extensions": []any{"deflist"}},
	}
	cli := Document{
		KeyLatexIndividualPages: true,
		"title":                 "from cli",
		"html":                  map[string]any{"favicon": "cli.ico"},
	}

	final, meta, err := Resolve(context.Background(), user, cli, strictOptions(""))
	require.NoError(t, err)

	assert.Equal(t, "from cli", final.String("title"))
	assert.Equal(t, "user footer", final.String("html.extra_footer"))
	assert.Equal(t, "cli.ico", final.String("html.favicon"))
	assert.True(t, final.Bool("html.home_page_in_navbar"), "untouched defaults survive")
	assert.Equal(t, []string{"deflist"}, final.Strings("parse.myst_enable_extensions"), "lists replace wholesale")

	assert.True(t, meta.LatexIndividualPages)
	_, inFinal := final[KeyLatexIndividualPages]
	assert.False(t, inFinal, "metadata flags never reach the document")
}

func TestResolve_LatexDocOverrides(t *testing.T) {
	user := Document{"latex": map[string]any{
		"latex_documents": map[string]any{"targetname": "other.tex"},
	}}
	final, meta, err := Resolve(context.Background(), user, cliDefaults(), strictOptions(""))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"targetname": "other.tex"}, meta.LatexDocOverrides)

	meta.LatexDocOverrides["targetname"] = "changed"
	assert.Equal(t, "other.tex", final.String("latex.latex_documents.targetname"), "metadata must not alias the document")
}

func TestResolve_InvalidCLIFlag(t *testing.T) {
	_, _, err := Resolve(context.Background(), nil, Document{KeyLatexIndividualPages: "yes"}, strictOptions(""))
	assert.True(t, errors.Is(err, ErrInvalidDocument), "got %v", err)
}

func TestResolve_DoesNotMutateInputs(t *testing.T) {
	user := Document{
		"html":             map[string]any{"extra_footer": "x"},
		KeyExcludePatterns: []any{"a"},
	}
	cli := Document{KeyLatexIndividualPages: false, "html": map[string]any{"favicon": "f"}}
	userBefore := user.Clone()
	cliBefore := cli.Clone()

	final, _, err := Resolve(context.Background(), user, cli, strictOptions(""))
	require.NoError(t, err)
	final.Map("html")["extra_footer"] = "mutated"

	if diff := cmp.Diff(userBefore, user); diff != "" {
		t.Errorf("user config mutated (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(cliBefore, cli); diff != "" {
		t.Errorf("cli config mutated (-before +after):\n%s", diff)
	}

	again, _, err := Resolve(context.Background(), nil, nil, strictOptions(""))
	require.NoError(t, err)
	assert.Equal(t, "", again.String("html.extra_footer"), "defaults must not be shared between resolutions")
}
