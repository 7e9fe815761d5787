// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package toc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		full := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, nil, 0o644))
	}
}

func TestExcluded(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "landing.md", "exclude.md")

	got, err := Excluded(root, []string{"landing"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"exclude.md"}, got)
}

func TestExcluded_RelativeToSourceDir(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "s/landing.md", "s/exclude.md", "s/subdir/sub.md", "outside.md")

	got, err := Excluded(filepath.Join(root, "s"), []string{"landing"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"exclude.md", "subdir/sub.md"}, got)
}

func TestExcluded_MatchesExtensionAndNestedStems(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"intro.md",
		"guide/install.ipynb",
		"guide/usage.md",
		"guide/usage.rst",
		"api/ref.rst",
		"README.txt",
	)

	got, err := Excluded(root, []string{"intro.md", "guide/usage", "./api/ref"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"guide/install.ipynb"}, got)
}

func TestExcluded_EmptyTree(t *testing.T) {
	got, err := Excluded(t.TempDir(), []string{"landing"}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExcluded_NoReferences(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "b.md", "a.md")

	got, err := Excluded(root, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "b.md"}, got)
}

func TestExcluded_RejectsEscapingReference(t *testing.T) {
	_, err := Excluded(t.TempDir(), []string{"../elsewhere"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTOC))
}

func TestExcluded_Globs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"intro.md",
		"chapters/one.md",
		"chapters/two.ipynb",
		"chapters/deep/three.md",
		"notes/a.md",
		"notes/b.md",
		"draft.md",
	)

	got, err := Excluded(root, []string{"intro"}, []string{"chapters/*", "./notes/a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"chapters/deep/three.md", "draft.md", "notes/b.md"}, got)
}

func TestExcluded_RejectsBadGlob(t *testing.T) {
	for _, g := range []string{"chapters/[", "../*"} {
		_, err := Excluded(t.TempDir(), nil, []string{g})
		require.Error(t, err, g)
		assert.True(t, errors.Is(err, ErrInvalidTOC), "want ErrInvalidTOC for %q, got %v", g, err)
	}
}
