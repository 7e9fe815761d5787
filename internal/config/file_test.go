// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		want    Document
		wantErr error
	}{
		{
			name:    "mapping",
			file:    "_config.yml",
			content: "title: test\nhtml:\n  extra_footer: foot\nexclude_patterns: [a, b]\n",
			want: Document{
				"title":            "test",
				"html":             map[string]any{"extra_footer": "foot"},
				"exclude_patterns": []any{"a", "b"},
			},
		},
		{
			name:    "empty file",
			file:    "empty.yaml",
			content: "",
			want:    Document{},
		},
		{
			name:    "newline only",
			file:    "newline.yml",
			content: "\n",
			want:    Document{},
		},
		{
			name:    "null document",
			file:    "null.yml",
			content: "~\n",
			want:    Document{},
		},
		{
			name:    "sequence",
			file:    "seq.yml",
			content: "- a\n- b\n",
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "multiple documents",
			file:    "multi.yml",
			content: "title: a\n---\ntitle: b\n",
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "broken yaml",
			file:    "broken.yml",
			content: "title: [a\n",
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "integer key",
			file:    "intkey.yml",
			content: "sphinx:\n  config:\n    1: a\n",
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "boolean key in list item",
			file:    "boolkey.yml",
			content: "parse:\n  myst_substitutions:\n    - true: x\n",
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "quoted numeric key",
			file:    "quoted.yml",
			content: "sphinx:\n  config:\n    \"1\": a\n",
			want:    Document{"sphinx": map[string]any{"config": map[string]any{"1": "a"}}},
		},
		{
			name:    "merge key",
			file:    "merge.yml",
			content: "base: &b\n  x: 1\nother:\n  <<: *b\n  y: 2\n",
			want: Document{
				"base":  map[string]any{"x": 1},
				"other": map[string]any{"x": 1, "y": 2},
			},
		},
		{
			name:    "unsupported extension",
			file:    "config.toml",
			content: "title = 'a'\n",
			wantErr: ErrInvalidDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			got, err := LoadFile(path)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "want %v, got %v", tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "_config.yml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw     string
		want    any
		wantErr bool
	}{
		{raw: "", want: ""},
		{raw: "  ", want: ""},
		{raw: "true", want: true},
		{raw: "3", want: 3},
		{raw: "[a, b]", want: []any{"a", "b"}},
		{raw: "{k: v}", want: map[string]any{"k": "v"}},
		{raw: "{1: v}", wantErr: true},
		{raw: "[a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseValue(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidDocument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
