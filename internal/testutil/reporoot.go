// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package testutil holds helpers shared by tests that need files from the
// repository itself.
package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// ErrNotFound is returned when no ancestor directory holds the marker.
var ErrNotFound = errors.New("marker not found in any parent directory")

// RepoRoot returns the directory of the module's go.mod.
func RepoRoot() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("cannot determine caller")
	}
	return findUp(filepath.Dir(file), "go.mod")
}

// findUp walks from dir towards the filesystem root and returns the first
// directory containing marker.
func findUp(dir, marker string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// ExampleBook returns the sample book under examples/book, failing the test
// when it is missing.
func ExampleBook(t *testing.T) string {
	t.Helper()
	root, err := RepoRoot()
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}
	dir := filepath.Join(root, "examples", "book")
	if _, err := os.Stat(filepath.Join(dir, "_config.yml")); err != nil {
		t.Fatalf("example book: %v", err)
	}
	return dir
}
