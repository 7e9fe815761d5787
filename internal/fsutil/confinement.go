package fsutil

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// CleanRelPath normalises a root-relative reference to a slash-separated path.
// It rejects absolute targets and references that climb out of the root.
func CleanRelPath(relTarget string) (string, error) {
	// Block backslashes to prevent OS-specific bypasses on non-Windows systems.
	if strings.Contains(relTarget, "\\") {
		return "", fmt.Errorf("path contains backslash: %s", relTarget)
	}

	cleanRel := path.Clean(strings.TrimSpace(relTarget))
	if cleanRel == "." || cleanRel == "" {
		return "", fmt.Errorf("path is empty: %q", relTarget)
	}
	if path.IsAbs(cleanRel) || filepath.IsAbs(relTarget) {
		return "", fmt.Errorf("target path must be relative: %s", relTarget)
	}

	// Segment-based so that ".." inside a file name stays legal.
	if cleanRel == ".." || strings.HasPrefix(cleanRel, "../") {
		return "", fmt.Errorf("path traversal attempt: %s", relTarget)
	}

	return cleanRel, nil
}

// IsRegularFile checks if path exists and is a regular file (not directory, device, etc).
// Returns error if not.
func IsRegularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", path)
	}
	return nil
}
