// SPDX-License-Identifier: MIT

// Package validate collects configuration violations and reports them as a
// single error.
package validate

import (
	"fmt"
	"os"
	"strings"
)

// rootPath names the document root in messages.
const rootPath = "<root>"

// Error is one violation at a dotted key path.
type Error struct {
	Field   string // dotted key path, "" for the document root
	Value   any    // offending value, if known
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.keyPath(), e.Message)
}

func (e Error) keyPath() string {
	if e.Field == "" {
		return rootPath
	}
	return e.Field
}

// Validator accumulates violations in the order they are found.
type Validator struct {
	errs []Error
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{}
}

// AddError records a violation of field.
func (v *Validator) AddError(field, message string, value any) {
	v.errs = append(v.errs, Error{Field: field, Value: value, Message: message})
}

// IsValid reports whether nothing was recorded.
func (v *Validator) IsValid() bool {
	return len(v.errs) == 0
}

// Errors returns the recorded violations.
func (v *Validator) Errors() []Error {
	return v.errs
}

// Err returns nil when valid, otherwise a ValidationError holding a snapshot
// of the violations recorded so far.
func (v *Validator) Err() error {
	if v.IsValid() {
		return nil
	}
	return ValidationError{errs: append([]Error(nil), v.errs...)}
}

// ValidationError is the combined result of a failed validation. It is a
// value type; match it with errors.As(err, &ValidationError{}).
type ValidationError struct {
	errs []Error
}

// Errors returns the individual violations.
func (e ValidationError) Errors() []Error {
	return e.errs
}

// Fields returns the key path of every violation, in order.
func (e ValidationError) Fields() []string {
	out := make([]string, len(e.errs))
	for i, err := range e.errs {
		out[i] = err.Field
	}
	return out
}

func (e ValidationError) Error() string {
	parts := make([]string, len(e.errs))
	for i, err := range e.errs {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}

// Bullets renders one "- message [key path: 'field']" line per violation.
func (e ValidationError) Bullets() string {
	var sb strings.Builder
	for i, err := range e.errs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "- %s [key path: '%s']", err.Message, err.Field)
	}
	return sb.String()
}

// Directory records a violation unless path names an existing directory.
func (v *Validator) Directory(field, path string) {
	if path == "" {
		v.AddError(field, "directory path cannot be empty", path)
		return
	}
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		v.AddError(field, "directory does not exist", path)
	case err != nil:
		v.AddError(field, fmt.Sprintf("cannot access directory: %v", err), path)
	case !info.IsDir():
		v.AddError(field, "path is not a directory", path)
	}
}
