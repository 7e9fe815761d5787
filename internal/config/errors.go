// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInput classifies resolutions that lack a required input, such as
	// a restricted build without a table of contents.
	// Use errors.Is(err, ErrMissingInput) instead of string matching.
	ErrMissingInput = errors.New("missing required input")

	// ErrInvalidDocument classifies configuration files that are not a single
	// YAML mapping.
	ErrInvalidDocument = errors.New("invalid config document")
)

// InputError reports a required input that was not supplied or not usable.
type InputError struct {
	Field  string // configuration key or option that needed the input
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s (%s): %s", ErrMissingInput, e.Field, e.Reason)
}

// Unwrap classifies every InputError as ErrMissingInput.
func (e *InputError) Unwrap() error {
	return ErrMissingInput
}
